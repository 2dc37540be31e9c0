package transaction

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

var _ IWriter = (*Writer)(nil)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindByIDForUpdate retrieves a transaction and locks its row until the
// surrounding database transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return w.one(ctx, id,
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
}

func (w *Writer) Insert(ctx context.Context, t ledger.Transaction) error {
	q := psql.Insert(
		im.Into(tableName,
			"id", "account_id", "transaction_date", "description", "amount_cents", "transaction_type",
			"category_id", "parent_id", "hash", "balance_after_cents", "reference",
		),
		im.Values(
			psql.Arg(t.ID),
			psql.Arg(t.AccountID),
			psql.Arg(ledger.Day(t.Date)),
			psql.Arg(t.Description),
			psql.Arg(t.Amount),
			psql.Arg(string(t.Type)),
			psql.Arg(nullUUID(t.CategoryID)),
			psql.Arg(nullUUID(t.ParentID)),
			psql.Arg(t.Hash),
			psql.Arg(nullInt64(t.BalanceAfter)),
			psql.Arg(t.Reference),
		),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return fmt.Errorf("insert transaction %s: %w", t.ID, err)
	}
	return nil
}

// SetCategory sets or, with a nil categoryID, clears the category.
func (w *Writer) SetCategory(ctx context.Context, id uuid.UUID, categoryID *uuid.UUID) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("category_id").ToArg(nullUUID(categoryID)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &ledger.NotFoundError{Entity: "transaction", ID: id}
	}
	return nil
}

func (w *Writer) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	return w.delete(ctx, dm.Where(psql.Quote("id").EQ(psql.Arg(id))))
}

func (w *Writer) DeleteByParentID(ctx context.Context, parentID uuid.UUID) (int64, error) {
	return w.delete(ctx, dm.Where(psql.Quote("parent_id").EQ(psql.Arg(parentID))))
}

func (w *Writer) delete(ctx context.Context, where bob.Mod[*dialect.DeleteQuery]) (int64, error) {
	q := psql.Delete(dm.From(tableName), where)
	result, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}
	return result.RowsAffected()
}
