package account

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
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

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return w.find(ctx, id, sm.ForUpdate())
}

func (w *Writer) Insert(ctx context.Context, a ledger.Account) error {
	q := psql.Insert(
		im.Into(tableName, "id", "name", "balance_cents"),
		im.Values(psql.Arg(a.ID), psql.Arg(a.Name), psql.Arg(a.Balance)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("balance_cents").ToArg(balance),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	return nil
}
