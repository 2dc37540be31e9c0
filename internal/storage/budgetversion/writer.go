package budgetversion

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
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

func (w *Writer) Insert(ctx context.Context, v ledger.BudgetVersion) error {
	q := psql.Insert(
		im.Into(tableName,
			"id", "budget_id", "monthly_amount_cents", "effective_from_month", "effective_until_month", "change_reason",
		),
		im.Values(
			psql.Arg(v.ID),
			psql.Arg(v.BudgetID),
			psql.Arg(v.MonthlyAmount),
			psql.Arg(v.From.String()),
			psql.Arg(untilArg(v.Until)),
			psql.Arg(v.ChangeReason),
		),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return fmt.Errorf("insert budget version: %w", err)
	}
	return nil
}

// Update overwrites the amount, range and reason of an existing version.
func (w *Writer) Update(ctx context.Context, v ledger.BudgetVersion) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("monthly_amount_cents").ToArg(v.MonthlyAmount),
		um.SetCol("effective_from_month").ToArg(v.From.String()),
		um.SetCol("effective_until_month").ToArg(untilArg(v.Until)),
		um.SetCol("change_reason").ToArg(v.ChangeReason),
		um.Where(psql.Quote("id").EQ(psql.Arg(v.ID))),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return fmt.Errorf("update budget version: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &ledger.NotFoundError{Entity: "budget version", ID: v.ID}
	}
	return nil
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, q)
	if err != nil {
		return fmt.Errorf("delete budget version: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &ledger.NotFoundError{Entity: "budget version", ID: id}
	}
	return nil
}
