package budgetversion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (ledger.BudgetVersion, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	found, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.BudgetVersion{}, &ledger.NotFoundError{Entity: "budget version", ID: id}
	}
	if err != nil {
		return ledger.BudgetVersion{}, fmt.Errorf("select budget version: %w", err)
	}
	return found.toLedger()
}

func (r *Reader) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]ledger.BudgetVersion, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("budget_id").EQ(psql.Arg(budgetID))),
		sm.OrderBy(psql.Quote("effective_from_month")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, fmt.Errorf("select budget versions: %w", err)
	}
	versions := make([]ledger.BudgetVersion, len(rows))
	for i, found := range rows {
		if versions[i], err = found.toLedger(); err != nil {
			return nil, err
		}
	}
	return versions, nil
}
