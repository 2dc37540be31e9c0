package budgetversion

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const tableName = "budget_versions"

var columns = []any{
	"id",
	"budget_id",
	"monthly_amount_cents",
	"effective_from_month",
	"effective_until_month",
	"change_reason",
	"created_at",
}

type row struct {
	ID                  uuid.UUID      `db:"id"`
	BudgetID            uuid.UUID      `db:"budget_id"`
	MonthlyAmountCents  int64          `db:"monthly_amount_cents"`
	EffectiveFromMonth  string         `db:"effective_from_month"`
	EffectiveUntilMonth sql.NullString `db:"effective_until_month"`
	ChangeReason        string         `db:"change_reason"`
	CreatedAt           time.Time      `db:"created_at"`
}

func (r row) toLedger() (ledger.BudgetVersion, error) {
	from, err := ledger.ParseMonth(strings.TrimSpace(r.EffectiveFromMonth))
	if err != nil {
		return ledger.BudgetVersion{}, fmt.Errorf("budget version %s: %w", r.ID, err)
	}
	v := ledger.BudgetVersion{
		ID:            r.ID,
		BudgetID:      r.BudgetID,
		MonthlyAmount: r.MonthlyAmountCents,
		From:          from,
		ChangeReason:  r.ChangeReason,
		CreatedAt:     r.CreatedAt,
	}
	if r.EffectiveUntilMonth.Valid {
		until, err := ledger.ParseMonth(strings.TrimSpace(r.EffectiveUntilMonth.String))
		if err != nil {
			return ledger.BudgetVersion{}, fmt.Errorf("budget version %s: %w", r.ID, err)
		}
		v.Until = &until
	}
	return v, nil
}

func untilArg(until *ledger.Month) sql.NullString {
	if until == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: until.String(), Valid: true}
}

// IReader defines the read side of budget version storage.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (ledger.BudgetVersion, error)
	// ListByBudget returns the budget's versions ordered by effective month.
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]ledger.BudgetVersion, error)
}

// IWriter defines budget version storage operations inside a database transaction.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	Insert(ctx context.Context, v ledger.BudgetVersion) error
	Update(ctx context.Context, v ledger.BudgetVersion) error
	Delete(ctx context.Context, id uuid.UUID) error
}
