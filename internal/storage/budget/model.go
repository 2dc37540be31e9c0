package budget

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const tableName = "budgets"

type row struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toLedger() ledger.Budget {
	return ledger.Budget{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

// IReader defines the read side of budget storage.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (ledger.Budget, error)
}

// IWriter defines budget storage operations inside a database transaction.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	// FindByIDForUpdate locks the budget row; version changes of one budget
	// are serialized on it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Budget, error)
	Insert(ctx context.Context, b ledger.Budget) error
}
