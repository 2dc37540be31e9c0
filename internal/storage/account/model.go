package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const tableName = "accounts"

type row struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	BalanceCents int64     `db:"balance_cents"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r row) toLedger() ledger.Account {
	return ledger.Account{
		ID:        r.ID,
		Name:      r.Name,
		Balance:   r.BalanceCents,
		CreatedAt: r.CreatedAt,
	}
}

// IReader defines the read side of account storage.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (ledger.Account, error)
}

// IWriter defines account storage operations inside a database transaction.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Account, error)
	Insert(ctx context.Context, a ledger.Account) error
	UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) error
}
