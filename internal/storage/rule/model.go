package rule

import (
	"context"
	"database/sql"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const tableName = "category_rules"

type row struct {
	ID              uuid.UUID      `db:"id"`
	Pattern         string         `db:"pattern"`
	IsRegex         bool           `db:"is_regex"`
	TransactionType sql.NullString `db:"transaction_type"`
	CategoryID      uuid.UUID      `db:"category_id"`
	Priority        int            `db:"priority"`
}

func (r row) toLedger() ledger.CategoryRule {
	rule := ledger.CategoryRule{
		ID:         r.ID,
		Pattern:    r.Pattern,
		IsRegex:    r.IsRegex,
		CategoryID: r.CategoryID,
		Priority:   r.Priority,
	}
	if r.TransactionType.Valid {
		typ := ledger.TransactionType(r.TransactionType.String)
		rule.Type = &typ
	}
	return rule
}

// IReader defines the read side of category rule storage.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	// List returns every rule, highest priority first.
	List(ctx context.Context) ([]ledger.CategoryRule, error)
}

// IWriter defines category rule storage operations inside a database transaction.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	Insert(ctx context.Context, r ledger.CategoryRule) error
}
