package transaction

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const tableName = "transactions"

var columns = []string{
	"id",
	"account_id",
	"transaction_date",
	"description",
	"amount_cents",
	"transaction_type",
	"category_id",
	"parent_id",
	"hash",
	"balance_after_cents",
	"reference",
	"created_at",
}

// row mirrors the transactions table.
type row struct {
	ID                uuid.UUID     `db:"id"`
	AccountID         uuid.UUID     `db:"account_id"`
	TransactionDate   time.Time     `db:"transaction_date"`
	Description       string        `db:"description"`
	AmountCents       int64         `db:"amount_cents"`
	TransactionType   string        `db:"transaction_type"`
	CategoryID        uuid.NullUUID `db:"category_id"`
	ParentID          uuid.NullUUID `db:"parent_id"`
	Hash              string        `db:"hash"`
	BalanceAfterCents sql.NullInt64 `db:"balance_after_cents"`
	Reference         string        `db:"reference"`
	CreatedAt         time.Time     `db:"created_at"`
}

func (r row) toLedger() ledger.Transaction {
	t := ledger.Transaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Date:        ledger.Day(r.TransactionDate),
		Description: r.Description,
		Amount:      r.AmountCents,
		Type:        ledger.TransactionType(r.TransactionType),
		Hash:        r.Hash,
		Reference:   r.Reference,
		CreatedAt:   r.CreatedAt,
	}
	if r.CategoryID.Valid {
		id := r.CategoryID.UUID
		t.CategoryID = &id
	}
	if r.ParentID.Valid {
		id := r.ParentID.UUID
		t.ParentID = &id
	}
	if r.BalanceAfterCents.Valid {
		balance := r.BalanceAfterCents.Int64
		t.BalanceAfter = &balance
	}
	return t
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// NodeFilter selects the transactions loaded for aggregation and matching.
// Every transaction in Range is returned, each with all of its direct
// children regardless of the children's dates.
type NodeFilter struct {
	AccountID *uuid.UUID
	Range     ledger.DateRange
}

// ListFilter specifies filters for paginated listing.
type ListFilter struct {
	AccountID       *uuid.UUID
	CategoryID      *uuid.UUID
	TopLevelOnly    bool
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// IReader defines the read side of transaction storage.
//
//go:generate mockery --name IReader --output mock_IReader.go
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
	FindByHash(ctx context.Context, hash string) (ledger.Transaction, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ledger.Transaction, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]ledger.Transaction, error)
	ListChildrenOf(ctx context.Context, parentIDs []uuid.UUID) ([]ledger.Transaction, error)
	ListNodes(ctx context.Context, filter *NodeFilter) ([]ledger.Node, error)
	List(ctx context.Context, filter *ListFilter) ([]ledger.Transaction, error)
	LinkedReferences(ctx context.Context, accountID uuid.UUID) (map[string]struct{}, error)
}

// IWriter defines transaction storage operations inside a database transaction.
//
//go:generate mockery --name IWriter --output mock_IWriter.go
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
	Insert(ctx context.Context, t ledger.Transaction) error
	SetCategory(ctx context.Context, id uuid.UUID, categoryID *uuid.UUID) error
	DeleteByID(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByParentID(ctx context.Context, parentID uuid.UUID) (int64, error)
}

// AttachChildren groups children under their parents. Transactions that are
// children themselves get no children.
func AttachChildren(transactions []ledger.Transaction, children []ledger.Transaction) []ledger.Node {
	byParent := make(map[uuid.UUID][]ledger.Transaction)
	for _, c := range children {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}
	nodes := make([]ledger.Node, len(transactions))
	for i, t := range transactions {
		nodes[i] = ledger.Node{Transaction: t}
		if !t.IsSplitChild() {
			nodes[i].Children = byParent[t.ID]
		}
	}
	return nodes
}
