package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// TransactionType is the polarity of a ledger movement.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

// TypeForAmount returns DEBIT for negative amounts and CREDIT otherwise,
// following the expense-negative convention of bank exports.
func TypeForAmount(amount int64) TransactionType {
	if amount < 0 {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

// Transaction is a single ledger row. Amounts are signed minor units (cents).
type Transaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Date         time.Time
	Description  string
	Amount       int64
	Type         TransactionType
	CategoryID   *uuid.UUID
	ParentID     *uuid.UUID
	Hash         string
	BalanceAfter *int64
	Reference    string
	CreatedAt    time.Time
}

// IsSplitChild reports whether the transaction hangs off a split parent.
func (t Transaction) IsSplitChild() bool {
	return t.ParentID != nil
}

// IsCategorized reports whether a category is assigned.
func (t Transaction) IsCategorized() bool {
	return t.CategoryID != nil
}

// Node is a transaction loaded together with its direct children.
// Children never have children of their own.
type Node struct {
	Transaction
	Children []Transaction
}

// IsSplitParent reports whether the node has at least one child.
func (n Node) IsSplitParent() bool {
	return len(n.Children) > 0
}

// Account is the owning account of a set of transactions.
type Account struct {
	ID        uuid.UUID
	Name      string
	Balance   int64
	CreatedAt time.Time
}

// Budget is the owner of a sequence of budget versions.
type Budget struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// CategoryRule assigns CategoryID to uncategorized transactions whose
// description matches Pattern. Higher priority rules win.
type CategoryRule struct {
	ID         uuid.UUID
	Pattern    string
	IsRegex    bool
	Type       *TransactionType
	CategoryID uuid.UUID
	Priority   int
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the day of t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	day := Day(t)
	if !r.From.IsZero() && day.Before(Day(r.From)) {
		return false
	}
	if !r.To.IsZero() && day.After(Day(r.To)) {
		return false
	}
	return true
}

// Validate rejects ranges whose lower bound is after the upper bound.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && Day(r.From).After(Day(r.To)) {
		return &ValidationError{Field: "dateRange", Message: "from must not be after to"}
	}
	return nil
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
