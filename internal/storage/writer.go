package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-ledger/internal/storage/account"
	"github.com/carson-networks/budget-ledger/internal/storage/budget"
	"github.com/carson-networks/budget-ledger/internal/storage/budgetversion"
	"github.com/carson-networks/budget-ledger/internal/storage/rule"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// Tx ends a unit of work.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer groups the table writers of one database transaction.
type Writer struct {
	tx            Tx
	Account       account.IWriter
	Transaction   transaction.IWriter
	Budget        budget.IWriter
	BudgetVersion budgetversion.IWriter
	Rule          rule.IWriter
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:            tx,
		Account:       account.NewWriter(tx),
		Transaction:   transaction.NewWriter(tx),
		Budget:        budget.NewWriter(tx),
		BudgetVersion: budgetversion.NewWriter(tx),
		Rule:          rule.NewWriter(tx),
	}
}

// NewWriterWith assembles a Writer from arbitrary table writers, used by
// backends that are not SQL.
func NewWriterWith(
	tx Tx,
	accounts account.IWriter,
	transactions transaction.IWriter,
	budgets budget.IWriter,
	versions budgetversion.IWriter,
	rules rule.IWriter,
) *Writer {
	return &Writer{
		tx:            tx,
		Account:       accounts,
		Transaction:   transactions,
		Budget:        budgets,
		BudgetVersion: versions,
		Rule:          rules,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
