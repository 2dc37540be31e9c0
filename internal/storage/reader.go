package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-ledger/internal/storage/account"
	"github.com/carson-networks/budget-ledger/internal/storage/budget"
	"github.com/carson-networks/budget-ledger/internal/storage/budgetversion"
	"github.com/carson-networks/budget-ledger/internal/storage/rule"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

type Reader struct {
	Accounts       account.IReader
	Transactions   transaction.IReader
	Budgets        budget.IReader
	BudgetVersions budgetversion.IReader
	Rules          rule.IReader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:       account.NewReader(exec),
		Transactions:   transaction.NewReader(exec),
		Budgets:        budget.NewReader(exec),
		BudgetVersions: budgetversion.NewReader(exec),
		Rules:          rule.NewReader(exec),
	}
}
