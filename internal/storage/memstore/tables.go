package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/account"
	"github.com/carson-networks/budget-ledger/internal/storage/budget"
	"github.com/carson-networks/budget-ledger/internal/storage/budgetversion"
	"github.com/carson-networks/budget-ledger/internal/storage/rule"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// -- accounts --

var _ account.IWriter = (*accountTable)(nil)

type accountTable struct {
	src source
}

func (t *accountTable) FindByID(_ context.Context, id uuid.UUID) (ledger.Account, error) {
	a, ok := t.src().accounts[id]
	if !ok {
		return ledger.Account{}, &ledger.NotFoundError{Entity: "account", ID: id}
	}
	return a, nil
}

func (t *accountTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return t.FindByID(ctx, id)
}

func (t *accountTable) Insert(_ context.Context, a ledger.Account) error {
	st := t.src()
	if _, exists := st.accounts[a.ID]; exists {
		return fmt.Errorf("insert account: duplicate id %s", a.ID)
	}
	st.accounts[a.ID] = a
	return nil
}

func (t *accountTable) UpdateBalance(_ context.Context, id uuid.UUID, balance int64) error {
	st := t.src()
	a, ok := st.accounts[id]
	if !ok {
		return &ledger.NotFoundError{Entity: "account", ID: id}
	}
	a.Balance = balance
	st.accounts[id] = a
	return nil
}

// -- transactions --

var _ transaction.IWriter = (*transactionTable)(nil)

type transactionTable struct {
	src source
	now func() time.Time
}

func (t *transactionTable) FindByID(_ context.Context, id uuid.UUID) (ledger.Transaction, error) {
	tx, ok := t.src().transactions[id]
	if !ok {
		return ledger.Transaction{}, &ledger.NotFoundError{Entity: "transaction", ID: id}
	}
	return tx, nil
}

func (t *transactionTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return t.FindByID(ctx, id)
}

func (t *transactionTable) FindByHash(_ context.Context, hash string) (ledger.Transaction, error) {
	st := t.src()
	id, ok := st.hashes[hash]
	if !ok {
		return ledger.Transaction{}, &ledger.NotFoundError{Entity: "transaction", ID: uuid.Nil}
	}
	return st.transactions[id], nil
}

func (t *transactionTable) FindByIDs(_ context.Context, ids []uuid.UUID) ([]ledger.Transaction, error) {
	st := t.src()
	var found []ledger.Transaction
	for _, id := range ids {
		if tx, ok := st.transactions[id]; ok {
			found = append(found, tx)
		}
	}
	return found, nil
}

// ordered returns every transaction in insertion order.
func (t *transactionTable) ordered() []ledger.Transaction {
	st := t.src()
	result := make([]ledger.Transaction, 0, len(st.order))
	for _, id := range st.order {
		if tx, ok := st.transactions[id]; ok {
			result = append(result, tx)
		}
	}
	return result
}

func (t *transactionTable) ListChildren(_ context.Context, parentID uuid.UUID) ([]ledger.Transaction, error) {
	var children []ledger.Transaction
	for _, tx := range t.ordered() {
		if tx.ParentID != nil && *tx.ParentID == parentID {
			children = append(children, tx)
		}
	}
	return children, nil
}

func (t *transactionTable) ListChildrenOf(_ context.Context, parentIDs []uuid.UUID) ([]ledger.Transaction, error) {
	wanted := make(map[uuid.UUID]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = struct{}{}
	}
	var children []ledger.Transaction
	for _, tx := range t.ordered() {
		if tx.ParentID == nil {
			continue
		}
		if _, ok := wanted[*tx.ParentID]; ok {
			children = append(children, tx)
		}
	}
	return children, nil
}

func (t *transactionTable) ListNodes(_ context.Context, filter *transaction.NodeFilter) ([]ledger.Node, error) {
	all := t.ordered()
	var selected []ledger.Transaction
	for _, tx := range all {
		if filter != nil {
			if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
				continue
			}
			if !filter.Range.Contains(tx.Date) {
				continue
			}
		}
		selected = append(selected, tx)
	}
	slices.SortStableFunc(selected, func(a, b ledger.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	var children []ledger.Transaction
	for _, tx := range all {
		if tx.ParentID != nil {
			children = append(children, tx)
		}
	}
	return transaction.AttachChildren(selected, children), nil
}

func (t *transactionTable) List(_ context.Context, filter *transaction.ListFilter) ([]ledger.Transaction, error) {
	all := t.ordered()
	slices.Reverse(all)

	var matched []ledger.Transaction
	for _, tx := range all {
		if filter != nil {
			if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
				continue
			}
			if filter.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *filter.CategoryID) {
				continue
			}
			if filter.TopLevelOnly && tx.IsSplitChild() {
				continue
			}
			if filter.MaxCreationTime != nil && tx.CreatedAt.After(*filter.MaxCreationTime) {
				continue
			}
		}
		matched = append(matched, tx)
	}

	if filter == nil {
		return matched, nil
	}
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit+1 {
		matched = matched[:filter.Limit+1]
	}
	return matched, nil
}

func (t *transactionTable) LinkedReferences(_ context.Context, accountID uuid.UUID) (map[string]struct{}, error) {
	linked := make(map[string]struct{})
	for _, tx := range t.src().transactions {
		if tx.AccountID == accountID && tx.IsSplitChild() && tx.Reference != "" {
			linked[tx.Reference] = struct{}{}
		}
	}
	return linked, nil
}

func (t *transactionTable) Insert(_ context.Context, tx ledger.Transaction) error {
	st := t.src()
	if _, exists := st.transactions[tx.ID]; exists {
		return fmt.Errorf("insert transaction: duplicate id %s", tx.ID)
	}
	if _, exists := st.hashes[tx.Hash]; exists {
		return fmt.Errorf("insert transaction: duplicate hash %s", tx.Hash)
	}
	if _, ok := st.accounts[tx.AccountID]; !ok {
		return fmt.Errorf("insert transaction: unknown account %s", tx.AccountID)
	}
	tx.Date = ledger.Day(tx.Date)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = t.now().UTC()
	}
	st.transactions[tx.ID] = tx
	st.hashes[tx.Hash] = tx.ID
	st.order = append(st.order, tx.ID)
	return nil
}

func (t *transactionTable) SetCategory(_ context.Context, id uuid.UUID, categoryID *uuid.UUID) error {
	st := t.src()
	tx, ok := st.transactions[id]
	if !ok {
		return &ledger.NotFoundError{Entity: "transaction", ID: id}
	}
	tx.CategoryID = categoryID
	st.transactions[id] = tx
	return nil
}

func (t *transactionTable) DeleteByID(_ context.Context, id uuid.UUID) (int64, error) {
	return t.deleteWhere(func(tx ledger.Transaction) bool { return tx.ID == id }), nil
}

func (t *transactionTable) DeleteByParentID(_ context.Context, parentID uuid.UUID) (int64, error) {
	return t.deleteWhere(func(tx ledger.Transaction) bool {
		return tx.ParentID != nil && *tx.ParentID == parentID
	}), nil
}

func (t *transactionTable) deleteWhere(match func(ledger.Transaction) bool) int64 {
	st := t.src()
	var deleted int64
	for id, tx := range st.transactions {
		if match(tx) {
			delete(st.transactions, id)
			delete(st.hashes, tx.Hash)
			deleted++
		}
	}
	if deleted > 0 {
		st.order = slices.DeleteFunc(st.order, func(id uuid.UUID) bool {
			_, ok := st.transactions[id]
			return !ok
		})
	}
	return deleted
}

// -- budgets --

var _ budget.IWriter = (*budgetTable)(nil)

type budgetTable struct {
	src source
	now func() time.Time
}

func (t *budgetTable) FindByID(_ context.Context, id uuid.UUID) (ledger.Budget, error) {
	b, ok := t.src().budgets[id]
	if !ok {
		return ledger.Budget{}, &ledger.NotFoundError{Entity: "budget", ID: id}
	}
	return b, nil
}

func (t *budgetTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Budget, error) {
	return t.FindByID(ctx, id)
}

func (t *budgetTable) Insert(_ context.Context, b ledger.Budget) error {
	st := t.src()
	if _, exists := st.budgets[b.ID]; exists {
		return fmt.Errorf("insert budget: duplicate id %s", b.ID)
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = t.now().UTC()
	}
	st.budgets[b.ID] = b
	return nil
}

// -- budget versions --

var _ budgetversion.IWriter = (*versionTable)(nil)

type versionTable struct {
	src source
	now func() time.Time
}

func (t *versionTable) FindByID(_ context.Context, id uuid.UUID) (ledger.BudgetVersion, error) {
	v, ok := t.src().versions[id]
	if !ok {
		return ledger.BudgetVersion{}, &ledger.NotFoundError{Entity: "budget version", ID: id}
	}
	return v, nil
}

func (t *versionTable) ListByBudget(_ context.Context, budgetID uuid.UUID) ([]ledger.BudgetVersion, error) {
	var versions []ledger.BudgetVersion
	for _, v := range t.src().versions {
		if v.BudgetID == budgetID {
			versions = append(versions, v)
		}
	}
	slices.SortFunc(versions, func(a, b ledger.BudgetVersion) int {
		if c := a.From.Compare(b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return versions, nil
}

func (t *versionTable) Insert(_ context.Context, v ledger.BudgetVersion) error {
	st := t.src()
	if _, exists := st.versions[v.ID]; exists {
		return fmt.Errorf("insert budget version: duplicate id %s", v.ID)
	}
	if _, ok := st.budgets[v.BudgetID]; !ok {
		return fmt.Errorf("insert budget version: unknown budget %s", v.BudgetID)
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = t.now().UTC()
	}
	st.versions[v.ID] = v
	return nil
}

func (t *versionTable) Update(_ context.Context, v ledger.BudgetVersion) error {
	st := t.src()
	existing, ok := st.versions[v.ID]
	if !ok {
		return &ledger.NotFoundError{Entity: "budget version", ID: v.ID}
	}
	existing.MonthlyAmount = v.MonthlyAmount
	existing.From = v.From
	existing.Until = v.Until
	existing.ChangeReason = v.ChangeReason
	st.versions[v.ID] = existing
	return nil
}

func (t *versionTable) Delete(_ context.Context, id uuid.UUID) error {
	st := t.src()
	if _, ok := st.versions[id]; !ok {
		return &ledger.NotFoundError{Entity: "budget version", ID: id}
	}
	delete(st.versions, id)
	return nil
}

// -- category rules --

var _ rule.IWriter = (*ruleTable)(nil)

type ruleTable struct {
	src source
}

func (t *ruleTable) List(_ context.Context) ([]ledger.CategoryRule, error) {
	rules := slices.Clone(t.src().rules)
	slices.SortStableFunc(rules, func(a, b ledger.CategoryRule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	return rules, nil
}

func (t *ruleTable) Insert(_ context.Context, r ledger.CategoryRule) error {
	st := t.src()
	st.rules = append(st.rules, r)
	return nil
}
