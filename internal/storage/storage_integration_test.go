//go:build integration

package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

func newPostgresStorage(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ledger"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpassword"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(connStr))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(connStr))

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	s := NewStorageFromDB(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func id() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func TestPostgres_TransactionRoundTrip(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	accountID := id()
	category := id()
	balance := int64(4200)
	parent := ledger.Transaction{
		ID:           id(),
		AccountID:    accountID,
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:  "PAYPAL *EUROPE",
		Amount:       -12000,
		Type:         ledger.TransactionTypeDebit,
		Hash:         "parent-hash",
		BalanceAfter: &balance,
	}
	parentID := parent.ID
	child := ledger.Transaction{
		ID:          id(),
		AccountID:   accountID,
		Date:        parent.Date,
		Description: "Flight",
		Amount:      -8000,
		Type:        ledger.TransactionTypeDebit,
		CategoryID:  &category,
		ParentID:    &parentID,
		Hash:        "child-hash",
		Reference:   "PP-1",
	}

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Account.Insert(ctx, ledger.Account{ID: accountID, Name: "Checking"}))
	locked, err := w.Account.FindByIDForUpdate(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", locked.Name)
	require.NoError(t, w.Transaction.Insert(ctx, parent))
	require.NoError(t, w.Transaction.Insert(ctx, child))
	require.NoError(t, w.Commit(ctx))

	found, err := s.Read().Transactions.FindByHash(ctx, "parent-hash")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, found.ID)
	assert.Equal(t, &balance, found.BalanceAfter)
	assert.Nil(t, found.CategoryID)

	nodes, err := s.Read().Transactions.ListNodes(ctx, &transaction.NodeFilter{
		AccountID: &accountID,
		Range:     ledger.NewMonth(2025, time.March).Range(),
	})
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		if n.ID == parent.ID {
			require.Len(t, n.Children, 1)
			assert.Equal(t, int64(-4000), n.AdjustedAmount())
		} else {
			assert.Empty(t, n.Children)
		}
	}

	linked, err := s.Read().Transactions.LinkedReferences(ctx, accountID)
	require.NoError(t, err)
	assert.Contains(t, linked, "PP-1")

	w, err = s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Transaction.SetCategory(ctx, parent.ID, &category))
	deleted, err := w.Transaction.DeleteByParentID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	require.NoError(t, w.Commit(ctx))

	found, err = s.Read().Transactions.FindByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, &category, found.CategoryID)

	_, err = s.Read().Transactions.FindByID(ctx, child.ID)
	assert.True(t, ledger.IsNotFound(err))
}

func TestPostgres_BudgetVersions(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	budgetID := id()
	until := ledger.NewMonth(2025, time.February)
	v := ledger.BudgetVersion{ID: id(), BudgetID: budgetID, MonthlyAmount: 50000, From: ledger.NewMonth(2025, time.January)}

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Budget.Insert(ctx, ledger.Budget{ID: budgetID, Name: "Groceries"}))
	_, err = w.Budget.FindByIDForUpdate(ctx, budgetID)
	require.NoError(t, err)
	require.NoError(t, w.BudgetVersion.Insert(ctx, v))
	v.Until = &until
	require.NoError(t, w.BudgetVersion.Update(ctx, v))
	require.NoError(t, w.Commit(ctx))

	versions, err := s.Read().BudgetVersions.ListByBudget(ctx, budgetID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, &until, versions[0].Until)
	assert.Equal(t, "2025-01", versions[0].From.String())

	w, err = s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.BudgetVersion.Delete(ctx, v.ID))
	require.NoError(t, w.Rollback(ctx))

	_, err = s.Read().BudgetVersions.FindByID(ctx, v.ID)
	assert.NoError(t, err, "rolled back delete leaves the version")
}

func TestPostgres_RulesByPriority(t *testing.T) {
	s := newPostgresStorage(t)
	ctx := context.Background()

	debit := ledger.TransactionTypeDebit
	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Rule.Insert(ctx, ledger.CategoryRule{ID: id(), Pattern: "low", CategoryID: id(), Priority: 1}))
	require.NoError(t, w.Rule.Insert(ctx, ledger.CategoryRule{ID: id(), Pattern: "high", CategoryID: id(), Priority: 9, Type: &debit}))
	require.NoError(t, w.Commit(ctx))

	rules, err := s.Read().Rules.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "high", rules[0].Pattern)
	assert.Equal(t, &debit, rules[0].Type)
}
