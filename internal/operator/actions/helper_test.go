package actions

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/memstore"
)

// run performs action in its own unit of work, like the operator does.
func run(t *testing.T, store *memstore.Store, action IAction) error {
	t.Helper()
	ctx := context.Background()
	writer, err := store.Write(ctx)
	require.NoError(t, err)
	if err := action.Perform(ctx, writer); err != nil {
		require.NoError(t, writer.Rollback(ctx))
		return err
	}
	require.NoError(t, writer.Commit(ctx))
	return nil
}

func newAccount(t *testing.T, store *memstore.Store, balance int64) uuid.UUID {
	t.Helper()
	create := &CreateAccount{Name: "Checking", StartingBalance: balance}
	require.NoError(t, run(t, store, create))
	return create.Account.ID
}

func newParent(t *testing.T, store *memstore.Store, accountID uuid.UUID, amount int64) ledger.Transaction {
	t.Helper()
	create := &CreateTransaction{
		AccountID: accountID,
		Input: TransactionInput{
			Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Description: "PAYPAL *EUROPE " + uuid.Must(uuid.NewV4()).String(),
			Amount:      amount,
		},
	}
	require.NoError(t, run(t, store, create))
	tx, err := store.Read().Transactions.FindByID(context.Background(), create.ID)
	require.NoError(t, err)
	return tx
}

func ptr[T any](v T) *T {
	return &v
}
