package actions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/memstore"
)

// -- CreateTransaction tests --

func TestCreateTransaction_UpdatesBalanceAndSnapshot(t *testing.T) {
	store := memstore.New()
	accountID := newAccount(t, store, 100000)

	create := &CreateTransaction{
		AccountID: accountID,
		Input: TransactionInput{
			Date:        time.Date(2025, 3, 10, 15, 4, 0, 0, time.UTC),
			Description: "  Rent  ",
			Amount:      -90000,
		},
	}
	require.NoError(t, run(t, store, create))
	assert.True(t, create.Created)

	ctx := context.Background()
	tx, err := store.Read().Transactions.FindByID(ctx, create.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rent", tx.Description)
	assert.Equal(t, ledger.TransactionTypeDebit, tx.Type)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, int64(10000), *tx.BalanceAfter)
	assert.Len(t, tx.Hash, 64)

	account, err := store.Read().Accounts.FindByID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), account.Balance)
}

func TestCreateTransaction_DuplicateIsIdempotent(t *testing.T) {
	store := memstore.New()
	accountID := newAccount(t, store, 0)
	input := TransactionInput{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Description: "Coffee", Amount: -350}

	first := &CreateTransaction{AccountID: accountID, Input: input}
	require.NoError(t, run(t, store, first))
	second := &CreateTransaction{AccountID: accountID, Input: input}
	require.NoError(t, run(t, store, second))

	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)
	account, err := store.Read().Accounts.FindByID(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(-350), account.Balance, "balance moves once")
}

func TestCreateTransaction_UnknownAccount(t *testing.T) {
	store := memstore.New()

	err := run(t, store, &CreateTransaction{
		AccountID: newID(),
		Input:     TransactionInput{Date: time.Now(), Description: "x", Amount: -1},
	})

	assert.True(t, ledger.IsNotFound(err))
}

func TestCreateTransaction_Validation(t *testing.T) {
	store := memstore.New()
	accountID := newAccount(t, store, 0)
	cases := map[string]TransactionInput{
		"date":        {Description: "x", Amount: -1},
		"description": {Date: time.Now(), Amount: -1},
		"amount":      {Date: time.Now(), Description: "x"},
		"type":        {Date: time.Now(), Description: "x", Amount: -1, Type: "TRANSFER"},
	}
	for field, input := range cases {
		t.Run(field, func(t *testing.T) {
			var validation *ledger.ValidationError
			require.ErrorAs(t, run(t, store, &CreateTransaction{AccountID: accountID, Input: input}), &validation)
			assert.Equal(t, field, validation.Field)
		})
	}
}

// -- ImportTransactions tests --

func TestImportTransactions_SkipsKnownAndRepeatedRows(t *testing.T) {
	store := memstore.New()
	accountID := newAccount(t, store, 0)
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := []TransactionInput{
		{Date: day, Description: "Salary", Amount: 300000},
		{Date: day, Description: "Groceries", Amount: -4500},
		{Date: day, Description: "Groceries", Amount: -4500},
	}

	first := &ImportTransactions{AccountID: accountID, Rows: rows}
	require.NoError(t, run(t, store, first))
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 1, first.Skipped)
	assert.Equal(t, first.IDs[1], first.IDs[2])

	again := &ImportTransactions{AccountID: accountID, Rows: rows}
	require.NoError(t, run(t, store, again))
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 3, again.Skipped)
	assert.Equal(t, first.IDs, again.IDs)

	account, err := store.Read().Accounts.FindByID(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(295500), account.Balance)
}

func TestImportTransactions_InvalidRowRejectsBatch(t *testing.T) {
	store := memstore.New()
	accountID := newAccount(t, store, 0)
	rows := []TransactionInput{
		{Date: time.Now(), Description: "ok", Amount: -1},
		{Date: time.Now(), Description: "", Amount: -1},
	}

	var validation *ledger.ValidationError
	require.ErrorAs(t, run(t, store, &ImportTransactions{AccountID: accountID, Rows: rows}), &validation)
	assert.Equal(t, "rows[1].description", validation.Field)
}
