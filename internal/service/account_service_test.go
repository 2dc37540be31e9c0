package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// -- AccountService tests --

func TestCreateAccount_TracksBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.svc.Account.CreateAccount(ctx, "  Checking ", 50000)
	require.NoError(t, err)
	assert.Equal(t, "Checking", account.Name)

	env.transaction(t, account.ID, day(2025, time.March, 3), "Rent", -30000)

	got, err := env.svc.Account.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), got.Balance)
}

func TestCreateAccount_EmptyName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Account.CreateAccount(context.Background(), " ", 0)

	var verr *ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestGetAccount_Unknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Account.GetAccount(context.Background(), newID())

	var nf *ledger.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
