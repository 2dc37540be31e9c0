package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

func month(y int, m time.Month) ledger.Month {
	return ledger.NewMonth(y, m)
}

// -- SaveVersion tests --

func TestSaveVersion_AutoCloseAndEffective(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	budget, first, err := env.svc.Budget.CreateBudget(ctx, "Groceries", ledger.BudgetVersion{
		MonthlyAmount: 40000, From: month(2025, time.January),
	})
	require.NoError(t, err)

	saved, closed, err := env.svc.Budget.SaveVersion(ctx, ledger.BudgetVersion{
		BudgetID: budget.ID, MonthlyAmount: 45000, From: month(2025, time.May), ChangeReason: "prices",
	})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, first.ID, closed[0].ID)
	assert.Equal(t, month(2025, time.April), *closed[0].Until)

	april, err := env.svc.Budget.EffectiveVersion(ctx, budget.ID, month(2025, time.April))
	require.NoError(t, err)
	assert.Equal(t, int64(40000), april.MonthlyAmount)

	may, err := env.svc.Budget.EffectiveVersion(ctx, budget.ID, month(2025, time.May))
	require.NoError(t, err)
	assert.Equal(t, saved.ID, may.ID)

	before, err := env.svc.Budget.EffectiveVersion(ctx, budget.ID, month(2024, time.December))
	require.NoError(t, err)
	assert.Nil(t, before)

	assert.Equal(t, []events.Kind{events.KindBudgetVersionSaved, events.KindBudgetVersionSaved}, env.publisher.kinds())
}

func TestSaveVersion_ConflictLeavesVersionsUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	until := month(2025, time.June)
	budget, _, err := env.svc.Budget.CreateBudget(ctx, "Rent", ledger.BudgetVersion{
		MonthlyAmount: 100000, From: month(2025, time.January), Until: &until,
	})
	require.NoError(t, err)

	_, _, err = env.svc.Budget.SaveVersion(ctx, ledger.BudgetVersion{
		BudgetID: budget.ID, MonthlyAmount: 110000, From: month(2025, time.March),
	})
	var conflict *ledger.OverlapConflictError
	require.ErrorAs(t, err, &conflict)

	versions, err := env.svc.Budget.ListVersions(ctx, budget.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, until, *versions[0].Until)
}

// -- DeleteVersion tests --

func TestDeleteVersion_LastVersionProtected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, first, err := env.svc.Budget.CreateBudget(ctx, "Fun", ledger.BudgetVersion{From: month(2025, time.January)})
	require.NoError(t, err)

	err = env.svc.Budget.DeleteVersion(ctx, first.ID)
	var protected *ledger.LastVersionProtectedError
	assert.ErrorAs(t, err, &protected)
	assert.NotContains(t, env.publisher.kinds(), events.KindBudgetVersionDeleted)
}

func TestListVersions_UnknownBudget(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Budget.ListVersions(context.Background(), newID())
	assert.True(t, ledger.IsNotFound(err))
}
