package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// -- CategoryBreakdown tests --

func TestCategoryBreakdown_ExcludesFullySplitParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.account(t)
	food, fun := newID(), newID()

	parentID := env.transaction(t, accountID, day(2025, time.March, 3), "Groceries and cinema", -5000)
	require.NoError(t, env.svc.Transaction.SetCategory(ctx, parentID, &food))
	_, err := env.svc.Split.CreateSplits(ctx, parentID, []ledger.SplitCandidate{
		{Description: "Groceries", Amount: -3000, CategoryID: &food},
		{Description: "Cinema", Amount: -2000, CategoryID: &fun},
	})
	require.NoError(t, err)

	rows, err := env.svc.Report.CategoryBreakdown(ctx, ledger.CategorySet{}, ledger.NewMonth(2025, time.March).Range())
	require.NoError(t, err)
	assert.Equal(t, []ledger.CategoryAmount{
		{CategoryID: food, Total: -3000},
		{CategoryID: fun, Total: -2000},
	}, rows)
}

func TestCategoryTotal_InvalidRange(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Report.CategoryTotal(context.Background(), nil, ledger.DateRange{
		From: day(2025, time.April, 1), To: day(2025, time.March, 1),
	})
	var validation *ledger.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// -- MonthlyStatistics tests --

func TestLookbackMonths_EndsBeforeCurrentMonth(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Report.now = func() time.Time { return day(2025, time.March, 14) }

	months := env.svc.Report.LookbackMonths(ledger.Month{})
	require.Len(t, months, 12)
	assert.Equal(t, "2024-03", months[0].String())
	assert.Equal(t, "2025-02", months[11].String())
}

func TestMonthlyStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.svc.Report.opts.StatsLookbackMonths = 3
	accountID := env.account(t)
	food := newID()

	for i, amount := range []int64{-10000, -20000, -60000} {
		id := env.transaction(t, accountID, day(2025, time.Month(i+1), 5), "Supermarket", amount)
		require.NoError(t, env.svc.Transaction.SetCategory(ctx, id, &food))
	}

	result, err := env.svc.Report.MonthlyStatistics(ctx, ledger.NewCategorySet(food), ledger.NewMonth(2025, time.March))
	require.NoError(t, err)

	require.Len(t, result.Months, 3)
	assert.Equal(t, int64(-20000), result.Months[1].Total)
	assert.Equal(t, 3, result.Summary.Count)
	assert.Equal(t, int64(-20000), result.Summary.Median)
}

func TestDisplay(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "-€120.00", env.svc.Report.Display(-12000))
}
