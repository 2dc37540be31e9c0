package service

import (
	"context"
	"time"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/money"
	"github.com/carson-networks/budget-ledger/internal/stats"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// ReportService computes totals over the ledger. All figures use the
// adjusted-amount rule, so split parents and their children are never
// counted twice.
type ReportService struct {
	*base
	now func() time.Time
}

// MonthTotal is the total of one calendar month.
type MonthTotal struct {
	Month ledger.Month
	Total int64
}

// MonthlyStatistics summarizes the monthly totals of a lookback window.
type MonthlyStatistics struct {
	Months  []MonthTotal
	Summary stats.Summary
}

func (s *ReportService) nodes(ctx context.Context, r ledger.DateRange) ([]ledger.Node, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.storage.Read().Transactions.ListNodes(ctx, &transaction.NodeFilter{Range: r})
}

// CategoryTotal sums the transactions of categories within r.
func (s *ReportService) CategoryTotal(ctx context.Context, categories ledger.CategorySet, r ledger.DateRange) (int64, error) {
	nodes, err := s.nodes(ctx, r)
	if err != nil {
		return 0, err
	}
	return ledger.Total(nodes, categories, r), nil
}

// CategoryBreakdown groups CategoryTotal by category.
func (s *ReportService) CategoryBreakdown(ctx context.Context, categories ledger.CategorySet, r ledger.DateRange) ([]ledger.CategoryAmount, error) {
	nodes, err := s.nodes(ctx, r)
	if err != nil {
		return nil, err
	}
	return ledger.Breakdown(nodes, categories, r), nil
}

// LookbackMonths returns the configured number of complete months ending
// with through, oldest first. A zero through means the month before now.
func (s *ReportService) LookbackMonths(through ledger.Month) []ledger.Month {
	if through.IsZero() {
		through = ledger.MonthOf(s.now()).Prev()
	}
	n := s.opts.StatsLookbackMonths
	months := make([]ledger.Month, n)
	for i := range months {
		months[i] = through.AddMonths(i - n + 1)
	}
	return months
}

// MonthlyStatistics computes the monthly totals of categories over the
// lookback window and summarizes them.
func (s *ReportService) MonthlyStatistics(ctx context.Context, categories ledger.CategorySet, through ledger.Month) (*MonthlyStatistics, error) {
	months := s.LookbackMonths(through)
	if len(months) == 0 {
		return &MonthlyStatistics{}, nil
	}
	nodes, err := s.nodes(ctx, ledger.DateRange{From: months[0].Start(), To: months[len(months)-1].End()})
	if err != nil {
		return nil, err
	}

	totals := ledger.MonthlyTotals(nodes, categories, months)
	result := &MonthlyStatistics{
		Months:  make([]MonthTotal, len(months)),
		Summary: stats.Summarize(totals),
	}
	for i, m := range months {
		result.Months[i] = MonthTotal{Month: m, Total: totals[i]}
	}
	return result, nil
}

// Display formats cents in the configured currency.
func (s *ReportService) Display(cents int64) string {
	return money.Display(cents, s.opts.Currency)
}
