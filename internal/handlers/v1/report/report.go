// Package report serves the aggregate views over categorized spending.
package report

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/money"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// RangeBody selects categories over an inclusive date range.
type RangeBody struct {
	CategoryIDs []string `json:"categoryIDs,omitempty" doc:"Category UUIDs; empty selects every categorized transaction"`
	From        string   `json:"from,omitempty" format:"date" doc:"First day, YYYY-MM-DD; omit for open"`
	To          string   `json:"to,omitempty" format:"date" doc:"Last day, YYYY-MM-DD; omit for open"`
}

// Amount is a signed total in both machine and display form.
type Amount struct {
	Total   string `json:"total" doc:"Decimal total; net spending is negative"`
	Display string `json:"display" doc:"Total formatted in the ledger currency"`
}

// TotalInput is the Huma input for the category total.
type TotalInput struct {
	Body RangeBody
}

// TotalOutput is the Huma output for the category total.
type TotalOutput struct {
	Body Amount
}

// BreakdownRow is the total of one category.
type BreakdownRow struct {
	CategoryID string `json:"categoryID"`
	Amount
}

// BreakdownInput is the Huma input for the category breakdown.
type BreakdownInput struct {
	Body RangeBody
}

// BreakdownOutput is the Huma output for the category breakdown.
type BreakdownOutput struct {
	Body struct {
		Categories []BreakdownRow `json:"categories" doc:"Largest absolute total first"`
	}
}

// StatisticsInput is the Huma input for monthly statistics.
type StatisticsInput struct {
	Body struct {
		CategoryIDs []string `json:"categoryIDs,omitempty" doc:"Category UUIDs; empty selects every categorized transaction"`
		Through     string   `json:"through,omitempty" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"Last month of the window, YYYY-MM; defaults to last month"`
	}
}

// MonthRow is the total of one month.
type MonthRow struct {
	Month string `json:"month" doc:"YYYY-MM"`
	Amount
}

// Summary holds the averages of the monthly totals.
type Summary struct {
	Count          int    `json:"count"`
	Median         Amount `json:"median"`
	TrimmedMean    Amount `json:"trimmedMean"`
	IQRMean        Amount `json:"iqrMean"`
	WeightedMedian Amount `json:"weightedMedian" doc:"Median weighted toward recent months"`
}

// StatisticsOutput is the Huma output for monthly statistics.
type StatisticsOutput struct {
	Body struct {
		Months  []MonthRow `json:"months" doc:"Oldest first"`
		Summary Summary    `json:"summary"`
	}
}

type reportService interface {
	CategoryTotal(ctx context.Context, categories ledger.CategorySet, r ledger.DateRange) (int64, error)
	CategoryBreakdown(ctx context.Context, categories ledger.CategorySet, r ledger.DateRange) ([]ledger.CategoryAmount, error)
	MonthlyStatistics(ctx context.Context, categories ledger.CategorySet, through ledger.Month) (*service.MonthlyStatistics, error)
	Display(cents int64) string
}

// Handler serves the report endpoints.
type Handler struct {
	ReportService reportService
}

// NewHandler creates a new report Handler.
func NewHandler(svc reportService) *Handler {
	return &Handler{ReportService: svc}
}

// Register registers the report endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "report-category-total",
		Method:      http.MethodPost,
		Path:        "/v1/report/total",
		Summary:     "Category total",
		Description: "Net spending of the selected categories over a date range, after splits.",
		Tags:        []string{"Reports"},
	}, h.total)
	huma.Register(api, huma.Operation{
		OperationID: "report-category-breakdown",
		Method:      http.MethodPost,
		Path:        "/v1/report/breakdown",
		Summary:     "Category breakdown",
		Description: "Net spending per category over a date range.",
		Tags:        []string{"Reports"},
	}, h.breakdown)
	huma.Register(api, huma.Operation{
		OperationID: "report-monthly-statistics",
		Method:      http.MethodPost,
		Path:        "/v1/report/statistics",
		Summary:     "Monthly statistics",
		Description: "Monthly totals over the lookback window with robust averages.",
		Tags:        []string{"Reports"},
	}, h.statistics)
}

func (h *Handler) amount(cents int64) Amount {
	return Amount{Total: money.FormatCents(cents), Display: h.ReportService.Display(cents)}
}

func parseRange(body RangeBody) (ledger.CategorySet, ledger.DateRange, error) {
	ids, err := params.UUIDs("categoryIDs", body.CategoryIDs)
	if err != nil {
		return nil, ledger.DateRange{}, err
	}
	r, err := params.DateRange(body.From, body.To)
	if err != nil {
		return nil, ledger.DateRange{}, err
	}
	return ledger.NewCategorySet(ids...), r, nil
}

func (h *Handler) total(ctx context.Context, input *TotalInput) (*TotalOutput, error) {
	categories, r, err := parseRange(input.Body)
	if err != nil {
		return nil, err
	}
	total, err := h.ReportService.CategoryTotal(ctx, categories, r)
	if err != nil {
		return nil, apierror.From(err, "failed to compute total")
	}
	return &TotalOutput{Body: h.amount(total)}, nil
}

func (h *Handler) breakdown(ctx context.Context, input *BreakdownInput) (*BreakdownOutput, error) {
	categories, r, err := parseRange(input.Body)
	if err != nil {
		return nil, err
	}
	rows, err := h.ReportService.CategoryBreakdown(ctx, categories, r)
	if err != nil {
		return nil, apierror.From(err, "failed to compute breakdown")
	}
	out := &BreakdownOutput{}
	out.Body.Categories = make([]BreakdownRow, len(rows))
	for i, row := range rows {
		out.Body.Categories[i] = BreakdownRow{CategoryID: row.CategoryID.String(), Amount: h.amount(row.Total)}
	}
	return out, nil
}

func (h *Handler) statistics(ctx context.Context, input *StatisticsInput) (*StatisticsOutput, error) {
	ids, err := params.UUIDs("categoryIDs", input.Body.CategoryIDs)
	if err != nil {
		return nil, err
	}
	var through ledger.Month
	if input.Body.Through != "" {
		if through, err = params.Month("through", input.Body.Through); err != nil {
			return nil, err
		}
	}
	result, err := h.ReportService.MonthlyStatistics(ctx, ledger.NewCategorySet(ids...), through)
	if err != nil {
		return nil, apierror.From(err, "failed to compute statistics")
	}

	out := &StatisticsOutput{}
	out.Body.Months = make([]MonthRow, len(result.Months))
	for i, m := range result.Months {
		out.Body.Months[i] = MonthRow{Month: m.Month.String(), Amount: h.amount(m.Total)}
	}
	s := result.Summary
	out.Body.Summary = Summary{
		Count:          s.Count,
		Median:         h.amount(s.Median),
		TrimmedMean:    h.amount(s.TrimmedMean),
		IQRMean:        h.amount(s.IQRMean),
		WeightedMedian: h.amount(s.WeightedMedian),
	}
	return out, nil
}
