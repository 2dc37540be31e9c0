package reconcile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/money"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// Record is an external payment record on the wire.
type Record struct {
	Date      string `json:"date" format:"date" doc:"Payment day, YYYY-MM-DD"`
	Merchant  string `json:"merchant" doc:"Merchant or payee"`
	Amount    string `json:"amount" doc:"Signed decimal amount, expenses negative"`
	Reference string `json:"reference,omitempty" doc:"External transaction id"`
}

func toRecord(r ledger.ExternalRecord) Record {
	return Record{
		Date:      r.Date.Format(params.DateLayout),
		Merchant:  r.Merchant,
		Amount:    money.FormatCents(r.Amount),
		Reference: r.Reference,
	}
}

func toRecords(records []ledger.ExternalRecord) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = toRecord(r)
	}
	return out
}

// RecordsBody is the request body of the JSON reconcile endpoints.
type RecordsBody struct {
	AccountID string   `json:"accountID" format:"uuid" doc:"Account UUID"`
	Records   []Record `json:"records" maxItems:"10000" doc:"External payment records"`
}

// RecordsInput is the Huma input of the JSON reconcile endpoints.
type RecordsInput struct {
	Body RecordsBody
}

// MatchedRecord pairs a record with the transaction that settled it.
type MatchedRecord struct {
	Record        Record `json:"record"`
	TransactionID string `json:"transactionID" doc:"Matched transaction UUID"`
}

// MatchResponse is the response body of the match endpoint.
type MatchResponse struct {
	Matches        []MatchedRecord `json:"matches"`
	UnmatchedCount int             `json:"unmatchedCount" doc:"Records without a matching transaction"`
}

// MatchOutput is the Huma output of the match endpoint.
type MatchOutput struct {
	Body MatchResponse
}

// LinkedRecord is a record written as a split.
type LinkedRecord struct {
	Record        Record `json:"record"`
	TransactionID string `json:"transactionID" doc:"Parent transaction UUID"`
	SplitID       string `json:"splitID" doc:"Created split UUID"`
}

// FailedRecord is a matched record whose split was rejected.
type FailedRecord struct {
	Record        Record `json:"record"`
	TransactionID string `json:"transactionID"`
	Error         string `json:"error"`
}

// LinkResponse is the response body of the link endpoints.
type LinkResponse struct {
	Linked        []LinkedRecord `json:"linked"`
	Unmatched     []Record       `json:"unmatched"`
	Failed        []FailedRecord `json:"failed"`
	AlreadyLinked int            `json:"alreadyLinked" doc:"Records skipped because their reference was linked before"`
}

// LinkOutput is the Huma output of the link endpoints.
type LinkOutput struct {
	Body LinkResponse
}

// PayPalInput is the Huma input of the PayPal CSV link endpoint.
type PayPalInput struct {
	AccountID string `query:"accountID" format:"uuid" required:"true" doc:"Account UUID"`
	RawBody   []byte `contentType:"text/csv"`
}

// reconciler is the interface for reconciliation.
type reconciler interface {
	MatchExternalRecords(ctx context.Context, accountID uuid.UUID, records []ledger.ExternalRecord) (ledger.MatchResult, error)
	LinkExternalRecords(ctx context.Context, accountID uuid.UUID, records []ledger.ExternalRecord) (*service.LinkResult, error)
}

// recordParser turns an uploaded statement into records.
type recordParser interface {
	Parse(r io.Reader) ([]ledger.ExternalRecord, error)
}

// Handler serves the reconcile endpoints.
type Handler struct {
	ReconciliationService reconciler
	PayPal                recordParser
}

// NewHandler creates a new reconcile Handler.
func NewHandler(svc reconciler, paypal recordParser) *Handler {
	return &Handler{ReconciliationService: svc, PayPal: paypal}
}

// Register registers the reconcile endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "match-external-records",
		Method:      http.MethodPost,
		Path:        "/v1/reconcile/match",
		Summary:     "Match external records",
		Description: "Pairs external payment records with payable transactions of an account without writing anything.",
		Tags:        []string{"Reconciliation"},
	}, h.match)
	huma.Register(api, huma.Operation{
		OperationID: "link-external-records",
		Method:      http.MethodPost,
		Path:        "/v1/reconcile/link",
		Summary:     "Link external records",
		Description: "Matches external payment records and stores each match as a split of the settling transaction.",
		Tags:        []string{"Reconciliation"},
	}, h.link)
	huma.Register(api, huma.Operation{
		OperationID: "link-paypal-export",
		Method:      http.MethodPost,
		Path:        "/v1/reconcile/link/paypal",
		Summary:     "Link PayPal export",
		Description: "Links the payments of a PayPal activity CSV export.",
		Tags:        []string{"Reconciliation"},
	}, h.linkPayPal)
}

// parseRecords parses and validates the JSON records.
func parseRecords(body RecordsBody) (uuid.UUID, []ledger.ExternalRecord, error) {
	accountID, err := params.UUID("accountID", body.AccountID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	records := make([]ledger.ExternalRecord, len(body.Records))
	for i, r := range body.Records {
		field := fmt.Sprintf("records[%d].", i)
		date, err := params.Date(field+"date", r.Date)
		if err != nil {
			return uuid.Nil, nil, err
		}
		amount, err := params.Amount(field+"amount", r.Amount)
		if err != nil {
			return uuid.Nil, nil, err
		}
		records[i] = ledger.ExternalRecord{Date: date, Merchant: r.Merchant, Amount: amount, Reference: r.Reference}
	}
	return accountID, records, nil
}

func (h *Handler) match(ctx context.Context, input *RecordsInput) (*MatchOutput, error) {
	accountID, records, err := parseRecords(input.Body)
	if err != nil {
		return nil, err
	}
	result, err := h.ReconciliationService.MatchExternalRecords(ctx, accountID, records)
	if err != nil {
		return nil, apierror.From(err, "failed to match records")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("matched", len(result.Matches))
		logData.AddData("unmatched", result.UnmatchedCount())
	}

	resp := MatchResponse{
		Matches:        make([]MatchedRecord, len(result.Matches)),
		UnmatchedCount: result.UnmatchedCount(),
	}
	for i, m := range result.Matches {
		resp.Matches[i] = MatchedRecord{Record: toRecord(m.Record), TransactionID: m.TransactionID.String()}
	}
	return &MatchOutput{Body: resp}, nil
}

func (h *Handler) link(ctx context.Context, input *RecordsInput) (*LinkOutput, error) {
	accountID, records, err := parseRecords(input.Body)
	if err != nil {
		return nil, err
	}
	return h.linkRecords(ctx, accountID, records)
}

func (h *Handler) linkPayPal(ctx context.Context, input *PayPalInput) (*LinkOutput, error) {
	accountID, err := params.UUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}
	records, err := h.PayPal.Parse(bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid PayPal export", err)
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("parsedRecords", len(records))
	}
	return h.linkRecords(ctx, accountID, records)
}

func (h *Handler) linkRecords(ctx context.Context, accountID uuid.UUID, records []ledger.ExternalRecord) (*LinkOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("linkRecordsMs")
	}
	result, err := h.ReconciliationService.LinkExternalRecords(ctx, accountID, records)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.From(err, "failed to link records")
	}
	if logData != nil {
		logData.AddData("linked", len(result.Linked))
		logData.AddData("failed", len(result.Failed))
	}

	resp := LinkResponse{
		Linked:        make([]LinkedRecord, len(result.Linked)),
		Unmatched:     toRecords(result.Unmatched),
		Failed:        make([]FailedRecord, len(result.Failed)),
		AlreadyLinked: result.AlreadyLinked,
	}
	for i, l := range result.Linked {
		resp.Linked[i] = LinkedRecord{
			Record:        toRecord(l.Record),
			TransactionID: l.TransactionID.String(),
			SplitID:       l.ChildID.String(),
		}
	}
	for i, f := range result.Failed {
		resp.Failed[i] = FailedRecord{
			Record:        toRecord(f.Record),
			TransactionID: f.TransactionID.String(),
			Error:         f.Err.Error(),
		}
	}
	return &LinkOutput{Body: resp}, nil
}
