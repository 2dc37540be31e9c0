package transaction

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// ImportTransactionsBody is the request body for a bulk import.
type ImportTransactionsBody struct {
	AccountID string               `json:"accountID" format:"uuid" doc:"Account UUID"`
	Rows      []TransactionRowBody `json:"rows" minItems:"1" maxItems:"5000" doc:"Statement rows"`
}

// ImportTransactionsInput is the Huma input for a bulk import.
type ImportTransactionsInput struct {
	Body ImportTransactionsBody
}

// ImportTransactionsResponse is the response body for a bulk import.
type ImportTransactionsResponse struct {
	IDs     []string `json:"ids" doc:"Transaction UUIDs in row order"`
	Created int      `json:"created" doc:"Rows stored"`
	Skipped int      `json:"skipped" doc:"Rows already present"`
}

// ImportTransactionsOutput is the Huma output for a bulk import.
type ImportTransactionsOutput struct {
	Body ImportTransactionsResponse
}

// transactionImporter is the interface for bulk imports.
type transactionImporter interface {
	ImportTransactions(ctx context.Context, accountID uuid.UUID, rows []actions.TransactionInput) (*service.ImportResult, error)
}

// ImportTransactionsHandler handles POST /v1/transaction/import.
type ImportTransactionsHandler struct {
	TransactionService transactionImporter
}

// NewImportTransactionsHandler creates a new ImportTransactionsHandler.
func NewImportTransactionsHandler(svc transactionImporter) *ImportTransactionsHandler {
	return &ImportTransactionsHandler{TransactionService: svc}
}

// Register registers the import endpoint with the Huma API.
func (h *ImportTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "import-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/import",
		Summary:     "Import transactions",
		Description: "Records statement rows in one batch. Rows already stored are skipped; an invalid row rejects the batch.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ImportTransactionsHandler) handle(ctx context.Context, input *ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	accountID, err := params.UUID("accountID", input.Body.AccountID)
	if err != nil {
		return nil, err
	}
	rows := make([]actions.TransactionInput, len(input.Body.Rows))
	for i, row := range input.Body.Rows {
		if rows[i], err = parseRow(row); err != nil {
			return nil, huma.NewError(http.StatusBadRequest, fmt.Sprintf("invalid rows[%d]", i), err)
		}
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("importTransactionsMs")
	}
	result, err := h.TransactionService.ImportTransactions(ctx, accountID, rows)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.From(err, "failed to import transactions")
	}
	if logData != nil {
		logData.AddData("created", result.Created)
		logData.AddData("skipped", result.Skipped)
	}

	ids := make([]string, len(result.IDs))
	for i, id := range result.IDs {
		ids[i] = id.String()
	}
	return &ImportTransactionsOutput{Body: ImportTransactionsResponse{
		IDs:     ids,
		Created: result.Created,
		Skipped: result.Skipped,
	}}, nil
}
