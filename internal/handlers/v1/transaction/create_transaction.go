package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// TransactionRowBody is one transaction in a create or import request.
type TransactionRowBody struct {
	Date        string `json:"date" format:"date" doc:"Transaction day, YYYY-MM-DD"`
	Description string `json:"description" minLength:"1" doc:"Statement description"`
	Amount      string `json:"amount" doc:"Signed decimal amount, expenses negative"`
	Type        string `json:"type,omitempty" enum:"DEBIT,CREDIT" doc:"Defaults to DEBIT for negative amounts, CREDIT otherwise"`
	CategoryID  string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID"`
	Reference   string `json:"reference,omitempty" doc:"External reference"`
}

func parseRow(row TransactionRowBody) (actions.TransactionInput, error) {
	date, err := params.Date("date", row.Date)
	if err != nil {
		return actions.TransactionInput{}, err
	}
	amount, err := params.Amount("amount", row.Amount)
	if err != nil {
		return actions.TransactionInput{}, err
	}
	typ, err := params.TransactionType("type", row.Type)
	if err != nil {
		return actions.TransactionInput{}, err
	}
	categoryID, err := params.OptionalUUID("categoryID", row.CategoryID)
	if err != nil {
		return actions.TransactionInput{}, err
	}
	return actions.TransactionInput{
		Date:        date,
		Description: row.Description,
		Amount:      amount,
		Type:        typ,
		CategoryID:  categoryID,
		Reference:   row.Reference,
	}, nil
}

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID string `json:"accountID" format:"uuid" doc:"Account UUID"`
	TransactionRowBody
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for a created transaction.
type CreateTransactionResponse struct {
	ID      string `json:"id" doc:"Transaction UUID"`
	Created bool   `json:"created" doc:"False when an identical transaction already existed"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, accountID uuid.UUID, in actions.TransactionInput) (uuid.UUID, bool, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a top-level transaction. Posting the same transaction twice returns the stored one.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
func parseCreateTransactionInput(input *CreateTransactionInput) (uuid.UUID, actions.TransactionInput, error) {
	accountID, err := params.UUID("accountID", input.Body.AccountID)
	if err != nil {
		return uuid.Nil, actions.TransactionInput{}, err
	}
	in, err := parseRow(input.Body.TransactionRowBody)
	if err != nil {
		return uuid.Nil, actions.TransactionInput{}, err
	}
	return accountID, in, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	accountID, in, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	id, created, err := h.TransactionService.CreateTransaction(ctx, accountID, in)
	if err != nil {
		return nil, apierror.From(err, "failed to create transaction")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", id.String())
		logData.AddData("created", created)
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	return &CreateTransactionOutput{
		Status: status,
		Body:   CreateTransactionResponse{ID: id.String(), Created: created},
	}, nil
}
