package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
)

// SetCategoryInput is the Huma input for setting a category.
type SetCategoryInput struct {
	ID   string `path:"id" format:"uuid" doc:"Transaction UUID"`
	Body struct {
		CategoryID string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID; omit to clear"`
	}
}

// categorySetter is the interface for setting categories.
type categorySetter interface {
	SetCategory(ctx context.Context, id uuid.UUID, categoryID *uuid.UUID) error
}

// SetCategoryHandler handles PUT /v1/transaction/{id}/category.
type SetCategoryHandler struct {
	TransactionService categorySetter
}

// NewSetCategoryHandler creates a new SetCategoryHandler.
func NewSetCategoryHandler(svc categorySetter) *SetCategoryHandler {
	return &SetCategoryHandler{TransactionService: svc}
}

// Register registers the set category endpoint with the Huma API.
func (h *SetCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "set-transaction-category",
		Method:        http.MethodPut,
		Path:          "/v1/transaction/{id}/category",
		Summary:       "Set category",
		Description:   "Sets or clears the category of a transaction.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *SetCategoryHandler) handle(ctx context.Context, input *SetCategoryInput) (*struct{}, error) {
	id, err := params.UUID("id", input.ID)
	if err != nil {
		return nil, err
	}
	categoryID, err := params.OptionalUUID("categoryID", input.Body.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := h.TransactionService.SetCategory(ctx, id, categoryID); err != nil {
		return nil, apierror.From(err, "failed to set category")
	}
	return nil, nil
}
