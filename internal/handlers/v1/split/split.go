package split

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// SplitBody is one proposed split line.
type SplitBody struct {
	Date        string `json:"date,omitempty" format:"date" doc:"Defaults to the parent's day"`
	Description string `json:"description" minLength:"1" doc:"Split description"`
	Amount      string `json:"amount" doc:"Signed decimal amount"`
	Type        string `json:"type,omitempty" enum:"DEBIT,CREDIT" doc:"Defaults to the parent's type"`
	CategoryID  string `json:"categoryID,omitempty" format:"uuid" doc:"Category UUID"`
	Reference   string `json:"reference,omitempty" doc:"External reference"`
}

// CreateSplitsInput is the Huma input for splitting a transaction.
type CreateSplitsInput struct {
	ID   string `path:"id" format:"uuid" doc:"Parent transaction UUID"`
	Body struct {
		Splits []SplitBody `json:"splits" minItems:"1" doc:"Split lines in order"`
	}
}

// CreateSplitsResponse lists the created splits in input order.
type CreateSplitsResponse struct {
	IDs []string `json:"ids" doc:"Split transaction UUIDs"`
}

// CreateSplitsOutput is the Huma output for splitting a transaction.
type CreateSplitsOutput struct {
	Body CreateSplitsResponse
}

// DeleteSplitsInput is the Huma input for removing every split of a parent.
type DeleteSplitsInput struct {
	ID string `path:"id" format:"uuid" doc:"Parent transaction UUID"`
}

// DeleteSplitsOutput reports how many splits were removed.
type DeleteSplitsOutput struct {
	Body struct {
		Deleted int64 `json:"deleted" doc:"Number of splits removed"`
	}
}

// DeleteSplitInput is the Huma input for removing one split.
type DeleteSplitInput struct {
	ID string `path:"id" format:"uuid" doc:"Split transaction UUID"`
}

// splitService is the interface for split operations.
type splitService interface {
	CreateSplits(ctx context.Context, parentID uuid.UUID, candidates []ledger.SplitCandidate) ([]uuid.UUID, error)
	DeleteSplits(ctx context.Context, parentID uuid.UUID) (int64, error)
	DeleteSplit(ctx context.Context, childID uuid.UUID) error
}

// Handler serves the split endpoints.
type Handler struct {
	SplitService splitService
}

// NewHandler creates a new split Handler.
func NewHandler(svc splitService) *Handler {
	return &Handler{SplitService: svc}
}

// Register registers the split endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-splits",
		Method:        http.MethodPost,
		Path:          "/v1/transaction/{id}/splits",
		Summary:       "Split transaction",
		Description:   "Splits a transaction into child transactions. The split amounts must add up to the parent amount within one cent.",
		Tags:          []string{"Splits"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "delete-splits",
		Method:      http.MethodDelete,
		Path:        "/v1/transaction/{id}/splits",
		Summary:     "Delete splits",
		Description: "Removes every split of a transaction. The parent amount is unchanged.",
		Tags:        []string{"Splits"},
	}, h.deleteAll)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-split",
		Method:        http.MethodDelete,
		Path:          "/v1/split/{id}",
		Summary:       "Delete split",
		Description:   "Removes a single split.",
		Tags:          []string{"Splits"},
		DefaultStatus: http.StatusNoContent,
	}, h.deleteOne)
}

// parseSplits converts the request lines into split candidates.
func parseSplits(lines []SplitBody) ([]ledger.SplitCandidate, error) {
	candidates := make([]ledger.SplitCandidate, len(lines))
	for i, line := range lines {
		field := fmt.Sprintf("splits[%d].", i)
		date, err := params.OptionalDate(field+"date", line.Date)
		if err != nil {
			return nil, err
		}
		amount, err := params.Amount(field+"amount", line.Amount)
		if err != nil {
			return nil, err
		}
		typ, err := params.TransactionType(field+"type", line.Type)
		if err != nil {
			return nil, err
		}
		categoryID, err := params.OptionalUUID(field+"categoryID", line.CategoryID)
		if err != nil {
			return nil, err
		}
		candidates[i] = ledger.SplitCandidate{
			Date:        date,
			Description: line.Description,
			Amount:      amount,
			Type:        typ,
			CategoryID:  categoryID,
			Reference:   line.Reference,
		}
	}
	return candidates, nil
}

func (h *Handler) create(ctx context.Context, input *CreateSplitsInput) (*CreateSplitsOutput, error) {
	parentID, err := params.UUID("id", input.ID)
	if err != nil {
		return nil, err
	}
	candidates, err := parseSplits(input.Body.Splits)
	if err != nil {
		return nil, err
	}

	ids, err := h.SplitService.CreateSplits(ctx, parentID, candidates)
	if err != nil {
		return nil, apierror.From(err, "failed to create splits")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("parentID", parentID.String())
		logData.AddData("splitCount", len(ids))
	}

	resp := CreateSplitsResponse{IDs: make([]string, len(ids))}
	for i, id := range ids {
		resp.IDs[i] = id.String()
	}
	return &CreateSplitsOutput{Body: resp}, nil
}

func (h *Handler) deleteAll(ctx context.Context, input *DeleteSplitsInput) (*DeleteSplitsOutput, error) {
	parentID, err := params.UUID("id", input.ID)
	if err != nil {
		return nil, err
	}
	deleted, err := h.SplitService.DeleteSplits(ctx, parentID)
	if err != nil {
		return nil, apierror.From(err, "failed to delete splits")
	}
	out := &DeleteSplitsOutput{}
	out.Body.Deleted = deleted
	return out, nil
}

func (h *Handler) deleteOne(ctx context.Context, input *DeleteSplitInput) (*struct{}, error) {
	childID, err := params.UUID("id", input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.SplitService.DeleteSplit(ctx, childID); err != nil {
		return nil, apierror.From(err, "failed to delete split")
	}
	return nil, nil
}
