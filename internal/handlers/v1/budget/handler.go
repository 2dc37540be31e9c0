package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// CreateBudgetInput is the Huma input for creating a budget.
type CreateBudgetInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"200" doc:"Budget name"`
		VersionBody
	}
}

// CreateBudgetOutput is the Huma output for creating a budget.
type CreateBudgetOutput struct {
	Body struct {
		ID      string  `json:"id" doc:"Budget UUID"`
		Name    string  `json:"name"`
		Version Version `json:"version" doc:"First version"`
	}
}

// SaveVersionInput is the Huma input for creating a version.
type SaveVersionInput struct {
	BudgetID string `path:"budgetID" format:"uuid" doc:"Budget UUID"`
	Body     VersionBody
}

// UpdateVersionInput is the Huma input for updating a version.
type UpdateVersionInput struct {
	BudgetID  string `path:"budgetID" format:"uuid" doc:"Budget UUID"`
	VersionID string `path:"versionID" format:"uuid" doc:"Version UUID"`
	Body      VersionBody
}

// SaveVersionResponse is the saved version plus the versions that were
// closed to make room for it.
type SaveVersionResponse struct {
	Version Version   `json:"version"`
	Closed  []Version `json:"closed" doc:"Open-ended versions closed the month before this one starts"`
}

// SaveVersionOutput is the Huma output for saving a version.
type SaveVersionOutput struct {
	Body SaveVersionResponse
}

// DeleteVersionInput is the Huma input for deleting a version.
type DeleteVersionInput struct {
	VersionID string `path:"versionID" format:"uuid" doc:"Version UUID"`
}

// ListVersionsInput is the Huma input for listing versions.
type ListVersionsInput struct {
	BudgetID string `path:"budgetID" format:"uuid" doc:"Budget UUID"`
}

// ListVersionsOutput is the Huma output for listing versions.
type ListVersionsOutput struct {
	Body struct {
		Versions []Version `json:"versions" doc:"Versions, oldest first"`
	}
}

// EffectiveInput is the Huma input for the effective version lookup.
type EffectiveInput struct {
	BudgetID string `path:"budgetID" format:"uuid" doc:"Budget UUID"`
	Month    string `query:"month" required:"true" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"Month, YYYY-MM"`
}

// EffectiveOutput is the Huma output for the effective version lookup.
type EffectiveOutput struct {
	Body Version
}

// budgetService is the interface for budget operations.
type budgetService interface {
	CreateBudget(ctx context.Context, name string, initial ledger.BudgetVersion) (ledger.Budget, ledger.BudgetVersion, error)
	SaveVersion(ctx context.Context, version ledger.BudgetVersion) (ledger.BudgetVersion, []ledger.BudgetVersion, error)
	DeleteVersion(ctx context.Context, versionID uuid.UUID) error
	ListVersions(ctx context.Context, budgetID uuid.UUID) ([]ledger.BudgetVersion, error)
	EffectiveVersion(ctx context.Context, budgetID uuid.UUID, month ledger.Month) (*ledger.BudgetVersion, error)
}

// Handler serves the budget endpoints.
type Handler struct {
	BudgetService budgetService
}

// NewHandler creates a new budget Handler.
func NewHandler(svc budgetService) *Handler {
	return &Handler{BudgetService: svc}
}

// Register registers the budget endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-budget",
		Method:        http.MethodPost,
		Path:          "/v1/budget",
		Summary:       "Create budget",
		Description:   "Creates a budget together with its first version.",
		Tags:          []string{"Budgets"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID:   "create-budget-version",
		Method:        http.MethodPost,
		Path:          "/v1/budget/{budgetID}/version",
		Summary:       "Create budget version",
		Description:   "Adds a version. An open-ended version that started earlier is closed the month before; any other overlap is rejected.",
		Tags:          []string{"Budgets"},
		DefaultStatus: http.StatusCreated,
	}, h.saveNew)
	huma.Register(api, huma.Operation{
		OperationID: "update-budget-version",
		Method:      http.MethodPut,
		Path:        "/v1/budget/{budgetID}/version/{versionID}",
		Summary:     "Update budget version",
		Description: "Changes the range or amount of a version under the same overlap rules as creation.",
		Tags:        []string{"Budgets"},
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID:   "delete-budget-version",
		Method:        http.MethodDelete,
		Path:          "/v1/budget/version/{versionID}",
		Summary:       "Delete budget version",
		Description:   "Deletes a version. The last version of a budget cannot be deleted.",
		Tags:          []string{"Budgets"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
	huma.Register(api, huma.Operation{
		OperationID: "list-budget-versions",
		Method:      http.MethodGet,
		Path:        "/v1/budget/{budgetID}/versions",
		Summary:     "List budget versions",
		Tags:        []string{"Budgets"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "get-effective-budget-version",
		Method:      http.MethodGet,
		Path:        "/v1/budget/{budgetID}/effective",
		Summary:     "Effective budget version",
		Description: "Returns the version in effect for a month.",
		Tags:        []string{"Budgets"},
	}, h.effective)
}

func (h *Handler) create(ctx context.Context, input *CreateBudgetInput) (*CreateBudgetOutput, error) {
	initial, err := parseVersion(input.Body.VersionBody)
	if err != nil {
		return nil, err
	}
	budget, version, err := h.BudgetService.CreateBudget(ctx, input.Body.Name, initial)
	if err != nil {
		return nil, apierror.From(err, "failed to create budget")
	}
	out := &CreateBudgetOutput{}
	out.Body.ID = budget.ID.String()
	out.Body.Name = budget.Name
	out.Body.Version = toVersion(version)
	return out, nil
}

func (h *Handler) save(ctx context.Context, version ledger.BudgetVersion) (*SaveVersionOutput, error) {
	saved, closed, err := h.BudgetService.SaveVersion(ctx, version)
	if err != nil {
		return nil, apierror.From(err, "failed to save budget version")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("versionID", saved.ID.String())
		logData.AddData("closedVersions", len(closed))
	}
	return &SaveVersionOutput{Body: SaveVersionResponse{
		Version: toVersion(saved),
		Closed:  toVersions(closed),
	}}, nil
}

func (h *Handler) saveNew(ctx context.Context, input *SaveVersionInput) (*SaveVersionOutput, error) {
	budgetID, err := params.UUID("budgetID", input.BudgetID)
	if err != nil {
		return nil, err
	}
	version, err := parseVersion(input.Body)
	if err != nil {
		return nil, err
	}
	version.BudgetID = budgetID
	return h.save(ctx, version)
}

func (h *Handler) update(ctx context.Context, input *UpdateVersionInput) (*SaveVersionOutput, error) {
	budgetID, err := params.UUID("budgetID", input.BudgetID)
	if err != nil {
		return nil, err
	}
	versionID, err := params.UUID("versionID", input.VersionID)
	if err != nil {
		return nil, err
	}
	version, err := parseVersion(input.Body)
	if err != nil {
		return nil, err
	}
	version.ID = versionID
	version.BudgetID = budgetID
	return h.save(ctx, version)
}

func (h *Handler) delete(ctx context.Context, input *DeleteVersionInput) (*struct{}, error) {
	versionID, err := params.UUID("versionID", input.VersionID)
	if err != nil {
		return nil, err
	}
	if err := h.BudgetService.DeleteVersion(ctx, versionID); err != nil {
		return nil, apierror.From(err, "failed to delete budget version")
	}
	return nil, nil
}

func (h *Handler) list(ctx context.Context, input *ListVersionsInput) (*ListVersionsOutput, error) {
	budgetID, err := params.UUID("budgetID", input.BudgetID)
	if err != nil {
		return nil, err
	}
	versions, err := h.BudgetService.ListVersions(ctx, budgetID)
	if err != nil {
		return nil, apierror.From(err, "failed to list budget versions")
	}
	out := &ListVersionsOutput{}
	out.Body.Versions = toVersions(versions)
	return out, nil
}

func (h *Handler) effective(ctx context.Context, input *EffectiveInput) (*EffectiveOutput, error) {
	budgetID, err := params.UUID("budgetID", input.BudgetID)
	if err != nil {
		return nil, err
	}
	month, err := params.Month("month", input.Month)
	if err != nil {
		return nil, err
	}
	version, err := h.BudgetService.EffectiveVersion(ctx, budgetID, month)
	if err != nil {
		return nil, apierror.From(err, "failed to resolve budget version")
	}
	if version == nil {
		return nil, huma.NewError(http.StatusNotFound, "no budget version in effect for "+month.String())
	}
	return &EffectiveOutput{Body: toVersion(*version)}, nil
}
