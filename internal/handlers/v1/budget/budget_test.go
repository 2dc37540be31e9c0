package budget

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type mockBudgetService struct {
	mock.Mock
}

func (m *mockBudgetService) CreateBudget(ctx context.Context, name string, initial ledger.BudgetVersion) (ledger.Budget, ledger.BudgetVersion, error) {
	args := m.Called(ctx, name, initial)
	return args.Get(0).(ledger.Budget), args.Get(1).(ledger.BudgetVersion), args.Error(2)
}

func (m *mockBudgetService) SaveVersion(ctx context.Context, version ledger.BudgetVersion) (ledger.BudgetVersion, []ledger.BudgetVersion, error) {
	args := m.Called(ctx, version)
	var closed []ledger.BudgetVersion
	if args.Get(1) != nil {
		closed = args.Get(1).([]ledger.BudgetVersion)
	}
	return args.Get(0).(ledger.BudgetVersion), closed, args.Error(2)
}

func (m *mockBudgetService) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	return m.Called(ctx, versionID).Error(0)
}

func (m *mockBudgetService) ListVersions(ctx context.Context, budgetID uuid.UUID) ([]ledger.BudgetVersion, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.BudgetVersion), args.Error(1)
}

func (m *mockBudgetService) EffectiveVersion(ctx context.Context, budgetID uuid.UUID, month ledger.Month) (*ledger.BudgetVersion, error) {
	args := m.Called(ctx, budgetID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BudgetVersion), args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockBudgetService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func monthPtr(m ledger.Month) *ledger.Month {
	return &m
}

// -- parseVersion tests --

func TestParseVersion(t *testing.T) {
	v, err := parseVersion(VersionBody{MonthlyAmount: "450.50", From: "2025-01", Until: "2025-06", ChangeReason: "raise"})
	require.NoError(t, err)
	assert.Equal(t, int64(45050), v.MonthlyAmount)
	assert.Equal(t, ledger.NewMonth(2025, time.January), v.From)
	require.NotNil(t, v.Until)
	assert.Equal(t, ledger.NewMonth(2025, time.June), *v.Until)
	assert.Equal(t, "raise", v.ChangeReason)
}

func TestParseVersion_OpenEnded(t *testing.T) {
	v, err := parseVersion(VersionBody{MonthlyAmount: "100", From: "2025-03"})
	require.NoError(t, err)
	assert.Nil(t, v.Until)
}

func TestParseVersion_BadAmount(t *testing.T) {
	_, err := parseVersion(VersionBody{MonthlyAmount: "lots", From: "2025-03"})
	assert.Error(t, err)
}

// -- HTTP tests --

func TestHTTP_CreateBudget(t *testing.T) {
	budgetID, versionID := newID(), newID()
	from := ledger.NewMonth(2025, time.January)

	mockSvc := new(mockBudgetService)
	mockSvc.On("CreateBudget", mock.Anything, "Groceries", mock.MatchedBy(func(v ledger.BudgetVersion) bool {
		return v.MonthlyAmount == 40000 && v.From == from && v.Until == nil
	})).Return(
		ledger.Budget{ID: budgetID, Name: "Groceries"},
		ledger.BudgetVersion{ID: versionID, BudgetID: budgetID, MonthlyAmount: 40000, From: from},
		nil,
	)

	resp := newTestAPI(t, mockSvc).Post("/v1/budget", map[string]any{
		"name":               "Groceries",
		"monthlyAmount":      "400.00",
		"effectiveFromMonth": "2025-01",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body struct {
		ID      string  `json:"id"`
		Version Version `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, budgetID.String(), body.ID)
	assert.Equal(t, "400.00", body.Version.MonthlyAmount)
	assert.Equal(t, "2025-01", body.Version.From)
	assert.Empty(t, body.Version.Until)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateBudget_InvalidMonth(t *testing.T) {
	mockSvc := new(mockBudgetService)

	resp := newTestAPI(t, mockSvc).Post("/v1/budget", map[string]any{
		"name":               "Groceries",
		"monthlyAmount":      "400.00",
		"effectiveFromMonth": "January",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateBudget")
}

func TestHTTP_CreateVersion_ClosesOpenVersion(t *testing.T) {
	budgetID, oldID, newVersionID := newID(), newID(), newID()
	march := ledger.NewMonth(2025, time.March)

	mockSvc := new(mockBudgetService)
	mockSvc.On("SaveVersion", mock.Anything, mock.MatchedBy(func(v ledger.BudgetVersion) bool {
		return v.ID == uuid.Nil && v.BudgetID == budgetID && v.From == march
	})).Return(
		ledger.BudgetVersion{ID: newVersionID, BudgetID: budgetID, MonthlyAmount: 50000, From: march},
		[]ledger.BudgetVersion{{ID: oldID, BudgetID: budgetID, MonthlyAmount: 40000, From: ledger.NewMonth(2025, time.January), Until: monthPtr(ledger.NewMonth(2025, time.February))}},
		nil,
	)

	resp := newTestAPI(t, mockSvc).Post("/v1/budget/"+budgetID.String()+"/version", map[string]any{
		"monthlyAmount":      "500.00",
		"effectiveFromMonth": "2025-03",
		"changeReason":       "raise",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body SaveVersionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, newVersionID.String(), body.Version.ID)
	require.Len(t, body.Closed, 1)
	assert.Equal(t, oldID.String(), body.Closed[0].ID)
	assert.Equal(t, "2025-02", body.Closed[0].Until)
}

func TestHTTP_UpdateVersion(t *testing.T) {
	budgetID, versionID := newID(), newID()
	from := ledger.NewMonth(2025, time.January)

	mockSvc := new(mockBudgetService)
	mockSvc.On("SaveVersion", mock.Anything, mock.MatchedBy(func(v ledger.BudgetVersion) bool {
		return v.ID == versionID && v.BudgetID == budgetID && v.Until != nil
	})).Return(
		ledger.BudgetVersion{ID: versionID, BudgetID: budgetID, MonthlyAmount: 40000, From: from, Until: monthPtr(ledger.NewMonth(2025, time.June))},
		nil,
		nil,
	)

	resp := newTestAPI(t, mockSvc).Put("/v1/budget/"+budgetID.String()+"/version/"+versionID.String(), map[string]any{
		"monthlyAmount":       "400.00",
		"effectiveFromMonth":  "2025-01",
		"effectiveUntilMonth": "2025-06",
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body SaveVersionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-06", body.Version.Until)
	assert.Empty(t, body.Closed)
}

func TestHTTP_SaveVersion_Errors(t *testing.T) {
	budgetID := newID()
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"overlap", &ledger.OverlapConflictError{ConflictingVersionID: newID(), From: ledger.NewMonth(2025, time.January)}, http.StatusConflict},
		{"negative", &ledger.ValidationError{Field: "monthlyAmount", Message: "must not be negative"}, http.StatusBadRequest},
		{"unknown budget", &ledger.NotFoundError{Entity: "budget", ID: budgetID}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := new(mockBudgetService)
			mockSvc.On("SaveVersion", mock.Anything, mock.Anything).Return(ledger.BudgetVersion{}, nil, tc.err)

			resp := newTestAPI(t, mockSvc).Post("/v1/budget/"+budgetID.String()+"/version", map[string]any{
				"monthlyAmount":      "-1.00",
				"effectiveFromMonth": "2025-01",
			})

			assert.Equal(t, tc.status, resp.Code)
		})
	}
}

func TestHTTP_DeleteVersion(t *testing.T) {
	versionID := newID()
	mockSvc := new(mockBudgetService)
	mockSvc.On("DeleteVersion", mock.Anything, versionID).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/budget/version/" + versionID.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteVersion_LastVersion(t *testing.T) {
	versionID := newID()
	mockSvc := new(mockBudgetService)
	mockSvc.On("DeleteVersion", mock.Anything, versionID).Return(&ledger.LastVersionProtectedError{BudgetID: newID(), VersionID: versionID})

	resp := newTestAPI(t, mockSvc).Delete("/v1/budget/version/" + versionID.String())

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_ListVersions(t *testing.T) {
	budgetID := newID()
	mockSvc := new(mockBudgetService)
	mockSvc.On("ListVersions", mock.Anything, budgetID).Return([]ledger.BudgetVersion{
		{ID: newID(), BudgetID: budgetID, MonthlyAmount: 40000, From: ledger.NewMonth(2025, time.January), Until: monthPtr(ledger.NewMonth(2025, time.February))},
		{ID: newID(), BudgetID: budgetID, MonthlyAmount: 50000, From: ledger.NewMonth(2025, time.March)},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/budget/" + budgetID.String() + "/versions")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Versions []Version `json:"versions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Versions, 2)
	assert.Equal(t, "2025-01", body.Versions[0].From)
	assert.Equal(t, "500.00", body.Versions[1].MonthlyAmount)
}

func TestHTTP_EffectiveVersion(t *testing.T) {
	budgetID := newID()
	april := ledger.NewMonth(2025, time.April)
	mockSvc := new(mockBudgetService)
	mockSvc.On("EffectiveVersion", mock.Anything, budgetID, april).Return(&ledger.BudgetVersion{
		ID: newID(), BudgetID: budgetID, MonthlyAmount: 50000, From: ledger.NewMonth(2025, time.March),
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/budget/" + budgetID.String() + "/effective?month=2025-04")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Version
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-03", body.From)
}

func TestHTTP_EffectiveVersion_NoneInEffect(t *testing.T) {
	budgetID := newID()
	mockSvc := new(mockBudgetService)
	mockSvc.On("EffectiveVersion", mock.Anything, budgetID, mock.Anything).Return(nil, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/budget/" + budgetID.String() + "/effective?month=2024-12")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
