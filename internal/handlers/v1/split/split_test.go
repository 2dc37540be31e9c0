package split

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

type mockSplitService struct {
	mock.Mock
}

func (m *mockSplitService) CreateSplits(ctx context.Context, parentID uuid.UUID, candidates []ledger.SplitCandidate) ([]uuid.UUID, error) {
	args := m.Called(ctx, parentID, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockSplitService) DeleteSplits(ctx context.Context, parentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSplitService) DeleteSplit(ctx context.Context, childID uuid.UUID) error {
	return m.Called(ctx, childID).Error(0)
}

func newTestAPI(t *testing.T, svc *mockSplitService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func splitsPath(id uuid.UUID) string {
	return "/v1/transaction/" + id.String() + "/splits"
}

// -- parseSplits tests --

func TestParseSplits(t *testing.T) {
	travel := uuid.Must(uuid.NewV4())
	candidates, err := parseSplits([]SplitBody{
		{Description: "Flight", Amount: "-80.00", CategoryID: travel.String()},
		{Date: "2025-03-08", Description: "Misc", Amount: "-40", Type: "DEBIT", Reference: "PP-1"},
	})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(-8000), candidates[0].Amount)
	assert.Equal(t, &travel, candidates[0].CategoryID)
	assert.True(t, candidates[0].Date.IsZero())
	assert.Equal(t, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), candidates[1].Date)
	assert.Equal(t, ledger.TransactionTypeDebit, candidates[1].Type)
}

// -- HTTP tests --

func TestHTTP_CreateSplits_Success(t *testing.T) {
	parentID := uuid.Must(uuid.NewV4())
	childIDs := []uuid.UUID{uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())}

	mockSvc := new(mockSplitService)
	mockSvc.On("CreateSplits", mock.Anything, parentID, mock.MatchedBy(func(c []ledger.SplitCandidate) bool {
		return len(c) == 2 && c[0].Amount == -8000 && c[1].Amount == -4000
	})).Return(childIDs, nil)

	resp := newTestAPI(t, mockSvc).Post(splitsPath(parentID), map[string]any{
		"splits": []SplitBody{
			{Description: "Flight", Amount: "-80.00"},
			{Description: "Misc", Amount: "-40.00"},
		},
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body CreateSplitsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{childIDs[0].String(), childIDs[1].String()}, body.IDs)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateSplits_Errors(t *testing.T) {
	parentID := uuid.Must(uuid.NewV4())
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"mismatch", &ledger.AmountMismatchError{ParentAmount: -12000, SplitTotal: 12002, Tolerance: 1}, http.StatusUnprocessableEntity},
		{"already split", &ledger.AlreadySplitError{ParentID: parentID, Children: 2}, http.StatusConflict},
		{"child parent", &ledger.ValidationError{Field: "parentID", Message: "a split cannot be split again"}, http.StatusBadRequest},
		{"not found", &ledger.NotFoundError{Entity: "transaction", ID: parentID}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := new(mockSplitService)
			mockSvc.On("CreateSplits", mock.Anything, parentID, mock.Anything).Return(nil, tc.err)

			resp := newTestAPI(t, mockSvc).Post(splitsPath(parentID), map[string]any{
				"splits": []SplitBody{{Description: "x", Amount: "-120.02"}},
			})

			assert.Equal(t, tc.status, resp.Code)
		})
	}
}

func TestHTTP_CreateSplits_EmptyList(t *testing.T) {
	mockSvc := new(mockSplitService)

	resp := newTestAPI(t, mockSvc).Post(splitsPath(uuid.Must(uuid.NewV4())), map[string]any{"splits": []SplitBody{}})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateSplits")
}

func TestHTTP_DeleteSplits(t *testing.T) {
	parentID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockSplitService)
	mockSvc.On("DeleteSplits", mock.Anything, parentID).Return(int64(3), nil)

	resp := newTestAPI(t, mockSvc).Delete(splitsPath(parentID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(3), body.Deleted)
}

func TestHTTP_DeleteSplit(t *testing.T) {
	childID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockSplitService)
	mockSvc.On("DeleteSplit", mock.Anything, childID).Return(nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/split/" + childID.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}
