package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// BudgetService maintains budgets and their versions.
type BudgetService struct {
	*base
}

// CreateBudget creates a budget with its first version.
func (s *BudgetService) CreateBudget(ctx context.Context, name string, initial ledger.BudgetVersion) (ledger.Budget, ledger.BudgetVersion, error) {
	action := &actions.CreateBudget{Name: name, Initial: initial}
	if err := s.processor.Process(ctx, action); err != nil {
		return ledger.Budget{}, ledger.BudgetVersion{}, err
	}
	s.publishSaved(ctx, action.Version, nil)
	return action.Budget, action.Version, nil
}

// SaveVersion creates version, or updates it when version.ID is set.
// The returned slice holds predecessors that were closed to make room.
func (s *BudgetService) SaveVersion(ctx context.Context, version ledger.BudgetVersion) (ledger.BudgetVersion, []ledger.BudgetVersion, error) {
	action := &actions.SaveBudgetVersion{Version: version}
	if err := s.processor.Process(ctx, action); err != nil {
		return ledger.BudgetVersion{}, nil, err
	}
	s.publishSaved(ctx, action.Saved, action.Closed)
	return action.Saved, action.Closed, nil
}

func (s *BudgetService) publishSaved(ctx context.Context, saved ledger.BudgetVersion, closed []ledger.BudgetVersion) {
	closedIDs := make([]string, len(closed))
	for i, v := range closed {
		closedIDs[i] = v.ID.String()
	}
	data := map[string]any{
		"versionID":     saved.ID.String(),
		"monthlyAmount": saved.MonthlyAmount,
		"from":          saved.From.String(),
		"closed":        closedIDs,
	}
	if saved.Until != nil {
		data["until"] = saved.Until.String()
	}
	s.publish(ctx, events.New(events.KindBudgetVersionSaved, saved.BudgetID, data))
}

// DeleteVersion removes a version unless it is the budget's last one.
func (s *BudgetService) DeleteVersion(ctx context.Context, versionID uuid.UUID) error {
	action := &actions.DeleteBudgetVersion{VersionID: versionID}
	if err := s.processor.Process(ctx, action); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.KindBudgetVersionDeleted, action.BudgetID, map[string]any{
		"versionID": versionID.String(),
	}))
	return nil
}

// ListVersions returns the versions of budgetID in chronological order.
func (s *BudgetService) ListVersions(ctx context.Context, budgetID uuid.UUID) ([]ledger.BudgetVersion, error) {
	reader := s.storage.Read()
	if _, err := reader.Budgets.FindByID(ctx, budgetID); err != nil {
		return nil, err
	}
	return reader.BudgetVersions.ListByBudget(ctx, budgetID)
}

// EffectiveVersion returns the version of budgetID covering month, or nil
// when no version does.
func (s *BudgetService) EffectiveVersion(ctx context.Context, budgetID uuid.UUID, month ledger.Month) (*ledger.BudgetVersion, error) {
	versions, err := s.ListVersions(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	v, ok := ledger.EffectiveVersion(versions, month)
	if !ok {
		return nil, nil
	}
	return &v, nil
}
