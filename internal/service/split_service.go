package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// SplitService splits transactions into categorized children.
type SplitService struct {
	*base
}

// CreateSplits materializes candidates under parentID and returns the child
// ids in input order. Uncategorized children are then offered to the pattern
// assigner; that step never undoes the split.
func (s *SplitService) CreateSplits(ctx context.Context, parentID uuid.UUID, candidates []ledger.SplitCandidate) ([]uuid.UUID, error) {
	action := &actions.CreateSplits{
		ParentID:   parentID,
		Candidates: candidates,
		Tolerance:  s.opts.SplitTolerance,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}

	childIDs := action.ChildIDs()
	uncategorized := make([]uuid.UUID, 0, len(action.Children))
	for _, c := range action.Children {
		if !c.IsCategorized() {
			uncategorized = append(uncategorized, c.ID)
		}
	}
	s.autoCategorize(ctx, uncategorized)

	s.publish(ctx, events.New(events.KindSplitsCreated, parentID, map[string]any{
		"children": idStrings(childIDs),
	}))
	return childIDs, nil
}

// DeleteSplits removes every child of parentID and returns how many were
// removed.
func (s *SplitService) DeleteSplits(ctx context.Context, parentID uuid.UUID) (int64, error) {
	action := &actions.DeleteSplits{ParentID: parentID}
	if err := s.processor.Process(ctx, action); err != nil {
		return 0, err
	}
	if action.Deleted > 0 {
		s.publish(ctx, events.New(events.KindSplitsDeleted, parentID, map[string]any{
			"deleted": action.Deleted,
		}))
	}
	return action.Deleted, nil
}

// DeleteSplit removes a single child.
func (s *SplitService) DeleteSplit(ctx context.Context, childID uuid.UUID) error {
	action := &actions.DeleteSplit{ChildID: childID}
	if err := s.processor.Process(ctx, action); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.KindSplitsDeleted, action.ParentID, map[string]any{
		"children": []string{childID.String()},
	}))
	return nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
