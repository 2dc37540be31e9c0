package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// RuleService manages category rules.
type RuleService struct {
	*base
}

// CreateRule stores rule and returns it with its id.
func (s *RuleService) CreateRule(ctx context.Context, rule ledger.CategoryRule) (ledger.CategoryRule, error) {
	action := &actions.CreateCategoryRule{Rule: rule}
	if err := s.processor.Process(ctx, action); err != nil {
		return ledger.CategoryRule{}, err
	}
	return action.Rule, nil
}

// ListRules returns the rules in the order they are applied.
func (s *RuleService) ListRules(ctx context.Context) ([]ledger.CategoryRule, error) {
	return s.storage.Read().Rules.List(ctx)
}

// ApplyRules runs the rules over ids and returns how many transactions got
// a category.
func (s *RuleService) ApplyRules(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.assigner.Assign(ctx, ids)
}
