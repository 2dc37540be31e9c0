package categorize

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// Processor runs an action in its own unit of work.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// PatternAssigner applies the stored category rules to transactions.
type PatternAssigner struct {
	storage   storage.Backend
	processor Processor
	logger    *logrus.Logger
}

func NewPatternAssigner(s storage.Backend, p Processor, logger *logrus.Logger) *PatternAssigner {
	return &PatternAssigner{storage: s, processor: p, logger: logger}
}

// Assign suggests a category for each of ids that is still uncategorized and
// writes the suggestions. It returns how many were assigned.
func (a *PatternAssigner) Assign(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	reader := a.storage.Read()
	rules, err := reader.Rules.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(rules) == 0 {
		return 0, nil
	}
	matcher, err := NewMatcher(rules)
	if err != nil {
		return 0, err
	}

	txs, err := reader.Transactions.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	assignments := matcher.Assignments(txs)
	if len(assignments) == 0 {
		return 0, nil
	}

	action := &actions.AssignCategories{Assignments: assignments}
	if err := a.processor.Process(ctx, action); err != nil {
		return 0, err
	}
	a.logger.WithFields(logrus.Fields{
		"requested": len(ids),
		"assigned":  action.Assigned,
	}).Debug("PatternAssigner.Assign.complete")
	return action.Assigned, nil
}
