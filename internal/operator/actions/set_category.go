package actions

import (
	"bytes"
	"context"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

// SetCategory sets, or with a nil CategoryID clears, a transaction's category.
type SetCategory struct {
	TransactionID uuid.UUID
	CategoryID    *uuid.UUID

	IAction
}

func (s *SetCategory) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Transaction.FindByIDForUpdate(ctx, s.TransactionID); err != nil {
		return err
	}
	return writer.Transaction.SetCategory(ctx, s.TransactionID, s.CategoryID)
}

// AssignCategories applies suggested categories to transactions that are
// still uncategorized when the action runs; others are left alone. Rows are
// locked in ascending id order.
type AssignCategories struct {
	Assignments map[uuid.UUID]uuid.UUID

	Assigned int

	IAction
}

func (a *AssignCategories) Perform(ctx context.Context, writer *storage.Writer) error {
	a.Assigned = 0
	for _, txID := range sortedIDs(a.Assignments) {
		categoryID := a.Assignments[txID]
		current, err := writer.Transaction.FindByIDForUpdate(ctx, txID)
		if err != nil {
			return err
		}
		if current.IsCategorized() {
			continue
		}
		if err := writer.Transaction.SetCategory(ctx, txID, &categoryID); err != nil {
			return err
		}
		a.Assigned++
	}
	return nil
}

func sortedIDs(assignments map[uuid.UUID]uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(assignments))
	for id := range assignments {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}
