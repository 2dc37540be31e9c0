package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// CreateSplits materializes candidates as children of ParentID. The parent
// row stays locked until commit, so two concurrent splits of one parent
// cannot both pass the no-children check.
type CreateSplits struct {
	ParentID   uuid.UUID
	Candidates []ledger.SplitCandidate
	Tolerance  int64

	Parent   ledger.Transaction
	Children []ledger.Transaction

	IAction
}

// ChildIDs returns the ids of the created children in input order.
func (s *CreateSplits) ChildIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.Children))
	for i, c := range s.Children {
		ids[i] = c.ID
	}
	return ids
}

func (s *CreateSplits) Perform(ctx context.Context, writer *storage.Writer) error {
	parent, err := writer.Transaction.FindByIDForUpdate(ctx, s.ParentID)
	if err != nil {
		return err
	}
	existing, err := writer.Transaction.ListChildren(ctx, parent.ID)
	if err != nil {
		return err
	}
	if err := ledger.ValidateSplits(parent, len(existing), s.Candidates, s.Tolerance); err != nil {
		return err
	}

	children := ledger.BuildSplitChildren(parent, s.Candidates, newID, newNonce)
	for _, child := range children {
		if err := writer.Transaction.Insert(ctx, child); err != nil {
			return err
		}
	}
	s.Parent = parent
	s.Children = children
	return nil
}
