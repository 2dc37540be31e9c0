package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// DeleteSplits removes every child of ParentID. The parent is untouched.
type DeleteSplits struct {
	ParentID uuid.UUID

	Deleted int64

	IAction
}

func (d *DeleteSplits) Perform(ctx context.Context, writer *storage.Writer) error {
	parent, err := writer.Transaction.FindByIDForUpdate(ctx, d.ParentID)
	if err != nil {
		return err
	}
	if parent.IsSplitChild() {
		return &ledger.ValidationError{Field: "parentID", Message: "is a split, not a parent"}
	}
	d.Deleted, err = writer.Transaction.DeleteByParentID(ctx, parent.ID)
	return err
}

// DeleteSplit removes a single child.
type DeleteSplit struct {
	ChildID uuid.UUID

	ParentID uuid.UUID

	IAction
}

func (d *DeleteSplit) Perform(ctx context.Context, writer *storage.Writer) error {
	child, err := writer.Transaction.FindByIDForUpdate(ctx, d.ChildID)
	if err != nil {
		return err
	}
	if !child.IsSplitChild() {
		return &ledger.ValidationError{Field: "childID", Message: "is not a split"}
	}
	if _, err := writer.Transaction.DeleteByID(ctx, child.ID); err != nil {
		return err
	}
	d.ParentID = *child.ParentID
	return nil
}
