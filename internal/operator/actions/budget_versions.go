package actions

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// CreateBudget creates a budget together with its first version, so a
// budget never exists without one.
type CreateBudget struct {
	Name    string
	Initial ledger.BudgetVersion

	Budget  ledger.Budget
	Version ledger.BudgetVersion

	IAction
}

func (c *CreateBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ledger.ValidationError{Field: "name", Message: "must not be empty"}
	}
	budget := ledger.Budget{ID: newID(), Name: strings.TrimSpace(c.Name)}
	version := c.Initial
	version.ID = newID()
	version.BudgetID = budget.ID
	if err := ledger.ValidateVersion(version); err != nil {
		return err
	}

	if err := writer.Budget.Insert(ctx, budget); err != nil {
		return err
	}
	if err := writer.BudgetVersion.Insert(ctx, version); err != nil {
		return err
	}
	c.Budget = budget
	c.Version = version
	return nil
}

// SaveBudgetVersion creates Version, or updates it when Version.ID is set.
// Open-ended predecessors are closed in the same transaction; any other
// overlap aborts without writing.
type SaveBudgetVersion struct {
	Version ledger.BudgetVersion

	Saved  ledger.BudgetVersion
	Closed []ledger.BudgetVersion

	IAction
}

func (s *SaveBudgetVersion) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Budget.FindByIDForUpdate(ctx, s.Version.BudgetID); err != nil {
		return err
	}
	versions, err := writer.BudgetVersion.ListByBudget(ctx, s.Version.BudgetID)
	if err != nil {
		return err
	}

	proposed := s.Version
	updating := proposed.ID != uuid.Nil
	if updating && !containsVersion(versions, proposed.ID) {
		return &ledger.NotFoundError{Entity: "budget version", ID: proposed.ID}
	}
	if !updating {
		proposed.ID = newID()
	}

	closed, err := ledger.ResolveVersion(versions, proposed)
	if err != nil {
		return err
	}

	for _, v := range closed {
		if err := writer.BudgetVersion.Update(ctx, v); err != nil {
			return err
		}
	}
	if updating {
		err = writer.BudgetVersion.Update(ctx, proposed)
	} else {
		err = writer.BudgetVersion.Insert(ctx, proposed)
	}
	if err != nil {
		return err
	}

	s.Saved = proposed
	s.Closed = closed
	return nil
}

func containsVersion(versions []ledger.BudgetVersion, id uuid.UUID) bool {
	for _, v := range versions {
		if v.ID == id {
			return true
		}
	}
	return false
}

// DeleteBudgetVersion removes a version unless it is the budget's last one.
type DeleteBudgetVersion struct {
	VersionID uuid.UUID

	BudgetID uuid.UUID

	IAction
}

func (d *DeleteBudgetVersion) Perform(ctx context.Context, writer *storage.Writer) error {
	version, err := writer.BudgetVersion.FindByID(ctx, d.VersionID)
	if err != nil {
		return err
	}
	if _, err := writer.Budget.FindByIDForUpdate(ctx, version.BudgetID); err != nil {
		return err
	}
	versions, err := writer.BudgetVersion.ListByBudget(ctx, version.BudgetID)
	if err != nil {
		return err
	}
	if err := ledger.CheckVersionDeletable(versions, d.VersionID); err != nil {
		return err
	}
	if err := writer.BudgetVersion.Delete(ctx, d.VersionID); err != nil {
		return err
	}
	d.BudgetID = version.BudgetID
	return nil
}
