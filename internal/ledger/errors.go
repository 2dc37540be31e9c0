package ledger

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// ValidationError is a caller-fixable input problem on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// AmountMismatchError rejects a split batch whose absolute sum differs from
// the parent amount by more than the tolerance.
type AmountMismatchError struct {
	ParentAmount int64
	SplitTotal   int64
	Tolerance    int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("split total %d does not match parent amount %d (tolerance %d)",
		e.SplitTotal, abs(e.ParentAmount), e.Tolerance)
}

// AlreadySplitError rejects split creation on a parent that has children.
type AlreadySplitError struct {
	ParentID uuid.UUID
	Children int
}

func (e *AlreadySplitError) Error() string {
	return fmt.Sprintf("transaction %s already has %d splits", e.ParentID, e.Children)
}

// OverlapConflictError names the existing budget version that a proposed
// range would overlap.
type OverlapConflictError struct {
	ConflictingVersionID uuid.UUID
	From                 Month
	Until                *Month
}

func (e *OverlapConflictError) Error() string {
	until := "open"
	if e.Until != nil {
		until = e.Until.String()
	}
	return fmt.Sprintf("overlaps budget version %s [%s, %s]", e.ConflictingVersionID, e.From, until)
}

// LastVersionProtectedError refuses to leave a budget without versions.
type LastVersionProtectedError struct {
	BudgetID  uuid.UUID
	VersionID uuid.UUID
}

func (e *LastVersionProtectedError) Error() string {
	return fmt.Sprintf("budget version %s is the last version of budget %s", e.VersionID, e.BudgetID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
