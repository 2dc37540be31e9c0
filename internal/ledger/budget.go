package ledger

import (
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
)

// BudgetVersion is a budget's monthly amount over [From, Until]. A nil
// Until means the version is open-ended.
type BudgetVersion struct {
	ID            uuid.UUID
	BudgetID      uuid.UUID
	MonthlyAmount int64
	From          Month
	Until         *Month
	ChangeReason  string
	CreatedAt     time.Time
}

// IsOpenEnded reports whether the version has no end month.
func (v BudgetVersion) IsOpenEnded() bool {
	return v.Until == nil
}

// Covers reports whether m falls inside the version's range.
func (v BudgetVersion) Covers(m Month) bool {
	if m.Before(v.From) {
		return false
	}
	return v.Until == nil || !m.After(*v.Until)
}

// Overlaps reports whether the two month ranges share a month.
// A nil until extends to infinity.
func Overlaps(aFrom Month, aUntil *Month, bFrom Month, bUntil *Month) bool {
	if aUntil != nil && aUntil.Before(bFrom) {
		return false
	}
	if bUntil != nil && bUntil.Before(aFrom) {
		return false
	}
	return true
}

// ValidateVersion checks a proposed version on its own.
func ValidateVersion(v BudgetVersion) error {
	return validateVersion(v, false)
}

// validateVersion also accepts a single-month range when singleMonth is set.
// Auto-closing produces such ranges and they stay editable.
func validateVersion(v BudgetVersion, singleMonth bool) error {
	if v.From.IsZero() {
		return &ValidationError{Field: "effectiveFromMonth", Message: "is required"}
	}
	if v.Until != nil {
		c := v.From.Compare(*v.Until)
		if c > 0 || (c == 0 && !singleMonth) {
			return &ValidationError{Field: "effectiveUntilMonth", Message: "must be after effectiveFromMonth"}
		}
	}
	if v.MonthlyAmount < 0 {
		return &ValidationError{Field: "monthlyAmount", Message: "must not be negative"}
	}
	return nil
}

// ResolveVersion decides how proposed fits among the budget's existing
// versions. The version with proposed.ID, if present, is the one being
// updated and is ignored. An open-ended version that starts before proposed
// is closed the month before proposed starts; the closed copies are returned
// and must be persisted with proposed. Any other overlap is a conflict and
// nothing may be written.
func ResolveVersion(existing []BudgetVersion, proposed BudgetVersion) ([]BudgetVersion, error) {
	if err := validateVersion(proposed, keepsRange(existing, proposed)); err != nil {
		return nil, err
	}

	ordered := slices.Clone(existing)
	slices.SortStableFunc(ordered, func(a, b BudgetVersion) int {
		return a.From.Compare(b.From)
	})

	var closed []BudgetVersion
	for _, v := range ordered {
		if v.ID == proposed.ID {
			continue
		}
		if v.IsOpenEnded() && proposed.From.After(v.From) {
			until := proposed.From.Prev()
			v.Until = &until
			closed = append(closed, v)
			continue
		}
		if Overlaps(proposed.From, proposed.Until, v.From, v.Until) {
			return nil, &OverlapConflictError{ConflictingVersionID: v.ID, From: v.From, Until: v.Until}
		}
	}
	return closed, nil
}

// keepsRange reports whether proposed updates a stored version without
// moving its bounds.
func keepsRange(existing []BudgetVersion, proposed BudgetVersion) bool {
	for _, v := range existing {
		if v.ID != proposed.ID {
			continue
		}
		if v.From != proposed.From {
			return false
		}
		if v.Until == nil || proposed.Until == nil {
			return v.Until == nil && proposed.Until == nil
		}
		return *v.Until == *proposed.Until
	}
	return false
}

// CheckVersionDeletable refuses to delete the only version of a budget.
func CheckVersionDeletable(versions []BudgetVersion, versionID uuid.UUID) error {
	var target *BudgetVersion
	for i := range versions {
		if versions[i].ID == versionID {
			target = &versions[i]
			break
		}
	}
	if target == nil {
		return &NotFoundError{Entity: "budget version", ID: versionID}
	}
	if len(versions) <= 1 {
		return &LastVersionProtectedError{BudgetID: target.BudgetID, VersionID: versionID}
	}
	return nil
}

// EffectiveVersion returns the version covering m, if any.
func EffectiveVersion(versions []BudgetVersion, m Month) (BudgetVersion, bool) {
	for _, v := range versions {
		if v.Covers(m) {
			return v, true
		}
	}
	return BudgetVersion{}, false
}
