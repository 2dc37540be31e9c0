package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// SplitCandidate is one proposed child line of a split, usually produced by
// a statement parser.
type SplitCandidate struct {
	Date        time.Time
	Description string
	Amount      int64
	Type        TransactionType
	CategoryID  *uuid.UUID
	Reference   string
}

// DefaultSplitTolerance is the allowed difference, in cents, between the
// absolute split total and the absolute parent amount.
const DefaultSplitTolerance int64 = 1

// ValidateSplits checks a proposed split of parent. existingChildren is the
// number of children the parent has right now.
func ValidateSplits(parent Transaction, existingChildren int, candidates []SplitCandidate, tolerance int64) error {
	if parent.IsSplitChild() {
		return &ValidationError{Field: "parentID", Message: "a split cannot be split again"}
	}
	if existingChildren > 0 {
		return &AlreadySplitError{ParentID: parent.ID, Children: existingChildren}
	}
	if len(candidates) == 0 {
		return &ValidationError{Field: "splits", Message: "at least one split is required"}
	}

	var total int64
	for i, c := range candidates {
		if strings.TrimSpace(c.Description) == "" {
			return &ValidationError{Field: fmt.Sprintf("splits[%d].description", i), Message: "must not be empty"}
		}
		if c.Amount == 0 {
			return &ValidationError{Field: fmt.Sprintf("splits[%d].amount", i), Message: "must not be zero"}
		}
		if c.Type != "" && !c.Type.Valid() {
			return &ValidationError{Field: fmt.Sprintf("splits[%d].type", i), Message: fmt.Sprintf("unknown type %q", c.Type)}
		}
		if !polarityAgrees(parent, c) {
			return &ValidationError{Field: fmt.Sprintf("splits[%d].amount", i), Message: "sign does not agree with type"}
		}
		total += abs(c.Amount)
	}

	if abs(total-abs(parent.Amount)) > tolerance {
		return &AmountMismatchError{ParentAmount: parent.Amount, SplitTotal: total, Tolerance: tolerance}
	}
	return nil
}

// polarityAgrees reports whether c's sign matches its resolved type relative
// to parent: a child of the parent's type carries the parent's sign, a child
// of the other type carries the opposite sign.
func polarityAgrees(parent Transaction, c SplitCandidate) bool {
	typ := c.Type
	if typ == "" {
		typ = parent.Type
	}
	sameType := typ == parent.Type
	sameSign := (c.Amount < 0) == (parent.Amount < 0)
	return sameType == sameSign
}

// BuildSplitChildren turns validated candidates into child transactions of
// parent, in input order. Children inherit the parent's account and balance
// snapshot; a missing date or type is taken from the parent.
func BuildSplitChildren(parent Transaction, candidates []SplitCandidate, newID func() uuid.UUID, nonce func() string) []Transaction {
	children := make([]Transaction, len(candidates))
	for i, c := range candidates {
		if c.Date.IsZero() {
			c.Date = parent.Date
		}
		if c.Type == "" {
			c.Type = parent.Type
		}
		parentID := parent.ID
		children[i] = Transaction{
			ID:           newID(),
			AccountID:    parent.AccountID,
			Date:         Day(c.Date),
			Description:  strings.TrimSpace(c.Description),
			Amount:       c.Amount,
			Type:         c.Type,
			CategoryID:   c.CategoryID,
			ParentID:     &parentID,
			Hash:         SplitHash(parent.ID, c, nonce()),
			BalanceAfter: parent.BalanceAfter,
			Reference:    c.Reference,
		}
	}
	return children
}
