// Package categorize suggests categories for transactions from stored
// description rules.
package categorize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

type compiledRule struct {
	rule  ledger.CategoryRule
	regex *regexp.Regexp
	lower string
}

func (c compiledRule) matches(tx ledger.Transaction) bool {
	if c.rule.Type != nil && *c.rule.Type != tx.Type {
		return false
	}
	if c.regex != nil {
		return c.regex.MatchString(tx.Description)
	}
	return strings.Contains(strings.ToLower(tx.Description), c.lower)
}

// Matcher holds rules ordered by priority, highest first. Rules of equal
// priority keep their stored order.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles rules. Regex rules match case-insensitively.
func NewMatcher(rules []ledger.CategoryRule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c := compiledRule{rule: r, lower: strings.ToLower(r.Pattern)}
		if r.IsRegex {
			re, err := regexp.Compile("(?i)" + r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.ID, err)
			}
			c.regex = re
		}
		compiled = append(compiled, c)
	}
	slices.SortStableFunc(compiled, func(a, b compiledRule) int {
		return b.rule.Priority - a.rule.Priority
	})
	return &Matcher{rules: compiled}, nil
}

// Suggest returns the category of the first rule matching tx.
// Categorized transactions get no suggestion.
func (m *Matcher) Suggest(tx ledger.Transaction) (uuid.UUID, bool) {
	if tx.IsCategorized() {
		return uuid.Nil, false
	}
	for _, c := range m.rules {
		if c.matches(tx) {
			return c.rule.CategoryID, true
		}
	}
	return uuid.Nil, false
}

// Assignments maps each transaction with a suggestion to its category.
func (m *Matcher) Assignments(txs []ledger.Transaction) map[uuid.UUID]uuid.UUID {
	assignments := make(map[uuid.UUID]uuid.UUID)
	for _, tx := range txs {
		if categoryID, ok := m.Suggest(tx); ok {
			assignments[tx.ID] = categoryID
		}
	}
	return assignments
}
