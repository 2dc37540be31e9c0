package actions

import (
	"context"
	"regexp"
	"strings"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// CreateCategoryRule stores a pattern rule for the category assigner.
type CreateCategoryRule struct {
	Rule ledger.CategoryRule

	IAction
}

func (c *CreateCategoryRule) Perform(ctx context.Context, writer *storage.Writer) error {
	rule := c.Rule
	rule.Pattern = strings.TrimSpace(rule.Pattern)
	if rule.Pattern == "" {
		return &ledger.ValidationError{Field: "pattern", Message: "must not be empty"}
	}
	if rule.IsRegex {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return &ledger.ValidationError{Field: "pattern", Message: err.Error()}
		}
	}
	if rule.Type != nil && !rule.Type.Valid() {
		return &ledger.ValidationError{Field: "type", Message: "unknown type " + string(*rule.Type)}
	}
	rule.ID = newID()
	if err := writer.Rule.Insert(ctx, rule); err != nil {
		return err
	}
	c.Rule = rule
	return nil
}
