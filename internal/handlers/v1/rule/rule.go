// Package rule serves the category rule endpoints.
package rule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/apierror"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// Rule is the API model of a category rule.
type Rule struct {
	ID         string `json:"id" doc:"Rule UUID"`
	Pattern    string `json:"pattern" doc:"Substring or regular expression matched against the description, case-insensitive"`
	IsRegex    bool   `json:"isRegex"`
	Type       string `json:"type,omitempty" doc:"Only match this transaction type"`
	CategoryID string `json:"categoryID" doc:"Category assigned on match"`
	Priority   int    `json:"priority" doc:"Higher priorities are tried first"`
}

func toRule(r ledger.CategoryRule) Rule {
	out := Rule{
		ID:         r.ID.String(),
		Pattern:    r.Pattern,
		IsRegex:    r.IsRegex,
		CategoryID: r.CategoryID.String(),
		Priority:   r.Priority,
	}
	if r.Type != nil {
		out.Type = string(*r.Type)
	}
	return out
}

// CreateRuleInput is the Huma input for creating a rule.
type CreateRuleInput struct {
	Body struct {
		Pattern    string `json:"pattern" minLength:"1" maxLength:"500"`
		IsRegex    bool   `json:"isRegex,omitempty"`
		Type       string `json:"type,omitempty" enum:"DEBIT,CREDIT"`
		CategoryID string `json:"categoryID" format:"uuid"`
		Priority   int    `json:"priority,omitempty"`
	}
}

// CreateRuleOutput is the Huma output for creating a rule.
type CreateRuleOutput struct {
	Body Rule
}

// ListRulesOutput is the Huma output for listing rules.
type ListRulesOutput struct {
	Body struct {
		Rules []Rule `json:"rules" doc:"Rules in the order they are applied"`
	}
}

// ApplyRulesInput is the Huma input for applying rules.
type ApplyRulesInput struct {
	Body struct {
		TransactionIDs []string `json:"transactionIDs" minItems:"1" doc:"Transactions to categorize; categorized ones are left alone"`
	}
}

// ApplyRulesOutput is the Huma output for applying rules.
type ApplyRulesOutput struct {
	Body struct {
		Assigned int `json:"assigned" doc:"Transactions that received a category"`
	}
}

type ruleService interface {
	CreateRule(ctx context.Context, rule ledger.CategoryRule) (ledger.CategoryRule, error)
	ListRules(ctx context.Context) ([]ledger.CategoryRule, error)
	ApplyRules(ctx context.Context, ids []uuid.UUID) (int, error)
}

// Handler serves the rule endpoints.
type Handler struct {
	RuleService ruleService
}

// NewHandler creates a new rule Handler.
func NewHandler(svc ruleService) *Handler {
	return &Handler{RuleService: svc}
}

// Register registers the rule endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-rule",
		Method:        http.MethodPost,
		Path:          "/v1/rule",
		Summary:       "Create category rule",
		Tags:          []string{"Rules"},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/v1/rule",
		Summary:     "List category rules",
		Tags:        []string{"Rules"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "apply-rules",
		Method:      http.MethodPost,
		Path:        "/v1/rule/apply",
		Summary:     "Apply category rules",
		Description: "Assigns categories to the given uncategorized transactions from the first matching rule.",
		Tags:        []string{"Rules"},
	}, h.apply)
}

func (h *Handler) create(ctx context.Context, input *CreateRuleInput) (*CreateRuleOutput, error) {
	categoryID, err := params.UUID("categoryID", input.Body.CategoryID)
	if err != nil {
		return nil, err
	}
	rule := ledger.CategoryRule{
		Pattern:    input.Body.Pattern,
		IsRegex:    input.Body.IsRegex,
		CategoryID: categoryID,
		Priority:   input.Body.Priority,
	}
	if input.Body.Type != "" {
		t := ledger.TransactionType(input.Body.Type)
		rule.Type = &t
	}

	created, err := h.RuleService.CreateRule(ctx, rule)
	if err != nil {
		return nil, apierror.From(err, "failed to create rule")
	}
	return &CreateRuleOutput{Body: toRule(created)}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListRulesOutput, error) {
	rules, err := h.RuleService.ListRules(ctx)
	if err != nil {
		return nil, apierror.From(err, "failed to list rules")
	}
	out := &ListRulesOutput{}
	out.Body.Rules = make([]Rule, len(rules))
	for i, r := range rules {
		out.Body.Rules[i] = toRule(r)
	}
	return out, nil
}

func (h *Handler) apply(ctx context.Context, input *ApplyRulesInput) (*ApplyRulesOutput, error) {
	ids, err := params.UUIDs("transactionIDs", input.Body.TransactionIDs)
	if err != nil {
		return nil, err
	}
	assigned, err := h.RuleService.ApplyRules(ctx, ids)
	if err != nil {
		return nil, apierror.From(err, "failed to apply rules")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("assigned", assigned)
	}
	out := &ApplyRulesOutput{}
	out.Body.Assigned = assigned
	return out, nil
}
