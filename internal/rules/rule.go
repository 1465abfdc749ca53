package rules

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// Validate rejects rules that could never be applied: a missing tag, neither
// pattern nor condition, or a condition the matcher cannot evaluate.
func Validate(rule models.Rule) error {
	if rule.Tag == models.TagNone || !rule.Tag.IsValid() {
		return pipelineerror.NewValidationError("rule", rule.ID, pipelineerror.ErrInvalidRule,
			"tag %q is not assignable", rule.Tag)
	}
	if rule.IsBlank() {
		return pipelineerror.NewValidationError("rule", rule.ID, pipelineerror.ErrInvalidRule,
			"rule needs a pattern or at least one condition")
	}
	for _, cond := range rule.ActiveConditions() {
		if _, err := evalCondition(cond, models.Transaction{}); err != nil {
			return pipelineerror.NewValidationError("rule", rule.ID, pipelineerror.ErrInvalidRule,
				"%s %s %q: %s", cond.Field, cond.Operator, cond.Value, err.Reason)
		}
	}
	return nil
}

// New builds and validates a rule with a fresh ID.
func New(name, pattern string, conditions []models.Condition, tag models.Tag) (models.Rule, error) {
	rule := models.Rule{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		Pattern:    strings.TrimSpace(pattern),
		Conditions: conditions,
		Tag:        tag,
		CreatedAt:  time.Now().UTC(),
	}
	if rule.Name == "" {
		rule.Name = rule.Pattern
	}
	if err := Validate(rule); err != nil {
		return models.Rule{}, err
	}
	return rule, nil
}

// ParseCondition reads "field operator value", e.g. "amount greater-than 100".
func ParseCondition(s string) (models.Condition, error) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 3)
	if len(parts) < 3 {
		return models.Condition{}, pipelineerror.NewValidationError("rule", "", pipelineerror.ErrInvalidRule,
			"condition %q must read \"field operator value\"", s)
	}
	return models.Condition{
		Field:    models.RuleField(strings.ToLower(parts[0])),
		Operator: models.RuleOperator(strings.ToLower(parts[1])),
		Value:    strings.TrimSpace(parts[2]),
	}, nil
}
