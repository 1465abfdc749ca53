package models

import (
	"strings"
	"time"
)

// RuleField names the transaction attribute a condition inspects.
type RuleField string

const (
	FieldMerchant    RuleField = "merchant"
	FieldDescription RuleField = "description"
	FieldAmount      RuleField = "amount"
	FieldCurrency    RuleField = "currency"
)

// RuleOperator is the comparison a condition applies.
type RuleOperator string

const (
	OpContains    RuleOperator = "contains"
	OpEquals      RuleOperator = "equals"
	OpStartsWith  RuleOperator = "starts-with"
	OpGreaterThan RuleOperator = "greater-than"
	OpLessThan    RuleOperator = "less-than"
)

// Condition is one predicate of an advanced rule.
type Condition struct {
	Field    RuleField    `json:"field" yaml:"field"`
	Operator RuleOperator `json:"operator" yaml:"operator"`
	Value    string       `json:"value" yaml:"value"`
}

// IsBlank reports whether the condition carries no value and is therefore ignored.
func (c Condition) IsBlank() bool {
	return strings.TrimSpace(c.Value) == ""
}

// Rule maps a transaction predicate to a tag. Rules are immutable once stored
// and evaluated in insertion order.
type Rule struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Pattern    string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Tag        Tag         `json:"tag" yaml:"tag"`
	CreatedAt  time.Time   `json:"created_at" yaml:"created_at"`
}

// ActiveConditions returns the conditions with a non-blank value.
func (r Rule) ActiveConditions() []Condition {
	active := make([]Condition, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		if !c.IsBlank() {
			active = append(active, c)
		}
	}
	return active
}

// IsAdvanced reports whether the rule is evaluated through its conditions.
func (r Rule) IsAdvanced() bool {
	return len(r.ActiveConditions()) > 0
}

// IsBlank reports whether the rule has neither a pattern nor an active condition.
func (r Rule) IsBlank() bool {
	return strings.TrimSpace(r.Pattern) == "" && !r.IsAdvanced()
}
