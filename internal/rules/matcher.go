// Package rules evaluates user-defined tagging rules against transactions.
//
// A rule is either simple (a Pattern searched in "merchant description") or
// advanced (a list of conditions that must all hold). Rules are evaluated in
// list order and the first match wins.
package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// UnsupportedConditionError reports a condition the matcher cannot evaluate.
// The rule carrying it never matches.
type UnsupportedConditionError struct {
	RuleID    string
	Condition models.Condition
	Reason    string
}

func (e *UnsupportedConditionError) Error() string {
	return fmt.Sprintf("rule %s: %s %s %q: %s",
		e.RuleID, e.Condition.Field, e.Condition.Operator, e.Condition.Value, e.Reason)
}

func (e *UnsupportedConditionError) Unwrap() error {
	return pipelineerror.ErrUnsupportedCondition
}

// Evaluate reports whether rule matches tx. A blank rule never matches.
// An error is returned only for conditions that cannot be evaluated.
func Evaluate(rule models.Rule, tx models.Transaction) (bool, error) {
	active := rule.ActiveConditions()
	if len(active) == 0 {
		pattern := strings.TrimSpace(rule.Pattern)
		if pattern == "" {
			return false, nil
		}
		haystack := strings.ToLower(tx.Merchant + " " + tx.Description)
		return strings.Contains(haystack, strings.ToLower(pattern)), nil
	}

	for _, cond := range active {
		ok, err := evalCondition(cond, tx)
		if err != nil {
			err.RuleID = rule.ID
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Matches is Evaluate without the error; unsupported rules simply do not match.
func Matches(rule models.Rule, tx models.Transaction) bool {
	ok, _ := Evaluate(rule, tx)
	return ok
}

// ResolveTag returns the tag a matching rule assigns.
func ResolveTag(rule models.Rule) models.Tag {
	return rule.Tag
}

// Find returns the first rule matching tx together with the rules skipped
// along the way because they carry unsupported conditions.
func Find(rules []models.Rule, tx models.Transaction) (models.Rule, bool, []*UnsupportedConditionError) {
	var skipped []*UnsupportedConditionError
	for _, rule := range rules {
		ok, err := Evaluate(rule, tx)
		if err != nil {
			if uc, isUC := err.(*UnsupportedConditionError); isUC {
				skipped = append(skipped, uc)
			}
			continue
		}
		if ok {
			return rule, true, skipped
		}
	}
	return models.Rule{}, false, skipped
}

// FirstMatch returns the first rule in list order that matches tx.
// Rules with unsupported conditions are logged and skipped.
func FirstMatch(rules []models.Rule, tx models.Transaction, logger logging.Logger) (models.Rule, bool) {
	rule, ok, skipped := Find(rules, tx)
	if len(skipped) > 0 {
		logger = logging.OrDiscard(logger)
		for _, uc := range skipped {
			logger.WithError(uc).Warn("Skipping rule with unsupported condition",
				logging.Field{Key: logging.FieldRuleID, Value: uc.RuleID},
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
		}
	}
	return rule, ok
}

func evalCondition(cond models.Condition, tx models.Transaction) (bool, *UnsupportedConditionError) {
	value := strings.TrimSpace(cond.Value)

	if cond.Field == models.FieldAmount {
		want, err := decimal.NewFromString(value)
		if err != nil {
			return false, &UnsupportedConditionError{Condition: cond, Reason: "amount value is not numeric"}
		}
		got := tx.AbsAmount()
		switch cond.Operator {
		case models.OpEquals:
			return got.Equal(want.Abs()), nil
		case models.OpGreaterThan:
			return got.GreaterThan(want), nil
		case models.OpLessThan:
			return got.LessThan(want), nil
		}
		return false, &UnsupportedConditionError{Condition: cond, Reason: "operator not supported on amount"}
	}

	var text string
	switch cond.Field {
	case models.FieldMerchant:
		text = tx.Merchant
	case models.FieldDescription:
		text = tx.Description
	case models.FieldCurrency:
		text = tx.Currency
	default:
		return false, &UnsupportedConditionError{Condition: cond, Reason: "unknown field"}
	}

	text = strings.ToLower(strings.TrimSpace(text))
	value = strings.ToLower(value)
	switch cond.Operator {
	case models.OpContains:
		return strings.Contains(text, value), nil
	case models.OpEquals:
		return text == value, nil
	case models.OpStartsWith:
		return strings.HasPrefix(text, value), nil
	}
	return false, &UnsupportedConditionError{Condition: cond, Reason: "operator not supported on text field"}
}
