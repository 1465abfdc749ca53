package categorizer

import (
	"context"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/rules"
)

// RuleStrategy suggests the tag of the first user rule matching the transaction.
type RuleStrategy struct {
	logger logging.Logger
}

// NewRuleStrategy creates a new RuleStrategy instance.
func NewRuleStrategy(logger logging.Logger) *RuleStrategy {
	return &RuleStrategy{logger: logging.OrDiscard(logger)}
}

// Name returns the name of this strategy for logging and debugging.
func (s *RuleStrategy) Name() string {
	return StrategyRule
}

// Suggest returns a high-confidence suggestion when a rule matches.
func (s *RuleStrategy) Suggest(ctx context.Context, tx models.Transaction, in Input) (Suggestion, bool, error) {
	rule, ok := rules.FirstMatch(in.Rules, tx, s.logger)
	if !ok {
		return Suggestion{}, false, nil
	}

	s.logger.Debug("Transaction matched rule",
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldRuleID, Value: rule.ID})

	return Suggestion{
		Tag:        rules.ResolveTag(rule),
		Confidence: models.ConfidenceHigh,
		Reason:     "rule match",
		Strategy:   s.Name(),
	}, true, nil
}
