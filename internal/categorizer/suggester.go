// Package categorizer proposes tags for transactions through an ordered chain
// of strategies: user rules, prior manual decisions, keyword heuristics and an
// optional AI client. It also implements the bulk-review helpers built on top
// of suggestions.
package categorizer

import (
	"context"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
)

// Options configures a Suggester.
type Options struct {
	SimilarityTolerance float64
	Aliases             []models.MerchantAlias
	KeywordSets         []models.KeywordSet
	AIClient            AIClient // optional
	AITimeoutSeconds    int
}

// Suggester runs the strategy chain.
type Suggester struct {
	strategies []SuggestionStrategy
	tolerance  float64
	aliases    []models.MerchantAlias
	logger     logging.Logger
}

// NewSuggester builds the default chain: Rule, History, Keyword, then AI when a client is set.
func NewSuggester(opts Options, logger logging.Logger) *Suggester {
	logger = logging.OrDiscard(logger)
	if opts.SimilarityTolerance <= 0 {
		opts.SimilarityTolerance = DefaultSimilarityTolerance
	}

	strategies := []SuggestionStrategy{
		NewRuleStrategy(logger),
		NewHistoryStrategy(opts.SimilarityTolerance, opts.Aliases, logger),
		NewKeywordStrategy(opts.KeywordSets, logger),
	}
	if opts.AIClient != nil {
		strategies = append(strategies, NewAIStrategy(opts.AIClient, secondsToDuration(opts.AITimeoutSeconds), logger))
	}
	return NewSuggesterWithStrategies(strategies, opts.SimilarityTolerance, opts.Aliases, logger)
}

// NewSuggesterWithStrategies builds a suggester from an explicit chain.
func NewSuggesterWithStrategies(strategies []SuggestionStrategy, tolerance float64, aliases []models.MerchantAlias, logger logging.Logger) *Suggester {
	return &Suggester{
		strategies: strategies,
		tolerance:  tolerance,
		aliases:    aliases,
		logger:     logging.OrDiscard(logger),
	}
}

// Strategies returns the strategy names in evaluation order.
func (s *Suggester) Strategies() []string {
	names := make([]string, len(s.strategies))
	for i, st := range s.strategies {
		names[i] = st.Name()
	}
	return names
}

// Suggest returns the first strategy answer for tx, or false when none applies.
func (s *Suggester) Suggest(ctx context.Context, tx models.Transaction, rules []models.Rule, history []models.Transaction) (Suggestion, bool) {
	sug, ok, _ := s.SuggestWithTrace(ctx, tx, rules, history)
	return sug, ok
}

// SuggestWithTrace is Suggest plus the record of each strategy attempt.
func (s *Suggester) SuggestWithTrace(ctx context.Context, tx models.Transaction, rules []models.Rule, history []models.Transaction) (Suggestion, bool, StrategyResults) {
	var trace StrategyResults
	in := Input{Rules: rules, History: history}

	for _, strategy := range s.strategies {
		if err := ctx.Err(); err != nil {
			trace.Results = append(trace.Results, StrategyResult{Strategy: strategy.Name(), Error: err})
			break
		}
		sug, ok, err := strategy.Suggest(ctx, tx, in)
		trace.Results = append(trace.Results, StrategyResult{Strategy: strategy.Name(), Found: ok && err == nil, Error: err})
		if err != nil || !ok {
			continue
		}
		sug.Strategy = strategy.Name()
		return sug, true, trace
	}
	return Suggestion{}, false, trace
}

// Applied records one suggestion written by ApplySuggestions.
type Applied struct {
	TransactionID string     `json:"transaction_id" yaml:"transaction_id"`
	Suggestion    Suggestion `json:"suggestion" yaml:"suggestion"`
}

// ApplySuggestions suggests tags for every transaction that accepts one
// (unset or still auto-tagged, not a split parent) and returns the updated
// copy. Manually confirmed tags are never touched. An earlier suggestion that
// no strategy backs any more is cleared. The full snapshot serves as history.
func (s *Suggester) ApplySuggestions(ctx context.Context, txs []models.Transaction, rules []models.Rule) ([]models.Transaction, []Applied, error) {
	out := models.CloneAll(txs)
	var applied []Applied
	cleared := 0

	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		tx := &out[i]
		if !tx.AcceptsSuggestion() {
			continue
		}
		sug, ok := s.Suggest(ctx, *tx, rules, txs)
		if !ok {
			if tx.AutoTagged {
				tx.ClearSuggestion()
				cleared++
				s.logger.Debug("Stale suggestion cleared",
					logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
			}
			continue
		}
		if err := sug.Apply(tx); err != nil {
			s.logger.WithError(err).Warn("Could not apply suggestion",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
			continue
		}
		applied = append(applied, Applied{TransactionID: tx.ID, Suggestion: sug})
	}

	s.logger.Info("Suggestions applied",
		logging.Field{Key: logging.FieldCount, Value: len(applied)},
		logging.Field{Key: "cleared", Value: cleared})
	return out, applied, nil
}

// MerchantKey exposes the key the suggester groups merchants by.
func (s *Suggester) MerchantKey(tx models.Transaction) string {
	return merchant.TransactionKey(tx, s.aliases)
}
