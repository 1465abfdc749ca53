package categorizer

import (
	"context"

	"fjacquet/spendtag/internal/models"
)

// Input is the context a strategy may consult besides the transaction itself.
type Input struct {
	Rules   []models.Rule
	History []models.Transaction
}

// SuggestionStrategy is one way of proposing a tag for a transaction.
// Strategies are tried in priority order and the first one that answers wins.
type SuggestionStrategy interface {
	// Suggest returns a suggestion and true when the strategy has an answer.
	// An error means the strategy could not run; the chain moves on.
	Suggest(ctx context.Context, tx models.Transaction, in Input) (Suggestion, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// Strategy names, also recorded on each Suggestion.
const (
	StrategyRule    = "Rule"
	StrategyHistory = "History"
	StrategyKeyword = "Keyword"
	StrategyAI      = "AI"
)
