package categorizer

import (
	"context"
	"time"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
)

// AIStrategy asks an AIClient for a suggestion. Its answers are always low confidence.
type AIStrategy struct {
	client  AIClient
	timeout time.Duration
	logger  logging.Logger
}

// NewAIStrategy creates a new AIStrategy instance. A zero timeout means no deadline.
func NewAIStrategy(client AIClient, timeout time.Duration, logger logging.Logger) *AIStrategy {
	return &AIStrategy{client: client, timeout: timeout, logger: logging.OrDiscard(logger)}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return StrategyAI
}

// Suggest calls the AI client. Errors are returned so the chain can record
// them, and the chain continues to "no suggestion".
func (s *AIStrategy) Suggest(ctx context.Context, tx models.Transaction, in Input) (Suggestion, bool, error) {
	if s.client == nil {
		return Suggestion{}, false, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tag, category, err := s.client.SuggestTag(ctx, tx)
	if err != nil {
		s.logger.WithError(err).Warn("AI suggestion failed",
			logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
		return Suggestion{}, false, err
	}
	if tag == models.TagNone || !tag.IsValid() {
		return Suggestion{}, false, nil
	}
	if !category.IsValid() {
		category = models.CategoryNone
	}

	return Suggestion{
		Tag:        tag,
		Category:   category,
		Confidence: models.ConfidenceLow,
		Reason:     "ai suggestion",
		Strategy:   s.Name(),
	}, true, nil
}
