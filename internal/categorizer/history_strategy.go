package categorizer

import (
	"context"

	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
)

// DefaultSimilarityTolerance is the relative amount window for "similar" transactions.
const DefaultSimilarityTolerance = 0.05

// HistoryStrategy copies the tag of the most recent manually tagged transaction
// with the same merchant and a similar amount. Split children are not history:
// their amount is a share of a purchase, not a purchase.
type HistoryStrategy struct {
	tolerance decimal.Decimal
	aliases   []models.MerchantAlias
	logger    logging.Logger
}

// NewHistoryStrategy creates a new HistoryStrategy instance.
func NewHistoryStrategy(tolerance float64, aliases []models.MerchantAlias, logger logging.Logger) *HistoryStrategy {
	return &HistoryStrategy{
		tolerance: decimal.NewFromFloat(tolerance),
		aliases:   aliases,
		logger:    logging.OrDiscard(logger),
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *HistoryStrategy) Name() string {
	return StrategyHistory
}

// Suggest returns a medium-confidence suggestion from prior manual decisions.
func (s *HistoryStrategy) Suggest(ctx context.Context, tx models.Transaction, in Input) (Suggestion, bool, error) {
	key := merchant.TransactionKey(tx, s.aliases)
	if key == "" {
		return Suggestion{}, false, nil
	}

	var best *models.Transaction
	for i := range in.History {
		h := &in.History[i]
		if h.ID == tx.ID || h.IsSplit || h.IsChild() || !h.IsManuallyTagged() {
			continue
		}
		if merchant.TransactionKey(*h, s.aliases) != key || !withinTolerance(tx.AbsAmount(), h.AbsAmount(), s.tolerance) {
			continue
		}
		if best == nil || !h.Date.Before(best.Date) {
			best = h
		}
	}
	if best == nil {
		return Suggestion{}, false, nil
	}

	s.logger.Debug("Transaction similar to prior manual tag",
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: "similar_to", Value: best.ID})

	return Suggestion{
		Tag:        best.Tag,
		Category:   best.Category,
		Confidence: models.ConfidenceMedium,
		Reason:     "similar to prior transaction",
		Strategy:   s.Name(),
	}, true, nil
}

// withinTolerance reports |a-b| <= tolerance * max(a, b).
func withinTolerance(a, b, tolerance decimal.Decimal) bool {
	if a.Equal(b) {
		return true
	}
	ref := a
	if b.GreaterThan(ref) {
		ref = b
	}
	return a.Sub(b).Abs().LessThanOrEqual(ref.Mul(tolerance))
}
