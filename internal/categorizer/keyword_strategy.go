package categorizer

import (
	"context"
	"strings"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
)

// DefaultKeywordSets are the built-in heuristics. Food delivery comes before
// ride-hailing because delivery brands often reuse the ride-hailing name.
var DefaultKeywordSets = []models.KeywordSet{
	{
		Name:     "food delivery",
		Keywords: []string{"TALABAT", "DELIVEROO", "ZOMATO", "UBER EATS", "CAREEM FOOD", "NOON FOOD", "INSTASHOP"},
		Tag:      models.TagPersonal,
		Category: models.CategoryDining,
	},
	{
		Name:     "travel",
		Keywords: []string{"HOTEL", "AIRBNB", "BOOKING.COM", "EXPEDIA", "MARRIOTT", "HILTON", "EMIRATES AIRLINE", "FLYDUBAI", "ETIHAD", "AIRLINE", "AIRWAYS"},
		Tag:      models.TagReimbursable,
		Category: models.CategoryTravel,
	},
	{
		Name:     "ride-hailing",
		Keywords: []string{"CAREEM", "UBER", "LYFT", "BOLT", "TAXI", "HALA"},
		Tag:      models.TagPersonal,
		Category: models.CategoryTransport,
	},
}

// KeywordStrategy implements tagging by keyword matching on merchant and description.
// Configured sets are tried before the built-in ones.
type KeywordStrategy struct {
	sets   []models.KeywordSet
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy from configured sets plus the defaults.
func NewKeywordStrategy(configured []models.KeywordSet, logger logging.Logger) *KeywordStrategy {
	sets := make([]models.KeywordSet, 0, len(configured)+len(DefaultKeywordSets))
	for _, set := range configured {
		if set.Tag == models.TagNone || !set.Tag.IsValid() || !set.Category.IsValid() {
			logging.OrDiscard(logger).Warn("Ignoring keyword set with invalid tag or category",
				logging.Field{Key: "set", Value: set.Name})
			continue
		}
		sets = append(sets, set)
	}
	sets = append(sets, DefaultKeywordSets...)
	return &KeywordStrategy{sets: sets, logger: logging.OrDiscard(logger)}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return StrategyKeyword
}

// Suggest returns a low-confidence suggestion for the first keyword found.
func (s *KeywordStrategy) Suggest(ctx context.Context, tx models.Transaction, in Input) (Suggestion, bool, error) {
	text := strings.ToUpper(tx.Merchant + " " + tx.Description)
	if strings.TrimSpace(text) == "" {
		return Suggestion{}, false, nil
	}

	for _, set := range s.sets {
		for _, keyword := range set.Keywords {
			kw := strings.ToUpper(strings.TrimSpace(keyword))
			if kw == "" || !strings.Contains(text, kw) {
				continue
			}
			s.logger.Debug("Transaction matched keyword",
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				logging.Field{Key: "keyword", Value: keyword},
				logging.Field{Key: logging.FieldCategory, Value: set.Category})
			return Suggestion{
				Tag:        set.Tag,
				Category:   set.Category,
				Confidence: models.ConfidenceLow,
				Reason:     "keyword: " + strings.ToLower(kw) + " (" + set.Name + ")",
				Strategy:   s.Name(),
			}, true, nil
		}
	}
	return Suggestion{}, false, nil
}
