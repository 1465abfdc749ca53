package categorizer

import (
	"context"

	"fjacquet/spendtag/internal/models"
)

// AIClient is the boundary to an external text-completion service that can
// propose a tag and category. The deterministic pipeline never requires one.
type AIClient interface {
	SuggestTag(ctx context.Context, tx models.Transaction) (models.Tag, models.Category, error)
}
