package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/spendtag/internal/models"
)

// Suggestion is a machine-proposed classification. It is always applied as auto-tagged.
type Suggestion struct {
	Tag        models.Tag        `json:"tag" yaml:"tag"`
	Category   models.Category   `json:"category,omitempty" yaml:"category,omitempty"`
	Confidence models.Confidence `json:"confidence" yaml:"confidence"`
	Reason     string            `json:"reason" yaml:"reason"`
	Strategy   string            `json:"strategy" yaml:"strategy"`
}

// Apply writes s onto tx as an unconfirmed tag. The category is replaced only
// when tx has none or it came from an earlier suggestion.
func (s Suggestion) Apply(tx *models.Transaction) error {
	if err := tx.SetTag(s.Tag); err != nil {
		return err
	}
	tx.AutoTagged = true
	tx.TagConfidence = s.Confidence
	if tx.Category == models.CategoryNone || tx.AutoCategorized {
		tx.Category = s.Category
		tx.AutoCategorized = s.Category != models.CategoryNone
	}
	return nil
}

// StrategyResult records one strategy attempt.
type StrategyResult struct {
	Strategy string
	Found    bool
	Error    error
}

// StrategyResults is the trace of one Suggest call.
type StrategyResults struct {
	Results []StrategyResult
}

// GetErrors returns all errors encountered during strategy execution.
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary returns a human-readable summary of all strategy attempts.
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, result := range sr.Results {
		status := "no_match"
		switch {
		case result.Error != nil:
			status = "failed"
		case result.Found:
			status = "success"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
