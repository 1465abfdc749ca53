// Package pipeline composes the enrichment components into a single run over
// a transaction snapshot.
package pipeline

import (
	"context"
	"time"

	"fjacquet/spendtag/internal/categorizer"
	"fjacquet/spendtag/internal/duplicates"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/recurrence"
	"fjacquet/spendtag/internal/split"
)

// Options holds the tolerances and optional collaborators of an Enricher.
type Options struct {
	SimilarityTolerance      float64
	DuplicateAmountTolerance float64
	RecurrenceTolerance      float64
	SplitEpsilon             float64
	KeywordSets              []models.KeywordSet
	AIClient                 categorizer.AIClient
	AITimeoutSeconds         int
}

// EnrichmentReport is everything one run produced. Transactions is the
// enriched snapshot; the input is never modified.
type EnrichmentReport struct {
	Transactions []models.Transaction          `json:"transactions" yaml:"transactions"`
	Suggestions  []categorizer.Applied         `json:"suggestions" yaml:"suggestions"`
	Duplicates   []duplicates.Group            `json:"duplicates" yaml:"duplicates"`
	Recurring    []models.RecurringTransaction `json:"recurring" yaml:"recurring"`
	Warnings     []error                       `json:"-" yaml:"-"`
	Stats        models.EnrichmentStats        `json:"stats" yaml:"stats"`
	Duration     time.Duration                 `json:"duration" yaml:"duration"`
}

// Enricher runs suggestion, duplicate and recurrence detection and split
// verification in that order. Merchant display names are never rewritten here;
// aliases only shape the grouping keys.
type Enricher struct {
	opts   Options
	logger logging.Logger
}

// NewEnricher creates an Enricher.
func NewEnricher(opts Options, logger logging.Logger) *Enricher {
	return &Enricher{opts: opts, logger: logging.OrDiscard(logger)}
}

// Suggester builds the suggestion chain for aliases.
func (e *Enricher) Suggester(aliases []models.MerchantAlias) *categorizer.Suggester {
	return categorizer.NewSuggester(categorizer.Options{
		SimilarityTolerance: e.opts.SimilarityTolerance,
		Aliases:             aliases,
		KeywordSets:         e.opts.KeywordSets,
		AIClient:            e.opts.AIClient,
		AITimeoutSeconds:    e.opts.AITimeoutSeconds,
	}, e.logger)
}

// SplitManager returns a split manager using the configured epsilon.
func (e *Enricher) SplitManager() *split.Manager {
	return split.NewManager(e.opts.SplitEpsilon, e.logger)
}

// Run enriches txs. Manually confirmed tags are left alone, so running twice
// over the same snapshot yields the same result.
func (e *Enricher) Run(ctx context.Context, txs []models.Transaction, rules []models.Rule, aliases []models.MerchantAlias) (*EnrichmentReport, error) {
	start := time.Now()
	report := &EnrichmentReport{}

	eligible := 0
	for i := range txs {
		if txs[i].AcceptsSuggestion() {
			eligible++
		}
	}

	enriched, applied, err := e.Suggester(aliases).ApplySuggestions(ctx, txs, rules)
	if err != nil {
		return nil, err
	}
	report.Transactions = enriched
	report.Suggestions = applied

	report.Duplicates = duplicates.NewDetector(e.opts.DuplicateAmountTolerance, aliases, e.logger).FindDuplicates(enriched)
	for _, g := range report.Duplicates {
		report.Warnings = append(report.Warnings, g.Warning())
	}

	recurring, rejected := recurrence.NewDetector(e.opts.RecurrenceTolerance, aliases, e.logger).Detect(enriched)
	report.Recurring = recurring
	for _, w := range rejected {
		report.Warnings = append(report.Warnings, w)
	}

	for _, problem := range e.SplitManager().Verify(enriched) {
		e.logger.WithError(problem).Warn("Split integrity problem")
		report.Warnings = append(report.Warnings, problem)
	}

	report.Stats = models.EnrichmentStats{
		Total:           len(enriched),
		TopLevel:        len(models.TopLevel(enriched)),
		Suggested:       len(applied),
		Unmatched:       eligible - len(applied),
		Skipped:         len(enriched) - eligible,
		DuplicateGroups: len(report.Duplicates),
		Recurring:       len(recurring),
		Warnings:        len(report.Warnings),
	}
	report.Duration = time.Since(start)
	report.Stats.LogSummary(e.logger, "enrich")
	return report, nil
}
