package models

import (
	"fjacquet/spendtag/internal/logging"
)

// EnrichmentStats counts what one enrichment run did.
type EnrichmentStats struct {
	Total           int `json:"total" yaml:"total"` // transactions in the snapshot
	TopLevel        int `json:"top_level" yaml:"top_level"`
	Suggested       int `json:"suggested" yaml:"suggested"` // received a new suggestion
	Unmatched       int `json:"unmatched" yaml:"unmatched"` // eligible but no strategy produced a suggestion
	Skipped         int `json:"skipped" yaml:"skipped"`     // manually tagged or split parents
	DuplicateGroups int `json:"duplicate_groups" yaml:"duplicate_groups"`
	Recurring       int `json:"recurring" yaml:"recurring"`
	Warnings        int `json:"warnings" yaml:"warnings"`
}

// LogSummary logs the run summary.
func (s EnrichmentStats) LogSummary(logger logging.Logger, operation string) {
	if logger == nil {
		return
	}
	logger.Info("Enrichment summary",
		logging.Field{Key: logging.FieldOperation, Value: operation},
		logging.Field{Key: "total_transactions", Value: s.Total},
		logging.Field{Key: "top_level", Value: s.TopLevel},
		logging.Field{Key: "suggested", Value: s.Suggested},
		logging.Field{Key: "unmatched", Value: s.Unmatched},
		logging.Field{Key: "skipped", Value: s.Skipped},
		logging.Field{Key: "duplicate_groups", Value: s.DuplicateGroups},
		logging.Field{Key: "recurring", Value: s.Recurring},
		logging.Field{Key: "warnings", Value: s.Warnings},
		logging.Field{Key: "suggestion_rate", Value: s.SuggestionRate()},
	)
}

// SuggestionRate is the share of eligible transactions that received a suggestion, in percent.
func (s EnrichmentStats) SuggestionRate() float64 {
	eligible := s.Suggested + s.Unmatched
	if eligible == 0 {
		return 0.0
	}
	return float64(s.Suggested) / float64(eligible) * 100.0
}
