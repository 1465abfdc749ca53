package models

import (
	"fmt"
	"strings"
)

// Tag is the user-facing purpose of a transaction.
type Tag string

const (
	TagNone         Tag = ""
	TagReimbursable Tag = "reimbursable"
	TagPersonal     Tag = "personal"
	TagIgnore       Tag = "ignore"
)

// Tags lists every assignable tag in display order.
var Tags = []Tag{TagReimbursable, TagPersonal, TagIgnore}

// IsValid reports whether t is a known tag or unset.
func (t Tag) IsValid() bool {
	switch t {
	case TagNone, TagReimbursable, TagPersonal, TagIgnore:
		return true
	}
	return false
}

// ParseTag parses a tag name case-insensitively. Empty input yields TagNone.
func ParseTag(s string) (Tag, error) {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return TagNone, fmt.Errorf("unknown tag %q", s)
	}
	return t, nil
}

// Category is a spending classification, independent of the tag.
type Category string

const (
	CategoryNone          Category = ""
	CategoryDining        Category = "dining"
	CategoryGroceries     Category = "groceries"
	CategoryTransport     Category = "transport"
	CategoryTravel        Category = "travel"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryRent          Category = "rent"
	CategorySubscriptions Category = "subscriptions"
	CategoryInsurance     Category = "insurance"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryFees          Category = "fees"
	CategoryTransfer      Category = "transfer"
	CategoryIncome        Category = "income"
	CategoryOther         Category = "other"
)

// Categories lists every assignable category.
var Categories = []Category{
	CategoryDining, CategoryGroceries, CategoryTransport, CategoryTravel, CategoryShopping,
	CategoryEntertainment, CategoryUtilities, CategoryRent, CategorySubscriptions,
	CategoryInsurance, CategoryHealthcare, CategoryEducation, CategoryFees,
	CategoryTransfer, CategoryIncome, CategoryOther,
}

// IsValid reports whether c is a known category or unset.
func (c Category) IsValid() bool {
	if c == CategoryNone {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsFixed reports whether c is a fixed monthly cost category.
func (c Category) IsFixed() bool {
	switch c {
	case CategoryRent, CategoryUtilities, CategorySubscriptions, CategoryInsurance:
		return true
	}
	return false
}

// Label returns the category name, or "uncategorized" when unset.
func (c Category) Label() string {
	if c == CategoryNone {
		return "uncategorized"
	}
	return string(c)
}

// ParseCategory parses a category name case-insensitively. Empty input yields CategoryNone.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return CategoryNone, fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Confidence is the strength of a machine-suggested tag.
type Confidence string

const (
	ConfidenceNone   Confidence = ""
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank orders confidences so they can be compared; unset ranks lowest.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	}
	return 0
}

// ParseConfidence parses a confidence level case-insensitively.
func ParseConfidence(s string) (Confidence, error) {
	c := Confidence(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ConfidenceNone, ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return c, nil
	}
	return ConfidenceNone, fmt.Errorf("unknown confidence %q", s)
}

// ReimbursementStatus tracks a reimbursable transaction through its lifecycle.
type ReimbursementStatus string

const (
	StatusNone      ReimbursementStatus = ""
	StatusDraft     ReimbursementStatus = "draft"
	StatusSubmitted ReimbursementStatus = "submitted"
	StatusPaid      ReimbursementStatus = "paid"
)

// Statuses lists the lifecycle states in order.
var Statuses = []ReimbursementStatus{StatusDraft, StatusSubmitted, StatusPaid}

// ParseStatus parses a reimbursement status case-insensitively.
func ParseStatus(s string) (ReimbursementStatus, error) {
	st := ReimbursementStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusNone, StatusDraft, StatusSubmitted, StatusPaid:
		return st, nil
	}
	return StatusNone, fmt.Errorf("unknown status %q", s)
}

// Frequency is the inferred period of a recurring payment.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Source document types recorded as provenance.
const (
	SourceCSV    = "csv"
	SourcePDF    = "pdf"
	SourceManual = "manual"
	SourceSplit  = "split"
)
