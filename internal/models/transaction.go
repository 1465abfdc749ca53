// Package models provides the data structures used throughout the enrichment pipeline.
package models

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/pipelineerror"
)

// Transaction is one imported bank-statement line plus its classification state.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        civil.Date      `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Merchant    string          `json:"merchant" yaml:"merchant"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"` // negative = debit
	Currency    string          `json:"currency" yaml:"currency"`

	Tag             Tag                 `json:"tag,omitempty" yaml:"tag,omitempty"`
	Category        Category            `json:"category,omitempty" yaml:"category,omitempty"`
	TagConfidence   Confidence          `json:"tag_confidence,omitempty" yaml:"tag_confidence,omitempty"`
	AutoTagged      bool                `json:"auto_tagged" yaml:"auto_tagged"`
	AutoCategorized bool                `json:"auto_categorized,omitempty" yaml:"auto_categorized,omitempty"`
	Status          ReimbursementStatus `json:"status,omitempty" yaml:"status,omitempty"`

	ParentID        string           `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	SplitPercentage *decimal.Decimal `json:"split_percentage,omitempty" yaml:"split_percentage,omitempty"`
	IsSplit         bool             `json:"is_split" yaml:"is_split"`

	SourceType string `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Note       string `json:"note,omitempty" yaml:"note,omitempty"`
}

// IsChild reports whether the transaction is a split child.
func (t *Transaction) IsChild() bool {
	return t.ParentID != ""
}

// IsDebit returns true for outgoing money.
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCredit returns true for incoming money.
func (t *Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// AbsAmount returns |Amount|.
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// IsManuallyTagged reports whether a user confirmed the current tag.
func (t *Transaction) IsManuallyTagged() bool {
	return t.Tag != TagNone && !t.AutoTagged
}

// AcceptsSuggestion reports whether a machine suggestion may overwrite the tag:
// only unset or still auto-tagged transactions qualify, and never split parents.
func (t *Transaction) AcceptsSuggestion() bool {
	if t.IsSplit {
		return false
	}
	return t.Tag == TagNone || t.AutoTagged
}

// SetTag assigns tag and keeps the status invariant: reimbursable starts as draft
// unless a status is already set, every other tag clears the status.
func (t *Transaction) SetTag(tag Tag) error {
	if !tag.IsValid() {
		return pipelineerror.NewValidationError("transaction", t.ID, nil, "unknown tag %q", tag)
	}
	if t.IsSplit {
		return fmt.Errorf("tag %s: %w", t.ID, pipelineerror.ErrSplitParentLocked)
	}
	t.Tag = tag
	if tag == TagReimbursable {
		if t.Status == StatusNone {
			t.Status = StatusDraft
		}
	} else {
		t.Status = StatusNone
	}
	return nil
}

// ConfirmTag sets tag as a user decision, dropping any suggestion metadata.
func (t *Transaction) ConfirmTag(tag Tag) error {
	if err := t.SetTag(tag); err != nil {
		return err
	}
	t.AutoTagged = false
	t.TagConfidence = ConfidenceNone
	return nil
}

// ClearSuggestion drops an unconfirmed tag along with its status and
// confidence, and a category that came from the same suggestion.
func (t *Transaction) ClearSuggestion() {
	if t.AutoTagged {
		t.Tag = TagNone
		t.Status = StatusNone
		t.TagConfidence = ConfidenceNone
		t.AutoTagged = false
	}
	if t.AutoCategorized {
		t.Category = CategoryNone
		t.AutoCategorized = false
	}
}

// SetStatus moves a reimbursable transaction to status.
func (t *Transaction) SetStatus(status ReimbursementStatus) error {
	if t.Tag != TagReimbursable {
		return fmt.Errorf("status %s on %s: %w", status, t.ID, pipelineerror.ErrStatusWithoutReimbursable)
	}
	if status == StatusNone {
		return pipelineerror.NewValidationError("transaction", t.ID, nil, "reimbursable transactions need a status")
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return pipelineerror.NewValidationError("transaction", t.ID, nil, "%v", err)
	}
	t.Status = status
	return nil
}

// AdvanceStatus moves draft -> submitted -> paid.
func (t *Transaction) AdvanceStatus() (ReimbursementStatus, error) {
	if t.Tag != TagReimbursable {
		return t.Status, fmt.Errorf("advance %s: %w", t.ID, pipelineerror.ErrStatusWithoutReimbursable)
	}
	var next ReimbursementStatus
	switch t.Status {
	case StatusNone, StatusDraft:
		next = StatusSubmitted
	case StatusSubmitted:
		next = StatusPaid
	default:
		return t.Status, fmt.Errorf("advance %s: %w", t.ID, pipelineerror.ErrStatusFinal)
	}
	t.Status = next
	return next, nil
}

// Clone returns a deep copy.
func (t Transaction) Clone() Transaction {
	if t.SplitPercentage != nil {
		p := *t.SplitPercentage
		t.SplitPercentage = &p
	}
	return t
}

// CloneAll deep-copies a transaction slice so callers can mutate the result freely.
func CloneAll(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i := range txs {
		out[i] = txs[i].Clone()
	}
	return out
}
