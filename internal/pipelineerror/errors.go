// Package pipelineerror defines the typed failures returned by the enrichment pipeline.
//
// Three families exist: ValidationError rejects input before any mutation is applied,
// IntegrityWarning is a non-fatal signal surfaced for manual review, and
// MissingDataError marks a single record that was skipped while the batch continued.
package pipelineerror

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by the typed errors below.
var (
	ErrNotFound                  = errors.New("not found")
	ErrAlreadySplit              = errors.New("transaction already split")
	ErrNotSplit                  = errors.New("transaction is not split")
	ErrSplitChild                = errors.New("transaction is a split child")
	ErrSplitParentLocked         = errors.New("split parent cannot be tagged")
	ErrStatusWithoutReimbursable = errors.New("status requires the reimbursable tag")
	ErrStatusFinal               = errors.New("reimbursement already paid")
	ErrInvalidRule               = errors.New("invalid rule")
	ErrInvalidAlias              = errors.New("invalid alias")
	ErrInvalidSplit              = errors.New("invalid split")
	ErrUnsupportedCondition      = errors.New("unsupported condition")
)

// ValidationError represents input that was rejected before any mutation.
type ValidationError struct {
	Subject string // "rule", "alias", "split", "transaction"
	ID      string
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid %s %s: %s", e.Subject, e.ID, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError wrapping sentinel.
func NewValidationError(subject, id string, sentinel error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Subject: subject,
		ID:      id,
		Reason:  fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

// WarningKind classifies an IntegrityWarning.
type WarningKind string

const (
	WarningDuplicate          WarningKind = "duplicate"
	WarningRecurrenceRejected WarningKind = "recurrence_rejected"
	WarningSplitMismatch      WarningKind = "split_mismatch"
)

// IntegrityWarning is a data-integrity signal left for the user to decide on.
type IntegrityWarning struct {
	Kind    WarningKind
	Subject string
	Detail  string
}

func (w *IntegrityWarning) Error() string {
	return fmt.Sprintf("%s warning for %s: %s", w.Kind, w.Subject, w.Detail)
}

// MissingKind classifies a MissingDataError.
type MissingKind string

const (
	MissingParent        MissingKind = "parent"
	MissingConditionImpl MissingKind = "condition"
	MissingTransaction   MissingKind = "transaction"
)

// MissingDataError marks one record skipped while the surrounding batch continued.
type MissingDataError struct {
	Kind      MissingKind
	ID        string
	Reference string
	Err       error
}

func (e *MissingDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("skipped %s: missing %s %q: %v", e.ID, e.Kind, e.Reference, e.Err)
	}
	return fmt.Sprintf("skipped %s: missing %s %q", e.ID, e.Kind, e.Reference)
}

func (e *MissingDataError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
