package models

import (
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/dateutils"
)

// TransactionBuilder provides a fluent API for constructing transactions.
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a builder for a manual transaction.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Amount:     decimal.Zero,
			SourceType: SourceManual,
		},
	}
}

// WithID sets the transaction ID. Build generates one when none is given.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = strings.TrimSpace(id)
	return b
}

// WithDate parses dateStr with dateutils.ParseDate.
func (b *TransactionBuilder) WithDate(dateStr string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	d, err := dateutils.ParseDate(dateStr)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.Date = d
	return b
}

// WithCivilDate sets an already parsed date.
func (b *TransactionBuilder) WithCivilDate(d civil.Date) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Date = d
	return b
}

// WithAmount sets the signed amount and currency.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal, currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	b.tx.Currency = strings.ToUpper(strings.TrimSpace(currency))
	return b
}

// WithAmountFromString parses amountStr with ParseAmount.
func (b *TransactionBuilder) WithAmountFromString(amountStr, currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		b.err = err
		return b
	}
	return b.WithAmount(amount, currency)
}

// WithMerchant sets the display merchant.
func (b *TransactionBuilder) WithMerchant(merchant string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Merchant = strings.TrimSpace(merchant)
	return b
}

// WithDescription sets the verbatim statement text.
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = description
	return b
}

// WithTag sets a confirmed tag, applying the status rule.
func (b *TransactionBuilder) WithTag(tag Tag) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.tx.ConfirmTag(tag)
	return b
}

// WithCategory sets the category.
func (b *TransactionBuilder) WithCategory(category Category) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !category.IsValid() {
		b.err = fmt.Errorf("unknown category %q", category)
		return b
	}
	b.tx.Category = category
	return b
}

// WithSource records provenance.
func (b *TransactionBuilder) WithSource(sourceType, sourceFile string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.SourceType = sourceType
	b.tx.SourceFile = sourceFile
	return b
}

// WithNote sets the free-text note.
func (b *TransactionBuilder) WithNote(note string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Note = note
	return b
}

// Build validates and returns the transaction.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, fmt.Errorf("builder error: %w", b.err)
	}
	if b.tx.Date.IsZero() {
		return Transaction{}, errors.New("date is required")
	}
	if b.tx.Amount.IsZero() {
		return Transaction{}, errors.New("amount must be non-zero")
	}
	if b.tx.Currency == "" {
		return Transaction{}, errors.New("currency is required")
	}
	if b.tx.ID == "" {
		b.tx.ID = uuid.NewString()
	}
	if b.tx.Merchant == "" {
		b.tx.Merchant = strings.TrimSpace(b.tx.Description)
	}
	return b.tx.Clone(), nil
}
