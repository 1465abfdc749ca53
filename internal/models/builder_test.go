package models

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuilder(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithDate("2024-02-10").
		WithAmountFromString("-200.00", "aed").
		WithDescription("HOTEL DUBAI MARINA").
		WithTag(TagReimbursable).
		WithCategory(CategoryTravel).
		Build()
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 10}, tx.Date)
	assert.Equal(t, "AED", tx.Currency)
	assert.Equal(t, "HOTEL DUBAI MARINA", tx.Merchant)
	assert.Equal(t, StatusDraft, tx.Status)
	assert.Equal(t, SourceManual, tx.SourceType)
}

func TestTransactionBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *TransactionBuilder
	}{
		{"MissingDate", NewTransactionBuilder().WithAmountFromString("-1", "AED")},
		{"BadDate", NewTransactionBuilder().WithDate("yesterday").WithAmountFromString("-1", "AED")},
		{"ZeroAmount", NewTransactionBuilder().WithDate("2024-01-01").WithAmountFromString("0", "AED")},
		{"MissingCurrency", NewTransactionBuilder().WithDate("2024-01-01").WithAmountFromString("-1", "")},
		{"BadCategory", NewTransactionBuilder().WithDate("2024-01-01").WithAmountFromString("-1", "AED").WithCategory("gadgets")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.Error(t, err)
		})
	}
}
