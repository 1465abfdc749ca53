package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/dateutils"
)

// RecurringTransaction describes a detected periodic payment. It is derived
// from the transaction list on demand and never stored.
type RecurringTransaction struct {
	MerchantKey    string          `json:"merchant_key" yaml:"merchant_key"`
	Merchant       string          `json:"merchant" yaml:"merchant"`
	Frequency      Frequency       `json:"frequency" yaml:"frequency"`
	AverageAmount  decimal.Decimal `json:"average_amount" yaml:"average_amount"`
	Currency       string          `json:"currency" yaml:"currency"`
	LastOccurrence civil.Date      `json:"last_occurrence" yaml:"last_occurrence"`
	Category       Category        `json:"category,omitempty" yaml:"category,omitempty"`
	Occurrences    int             `json:"occurrences" yaml:"occurrences"`
	TransactionIDs []string        `json:"transaction_ids" yaml:"transaction_ids"`
}

// NextExpected estimates the next charge date from the last occurrence.
func (r RecurringTransaction) NextExpected() civil.Date {
	switch r.Frequency {
	case FrequencyWeekly:
		return r.LastOccurrence.AddDays(7)
	case FrequencyQuarterly:
		return dateutils.AddMonths(r.LastOccurrence, 3)
	case FrequencyYearly:
		return dateutils.AddMonths(r.LastOccurrence, 12)
	default:
		return dateutils.AddMonths(r.LastOccurrence, 1)
	}
}
