package recurrence

import (
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/models"
)

var monthlyFactors = map[models.Frequency]decimal.Decimal{
	models.FrequencyWeekly:    decimal.RequireFromString("4.33"),
	models.FrequencyMonthly:   decimal.NewFromInt(1),
	models.FrequencyQuarterly: decimal.NewFromInt(1).Div(decimal.NewFromInt(3)),
	models.FrequencyYearly:    decimal.NewFromInt(1).Div(decimal.NewFromInt(12)),
}

// MonthlyEquivalent converts the average amount of r to a per-month cost, rounded to cents.
func MonthlyEquivalent(r models.RecurringTransaction) decimal.Decimal {
	factor, ok := monthlyFactors[r.Frequency]
	if !ok {
		return decimal.Zero
	}
	return models.RoundAmount(r.AverageAmount.Mul(factor))
}

// MonthlyRecurringTotal sums MonthlyEquivalent per currency.
func MonthlyRecurringTotal(rs []models.RecurringTransaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range rs {
		totals[r.Currency] = totals[r.Currency].Add(MonthlyEquivalent(r))
	}
	return totals
}
