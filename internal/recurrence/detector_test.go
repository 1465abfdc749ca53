package recurrence

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func debit(id string, d civil.Date, merchant, amount string, cat models.Category) models.Transaction {
	return models.Transaction{
		ID:       id,
		Date:     d,
		Merchant: merchant,
		Amount:   decimal.RequireFromString(amount),
		Currency: "AED",
		Category: cat,
	}
}

func TestDetectNetflixMonthly(t *testing.T) {
	txs := []models.Transaction{
		debit("n3", date(2024, time.March, 15), "NETFLIX.COM", "-39", models.CategorySubscriptions),
		debit("n1", date(2024, time.January, 15), "NETFLIX.COM", "-39", models.CategorySubscriptions),
		debit("n2", date(2024, time.February, 15), "NETFLIX.COM", "-39", models.CategoryEntertainment),
		debit("other", date(2024, time.February, 1), "Spinneys", "-80", models.CategoryGroceries),
	}

	found := DetectRecurring(txs, nil)
	require.Len(t, found, 1)

	r := found[0]
	assert.Equal(t, "netflix.com", r.MerchantKey)
	assert.Equal(t, "NETFLIX.COM", r.Merchant)
	assert.Equal(t, models.FrequencyMonthly, r.Frequency)
	assert.True(t, r.AverageAmount.Equal(decimal.NewFromInt(39)))
	assert.Equal(t, date(2024, time.March, 15), r.LastOccurrence)
	assert.Equal(t, models.CategorySubscriptions, r.Category)
	assert.Equal(t, 3, r.Occurrences)
	assert.Equal(t, []string{"n1", "n2", "n3"}, r.TransactionIDs)
	assert.True(t, MonthlyEquivalent(r).Equal(decimal.NewFromInt(39)))
	assert.Equal(t, date(2024, time.April, 15), r.NextExpected())
}

func TestDetectFrequencies(t *testing.T) {
	tests := []struct {
		name  string
		dates []civil.Date
		want  models.Frequency
	}{
		{"Weekly", []civil.Date{date(2024, 1, 1), date(2024, 1, 8), date(2024, 1, 15)}, models.FrequencyWeekly},
		{"Quarterly", []civil.Date{date(2024, 1, 10), date(2024, 4, 10), date(2024, 7, 10)}, models.FrequencyQuarterly},
		{"Yearly", []civil.Date{date(2022, 6, 1), date(2023, 6, 1), date(2024, 6, 1)}, models.FrequencyYearly},
		{"TwoOccurrences", []civil.Date{date(2024, 1, 1), date(2024, 2, 1)}, models.FrequencyMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txs []models.Transaction
			for i, d := range tt.dates {
				txs = append(txs, debit(string(rune('a'+i)), d, "Gym", "-100", models.CategoryNone))
			}
			found := DetectRecurring(txs, nil)
			require.Len(t, found, 1)
			assert.Equal(t, tt.want, found[0].Frequency)
		})
	}
}

func TestDetectRejectsIrregularGroups(t *testing.T) {
	txs := []models.Transaction{
		debit("a", date(2024, 1, 1), "Noon", "-10", models.CategoryShopping),
		debit("b", date(2024, 1, 6), "Noon", "-20", models.CategoryShopping),
		debit("c", date(2024, 3, 6), "Noon", "-30", models.CategoryShopping),
	}
	logger := logging.NewMockLogger()

	found, warnings := NewDetector(0.2, nil, logger).Detect(txs)
	assert.Empty(t, found)
	require.Len(t, warnings, 1)
	assert.Equal(t, pipelineerror.WarningRecurrenceRejected, warnings[0].Kind)
	assert.Equal(t, "noon", warnings[0].Subject)
	assert.NotEmpty(t, logger.GetEntriesByLevel("DEBUG"))
}

func TestDetectSkipsChildrenCreditsAndSingleDates(t *testing.T) {
	child := debit("c", date(2024, 2, 1), "Rent Co", "-5000", models.CategoryRent)
	child.ParentID = "p"
	txs := []models.Transaction{
		debit("a", date(2024, 1, 1), "Rent Co", "-5000", models.CategoryRent),
		child,
		debit("salary1", date(2024, 1, 28), "ACME", "20000", models.CategoryIncome),
		debit("salary2", date(2024, 2, 28), "ACME", "20000", models.CategoryIncome),
		debit("same1", date(2024, 1, 3), "Cafe", "-10", models.CategoryDining),
		debit("same2", date(2024, 1, 3), "Cafe", "-12", models.CategoryDining),
	}

	found, warnings := NewDetector(0, nil, nil).Detect(txs)
	assert.Empty(t, found)
	assert.Empty(t, warnings)
}

func TestDetectMonotonicity(t *testing.T) {
	base := []models.Transaction{
		debit("1", date(2024, 1, 5), "DEWA", "-400", models.CategoryUtilities),
		debit("2", date(2024, 2, 5), "DEWA", "-420", models.CategoryUtilities),
	}
	before := DetectRecurring(base, nil)
	require.Len(t, before, 1)

	extended := append(base, debit("3", date(2024, 3, 5), "DEWA", "-410", models.CategoryUtilities))
	after := DetectRecurring(extended, nil)
	require.Len(t, after, 1)

	assert.Equal(t, before[0].Frequency, after[0].Frequency)
	assert.Greater(t, after[0].Occurrences, before[0].Occurrences)
	assert.True(t, after[0].AverageAmount.Equal(decimal.NewFromInt(410)))
}

func TestDetectUsesAliasesForGrouping(t *testing.T) {
	aliases := []models.MerchantAlias{{Canonical: "Netflix", Variants: []string{"NETFLIX"}}}
	txs := []models.Transaction{
		debit("1", date(2024, 1, 15), "NETFLIX.COM", "-39", models.CategoryNone),
		debit("2", date(2024, 2, 15), "Netflix Intl", "-39", models.CategoryNone),
	}

	found := DetectRecurring(txs, aliases)
	require.Len(t, found, 1)
	assert.Equal(t, "netflix", found[0].MerchantKey)
	assert.Equal(t, "Netflix", found[0].Merchant)
}

func TestDominantCategoryTieUsesLatest(t *testing.T) {
	members := []models.Transaction{
		{Category: models.CategoryEntertainment},
		{Category: models.CategorySubscriptions},
		{Category: models.CategoryNone},
	}
	assert.Equal(t, models.CategorySubscriptions, dominantCategory(members))
}
