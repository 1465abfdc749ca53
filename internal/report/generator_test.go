package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fjacquet/spendtag/internal/aggregator"
	"fjacquet/spendtag/internal/categorizer"
	"fjacquet/spendtag/internal/duplicates"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipeline"
)

func sampleSummary() aggregator.Summary {
	return aggregator.Summary{
		Month: "2024-03",
		Categories: []aggregator.CategoryTotal{
			{Category: models.CategoryTravel, Total: decimal.RequireFromString("600"), Percentage: decimal.NewFromInt(60), Count: 2},
			{Category: models.CategoryGroceries, Total: decimal.RequireFromString("400"), Percentage: decimal.NewFromInt(40), Count: 5},
		},
		FixedVariable: aggregator.FixedVariable{
			Fixed:    decimal.NewFromInt(5400),
			Variable: decimal.NewFromInt(300),
			Income:   decimal.NewFromInt(20100),
			Transfer: decimal.Zero,
		},
		MonthOverMonth: []aggregator.CategoryChange{
			{Category: models.CategoryTravel, Current: decimal.NewFromInt(600), Previous: decimal.NewFromInt(400),
				Change: decimal.NewFromInt(200), Percent: decimal.NewFromInt(50)},
		},
		Reimbursable: map[string]decimal.Decimal{"AED": decimal.NewFromInt(120)},
		Reimbursements: []aggregator.ReimbursementLine{
			{Currency: "AED", Status: models.StatusDraft, Total: decimal.NewFromInt(120), Count: 1},
		},
	}
}

func TestGenerateJSON(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	out, err := g.Generate(sampleSummary(), FormatJSON)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(out, []byte("\n")))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "2024-03", decoded["month"])
	cats, ok := decoded["categories"].([]interface{})
	require.True(t, ok)
	assert.Len(t, cats, 2)
	assert.NotContains(t, decoded, "Skipped")
}

func TestGenerateYAML(t *testing.T) {
	g := NewGenerator(nil)
	groups := []duplicates.Group{{
		Date:        civil.Date{Year: 2024, Month: time.March, Day: 2},
		Amount:      decimal.RequireFromString("84.20"),
		Currency:    "AED",
		MerchantKey: "spinneys",
		IDs:         []string{"a", "b"},
	}}

	out, err := g.Generate(groups, FormatYAML)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "spinneys", decoded[0]["merchant_key"])
	assert.Equal(t, []interface{}{"a", "b"}, decoded[0]["ids"])
}

func TestGenerateTextSummary(t *testing.T) {
	out, err := NewGenerator(nil).Generate(sampleSummary(), FormatText)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "Spending by category")
	assert.Contains(t, text, "600.00")
	assert.Contains(t, text, "60.00%")
	assert.Contains(t, text, "5400.00")
	assert.Contains(t, text, "50.00%")
	assert.Contains(t, text, "AED")
	assert.NotContains(t, text, "skipped")

	// Travel is listed before groceries, as in the breakdown order.
	assert.Less(t, strings.Index(text, models.CategoryTravel.Label()), strings.Index(text, models.CategoryGroceries.Label()))
}

func TestGenerateTextDefaultsToText(t *testing.T) {
	g := NewGenerator(nil)
	text, err := g.Generate([]models.MerchantAlias{{ID: "a1", Canonical: "Careem", Variants: []string{"CAREEM HALA", " "}}}, "")
	require.NoError(t, err)
	assert.Contains(t, string(text), "Careem")
	assert.Contains(t, string(text), "CAREEM HALA")
}

func TestGenerateTextEnrichmentReport(t *testing.T) {
	rep := &pipeline.EnrichmentReport{
		Suggestions: []categorizer.Applied{{
			TransactionID: "t1",
			Suggestion: categorizer.Suggestion{
				Tag: models.TagPersonal, Confidence: models.ConfidenceHigh, Strategy: "rule", Reason: "rule NETFLIX",
			},
		}},
		Warnings: []error{errors.New("split hotel: children do not add up")},
		Stats:    models.EnrichmentStats{Total: 3, Suggested: 1, Unmatched: 1, Skipped: 1, Warnings: 1},
	}

	out, err := NewGenerator(nil).Generate(rep, FormatText)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "rule NETFLIX")
	assert.Contains(t, text, "warning: split hotel: children do not add up")
}

func TestGenerateTextEmptyCollections(t *testing.T) {
	g := NewGenerator(nil)
	cases := []struct {
		value interface{}
		want  string
	}{
		{[]duplicates.Group{}, "No duplicates found."},
		{[]models.RecurringTransaction(nil), "No recurring payments found."},
		{[]models.Rule{}, "No rules defined."},
		{[]models.MerchantAlias{}, "No aliases defined."},
		{[]merchant.AliasSuggestion{}, "No alias suggestions."},
		{[]models.Transaction{}, "No transactions."},
	}
	for _, tc := range cases {
		out, err := g.Generate(tc.value, FormatText)
		require.NoError(t, err)
		assert.Equal(t, tc.want+"\n", string(out))
	}
}

func TestGenerateTextRecurringTotals(t *testing.T) {
	rs := []models.RecurringTransaction{
		{Merchant: "Netflix", Frequency: models.FrequencyMonthly, AverageAmount: decimal.RequireFromString("45.00"),
			Currency: "AED", LastOccurrence: civil.Date{Year: 2024, Month: time.March, Day: 1}, Occurrences: 3},
		{Merchant: "Gym", Frequency: models.FrequencyYearly, AverageAmount: decimal.RequireFromString("1200.00"),
			Currency: "AED", LastOccurrence: civil.Date{Year: 2024, Month: time.January, Day: 10}, Occurrences: 2},
	}
	out, err := NewGenerator(nil).Generate(rs, FormatText)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "Netflix")
	assert.Contains(t, text, "2024-04-01")
	assert.Contains(t, text, "Monthly recurring total: 145.00 AED")
}

func TestGenerateTextRules(t *testing.T) {
	rs := []models.Rule{
		{ID: "r1", Name: "NETFLIX", Pattern: "NETFLIX", Tag: models.TagPersonal},
		{ID: "r2", Name: "big travel", Tag: models.TagReimbursable, Conditions: []models.Condition{
			{Field: models.FieldAmount, Operator: models.OpGreaterThan, Value: "1000"},
		}},
	}
	out, err := NewGenerator(nil).Generate(rs, FormatText)
	require.NoError(t, err)
	assert.Contains(t, string(out), "amount greater-than 1000")
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator(nil)

	_, err := g.Generate(sampleSummary(), "xml")
	assert.ErrorContains(t, err, "unsupported output format: xml")

	_, err = g.Generate(42, FormatText)
	assert.Error(t, err)
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateFormat(f))
	}
	assert.Error(t, ValidateFormat("xml"))
	assert.Error(t, ValidateFormat(""))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGenerator(nil).Write(&buf, []models.Rule{}, FormatText))
	assert.Equal(t, "No rules defined.\n", buf.String())
}
