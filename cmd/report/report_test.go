package report

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendtag/internal/config"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/dateutils"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/store"
)

func newTestContainer(t *testing.T, seed []models.Transaction) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Data.Directory = t.TempDir()
	cfg.Data.Backend = store.BackendMemory
	cfg.Data.RulesFile = "rules.yaml"
	cfg.Data.AliasesFile = "aliases.yaml"
	cfg.Matching.SimilarityTolerance = 0.05
	cfg.Recurrence.Tolerance = 0.2
	cfg.Split.Epsilon = 0.01
	c, err := container.NewContainer(context.Background(), cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithTransactionStore(store.NewMemoryStore(seed)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func entry(id string, m time.Month, day int, amount, currency string, cat models.Category) models.Transaction {
	return models.Transaction{
		ID: id, Date: civil.Date{Year: 2024, Month: m, Day: day}, Merchant: id,
		Amount: decimal.RequireFromString(amount), Currency: currency, Category: cat,
	}
}

func TestReferenceMonth(t *testing.T) {
	txs := []models.Transaction{
		entry("a", time.February, 3, "-1", "AED", models.CategoryDining),
		entry("b", time.April, 1, "-1", "AED", models.CategoryDining),
		entry("c", time.March, 30, "-1", "AED", models.CategoryDining),
	}
	ref, err := referenceMonth("", txs)
	require.NoError(t, err)
	assert.Equal(t, dateutils.YearMonth{Year: 2024, Month: time.April}, ref)

	ref, err = referenceMonth("2023-12", txs)
	require.NoError(t, err)
	assert.Equal(t, dateutils.YearMonth{Year: 2023, Month: time.December}, ref)

	_, err = referenceMonth("December", txs)
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	ref := dateutils.YearMonth{Year: 2024, Month: time.February}

	w, err := window(options{Currency: " aed "}, ref)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 1}, w.From)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, w.To)
	assert.Equal(t, "AED", w.Currency)

	w, err = window(options{All: true}, ref)
	require.NoError(t, err)
	assert.True(t, w.From.IsZero())
	assert.True(t, w.To.IsZero())

	w, err = window(options{From: "2024-01-10"}, ref)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.January, Day: 10}, w.From)
	assert.True(t, w.To.IsZero())

	_, err = window(options{From: "2024-03-01", To: "2024-02-01"}, ref)
	assert.Error(t, err)

	_, err = window(options{To: "someday"}, ref)
	assert.ErrorContains(t, err, "invalid --to")
}

func TestSummarize(t *testing.T) {
	c := newTestContainer(t, []models.Transaction{
		entry("feb-dining", time.February, 10, "-100", "AED", models.CategoryDining),
		entry("mar-dining", time.March, 10, "-150", "AED", models.CategoryDining),
		entry("mar-rent", time.March, 1, "-5000", "AED", models.CategoryRent),
		entry("mar-usd", time.March, 12, "-20", "USD", models.CategoryDining),
	})

	s, err := summarize(context.Background(), c, options{Month: "2024-03", Currency: "AED"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", s.Month)
	require.Len(t, s.Categories, 2)
	assert.Equal(t, models.CategoryRent, s.Categories[0].Category)
	assert.True(t, s.FixedVariable.Fixed.Equal(decimal.NewFromInt(5000)))
	assert.True(t, s.FixedVariable.Variable.Equal(decimal.NewFromInt(150)))

	var dining bool
	for _, change := range s.MonthOverMonth {
		if change.Category == models.CategoryDining {
			dining = true
			assert.True(t, change.Percent.Equal(decimal.NewFromInt(50)))
		}
	}
	assert.True(t, dining)
}
