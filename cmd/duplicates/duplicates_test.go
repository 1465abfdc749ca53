package duplicates

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

func tx(id string, m time.Month, day int, merchant, amount string) models.Transaction {
	return models.Transaction{
		ID: id, Date: civil.Date{Year: 2024, Month: m, Day: day},
		Description: merchant, Merchant: merchant,
		Amount: decimal.RequireFromString(amount), Currency: "AED",
	}
}

func snapshot() []models.Transaction {
	return []models.Transaction{
		tx("n1", time.January, 15, "NETFLIX.COM", "-45.00"),
		tx("n2", time.February, 15, "NETFLIX.COM", "-45.00"),
		tx("n3", time.March, 15, "NETFLIX.COM", "-45.00"),
		tx("s1", time.March, 2, "SPINNEYS MARINA", "-84.20"),
		tx("s2", time.March, 2, "SPINNEYS MARINA", "-84.20"),
	}
}

func TestFind(t *testing.T) {
	groups, err := find(context.Background(), newTestContainer(t, snapshot()))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"s1", "s2"}, groups[0].IDs)
	assert.Equal(t, "spinneys marina", groups[0].MerchantKey)
}

func TestFindNone(t *testing.T) {
	groups, err := find(context.Background(), newTestContainer(t, snapshot()[:3]))
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
