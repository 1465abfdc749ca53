package approve

import (
	"context"
	"testing"

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

func TestApprove(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, []models.Transaction{
		{ID: "rule", Tag: models.TagPersonal, Category: models.CategorySubscriptions, TagConfidence: models.ConfidenceHigh, AutoTagged: true},
		{ID: "keyword", Tag: models.TagPersonal, TagConfidence: models.ConfidenceLow, AutoTagged: true},
		{ID: "manual", Tag: models.TagIgnore},
	})

	approved, err := approve(ctx, c)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "rule", approved[0].ID)
	assert.Equal(t, models.CategorySubscriptions, approved[0].Category)

	stored, err := c.GetTransactionStore().Load(ctx)
	require.NoError(t, err)
	assert.False(t, stored[0].AutoTagged)
	assert.True(t, stored[1].AutoTagged)

	approved, err = approve(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, approved)
}
