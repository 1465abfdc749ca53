package aliases

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

func merchants() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Merchant: "CAREEM HALA"},
		{ID: "2", Merchant: "Careem Food"},
		{ID: "3", Merchant: "Noon"},
	}
}

func TestSubcommands(t *testing.T) {
	names := make([]string, 0, len(Cmd.Commands()))
	for _, sub := range Cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list", "delete", "suggest"}, names)
	assert.NotNil(t, suggestCmd.Flags().Lookup("apply"))
}

func TestSuggestWithoutApply(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, merchants())

	got, err := suggest(ctx, c, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Careem", got[0].Canonical)

	stored, err := c.GetAliasStore().LoadAliases(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSuggestApply(t *testing.T) {
	ctx := context.Background()
	c := newTestContainer(t, merchants())

	_, err := suggest(ctx, c, true)
	require.NoError(t, err)

	stored, err := c.GetAliasStore().LoadAliases(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].ID)
	assert.Equal(t, []string{"CAREEM HALA", "Careem Food"}, stored[0].Variants)

	again, err := suggest(ctx, c, true)
	require.NoError(t, err)
	assert.Empty(t, again, "covered merchants are not proposed twice")
}
