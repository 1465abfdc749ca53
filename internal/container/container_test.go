package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendtag/internal/categorizer"
	"fjacquet/spendtag/internal/config"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/store"
)

func testConfig(dir, backend string) *config.Config {
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Data.Directory = dir
	cfg.Data.Backend = backend
	cfg.Data.TransactionsFile = "transactions.csv"
	cfg.Data.SQLitePath = "spendtag.db"
	cfg.Data.RulesFile = "rules.yaml"
	cfg.Data.AliasesFile = "aliases.yaml"
	cfg.Data.HeuristicsFile = "heuristics.yaml"
	cfg.Matching.SimilarityTolerance = 0.05
	cfg.Recurrence.Tolerance = 0.2
	cfg.Split.Epsilon = 0.01
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(dir string) *config.Config
		expectError string
		storeType   interface{}
	}{
		{
			name:        "nil config",
			config:      func(string) *config.Config { return nil },
			expectError: "configuration cannot be nil",
		},
		{
			name:      "memory backend",
			config:    func(dir string) *config.Config { return testConfig(dir, store.BackendMemory) },
			storeType: &store.MemoryStore{},
		},
		{
			name:      "csv backend",
			config:    func(dir string) *config.Config { return testConfig(dir, store.BackendCSV) },
			storeType: &store.CSVStore{},
		},
		{
			name:      "sqlite backend",
			config:    func(dir string) *config.Config { return testConfig(dir, store.BackendSQLite) },
			storeType: &store.SQLiteStore{},
		},
		{
			name:        "unknown backend",
			config:      func(dir string) *config.Config { return testConfig(dir, "postgres") },
			expectError: "unknown store backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(context.Background(), tt.config(t.TempDir()), WithLogger(logging.NewMockLogger()))
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			defer func() { assert.NoError(t, c.Close()) }()

			assert.IsType(t, tt.storeType, c.GetTransactionStore())
			assert.NotNil(t, c.GetRuleStore())
			assert.NotNil(t, c.GetAliasStore())
			assert.NotNil(t, c.GetEnricher())
			assert.NotNil(t, c.GetSplitManager())
			assert.Nil(t, c.GetAIClient())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetLogger())
		})
	}
}

func TestNewContainerResolvesDataDirectory(t *testing.T) {
	dir := t.TempDir()
	c, err := NewContainer(context.Background(), testConfig(dir, store.BackendCSV), WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	defer c.Close()

	csvStore, ok := c.GetTransactionStore().(*store.CSVStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "transactions.csv"), csvStore.Path())
}

func TestNewContainerLoadsHeuristics(t *testing.T) {
	dir := t.TempDir()
	content := "keyword_sets:\n  - name: gym\n    keywords: [FITNESS FIRST]\n    tag: personal\n    category: healthcare\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "heuristics.yaml"), []byte(content), 0600))

	c, err := NewContainer(context.Background(), testConfig(dir, store.BackendMemory), WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	defer c.Close()

	require.Len(t, c.GetKeywordSets(), 1)
	assert.Equal(t, "gym", c.GetKeywordSets()[0].Name)
}

func TestNewContainerRejectsBadHeuristics(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "heuristics.yaml"), []byte("keyword_sets: [unclosed"), 0600))

	_, err := NewContainer(context.Background(), testConfig(dir, store.BackendMemory), WithLogger(logging.NewMockLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heuristics")
}

type fixedAI struct{}

func (fixedAI) SuggestTag(context.Context, models.Transaction) (models.Tag, models.Category, error) {
	return models.TagPersonal, models.CategoryOther, nil
}

func TestNewContainerWithInjectedDependencies(t *testing.T) {
	logger := logging.NewMockLogger()
	memory := store.NewMemoryStore(nil)

	c, err := NewContainer(context.Background(), testConfig(t.TempDir(), store.BackendCSV),
		WithLogger(logger), WithTransactionStore(memory), WithAIClient(fixedAI{}))
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, memory, c.GetTransactionStore())
	assert.NotNil(t, c.GetAIClient())
	assert.True(t, logger.HasEntry("INFO", "AI suggestions enabled"))

	names := c.GetEnricher().Suggester(nil).Strategies()
	assert.Equal(t, []string{categorizer.StrategyRule, categorizer.StrategyHistory, categorizer.StrategyKeyword, categorizer.StrategyAI}, names)
}
