// Package container provides dependency injection for the spendtag application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"

	"fjacquet/spendtag/internal/categorizer"
	"fjacquet/spendtag/internal/config"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipeline"
	"fjacquet/spendtag/internal/split"
	"fjacquet/spendtag/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	txStore     store.TransactionStore
	ruleStore   store.RuleStore
	aliasStore  store.AliasStore
	keywordSets []models.KeywordSet
	aiClient    categorizer.AIClient
	enricher    *pipeline.Enricher

	closers []io.Closer
}

// Option overrides a dependency before wiring. Tests use it to inject fakes.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithTransactionStore replaces the configured transaction store.
func WithTransactionStore(s store.TransactionStore) Option {
	return func(c *Container) { c.txStore = s }
}

// WithAIClient replaces the Gemini client.
func WithAIClient(client categorizer.AIClient) Option {
	return func(c *Container) { c.aiClient = client }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	// Create logger first as it's needed by other components
	if c.logger == nil {
		c.logger = config.NewLogger(cfg)
	}

	if c.txStore == nil {
		s, err := store.New(ctx, cfg.Data.Backend, cfg.Path(cfg.Data.TransactionsFile), cfg.Path(cfg.Data.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("error opening transaction store: %w", err)
		}
		c.txStore = s
		if closer, ok := s.(io.Closer); ok {
			c.closers = append(c.closers, closer)
		}
	}
	c.ruleStore = store.NewYAMLRuleStore(cfg.Path(cfg.Data.RulesFile), c.logger)
	c.aliasStore = store.NewYAMLAliasStore(cfg.Path(cfg.Data.AliasesFile), c.logger)

	sets, err := store.LoadHeuristics(cfg.Path(cfg.Data.HeuristicsFile))
	if err != nil {
		c.closeAll()
		return nil, fmt.Errorf("error loading heuristics: %w", err)
	}
	c.keywordSets = sets

	// Create AI client (if enabled)
	if c.aiClient == nil && cfg.AIReady() {
		gemini, err := categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, c.logger)
		if err != nil {
			c.closeAll()
			return nil, fmt.Errorf("error creating AI client: %w", err)
		}
		c.aiClient = gemini
		c.closers = append(c.closers, gemini)
	}
	if c.aiClient != nil {
		c.logger.Info("AI suggestions enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		c.logger.Debug("AI suggestions disabled")
	}

	c.enricher = pipeline.NewEnricher(pipeline.Options{
		SimilarityTolerance:      cfg.Matching.SimilarityTolerance,
		DuplicateAmountTolerance: cfg.Matching.DuplicateAmountTolerance,
		RecurrenceTolerance:      cfg.Recurrence.Tolerance,
		SplitEpsilon:             cfg.Split.Epsilon,
		KeywordSets:              c.keywordSets,
		AIClient:                 c.aiClient,
		AITimeoutSeconds:         cfg.AI.TimeoutSeconds,
	}, c.logger)

	c.logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldBackend, Value: cfg.Data.Backend},
		logging.Field{Key: "keyword_sets", Value: len(c.keywordSets)})
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTransactionStore returns the configured transaction store.
func (c *Container) GetTransactionStore() store.TransactionStore {
	return c.txStore
}

// GetRuleStore returns the rule store.
func (c *Container) GetRuleStore() store.RuleStore {
	return c.ruleStore
}

// GetAliasStore returns the alias store.
func (c *Container) GetAliasStore() store.AliasStore {
	return c.aliasStore
}

// GetKeywordSets returns the configured keyword heuristics, without the built-in sets.
func (c *Container) GetKeywordSets() []models.KeywordSet {
	return c.keywordSets
}

// GetAIClient returns the AI client, or nil when AI is disabled.
func (c *Container) GetAIClient() categorizer.AIClient {
	return c.aiClient
}

// GetEnricher returns the enrichment pipeline.
func (c *Container) GetEnricher() *pipeline.Enricher {
	return c.enricher
}

// GetSplitManager returns a split manager using the configured epsilon.
func (c *Container) GetSplitManager() *split.Manager {
	return c.enricher.SplitManager()
}

// Close releases the transaction store and the AI client.
func (c *Container) Close() error {
	err := c.closeAll()
	c.logger.Debug("Container closed")
	return err
}

func (c *Container) closeAll() error {
	var first error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
