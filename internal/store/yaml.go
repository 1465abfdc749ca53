package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
	"fjacquet/spendtag/internal/rules"
)

type rulesFile struct {
	Rules []models.Rule `yaml:"rules"`
}

type aliasesFile struct {
	Aliases []models.MerchantAlias `yaml:"aliases"`
}

type heuristicsFile struct {
	KeywordSets []models.KeywordSet `yaml:"keyword_sets"`
}

// readYAML unmarshals path into out. It reports false when the file is missing.
func readYAML(path string, out interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return true, nil
}

func writeYAML(path string, in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", path, err)
	}
	return writeFileAtomic(path, data)
}

// YAMLRuleStore keeps rules in a YAML file, in insertion order.
type YAMLRuleStore struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

// NewYAMLRuleStore returns a rule store backed by path.
func NewYAMLRuleStore(path string, logger logging.Logger) *YAMLRuleStore {
	return &YAMLRuleStore{path: path, logger: logging.OrDiscard(logger)}
}

// LoadRules returns every stored rule. A missing file yields no rules.
func (s *YAMLRuleStore) LoadRules(ctx context.Context) ([]models.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *YAMLRuleStore) load() ([]models.Rule, error) {
	var f rulesFile
	found, err := readYAML(s.path, &f)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Debug("Rules file not found", logging.Field{Key: logging.FieldFile, Value: s.path})
	}
	if f.Rules == nil {
		f.Rules = []models.Rule{}
	}
	return f.Rules, nil
}

// AddRule validates rule and appends it.
func (s *YAMLRuleStore) AddRule(ctx context.Context, rule models.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rules.Validate(rule); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.ID == rule.ID {
			return pipelineerror.NewValidationError("rule", rule.ID, pipelineerror.ErrInvalidRule, "duplicate id")
		}
	}
	if err := writeYAML(s.path, rulesFile{Rules: append(existing, rule)}); err != nil {
		return err
	}
	s.logger.Info("Rule added",
		logging.Field{Key: logging.FieldRuleID, Value: rule.ID},
		logging.Field{Key: logging.FieldTag, Value: rule.Tag})
	return nil
}

// DeleteRule removes the rule with id.
func (s *YAMLRuleStore) DeleteRule(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	out := make([]models.Rule, 0, len(existing))
	for _, r := range existing {
		if r.ID != id {
			out = append(out, r)
		}
	}
	if len(out) == len(existing) {
		return fmt.Errorf("rule %s: %w", id, pipelineerror.ErrNotFound)
	}
	if err := writeYAML(s.path, rulesFile{Rules: out}); err != nil {
		return err
	}
	s.logger.Info("Rule deleted", logging.Field{Key: logging.FieldRuleID, Value: id})
	return nil
}

// YAMLAliasStore keeps merchant aliases in a YAML file.
type YAMLAliasStore struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

// NewYAMLAliasStore returns an alias store backed by path.
func NewYAMLAliasStore(path string, logger logging.Logger) *YAMLAliasStore {
	return &YAMLAliasStore{path: path, logger: logging.OrDiscard(logger)}
}

// LoadAliases returns every stored alias. A missing file yields none.
func (s *YAMLAliasStore) LoadAliases(ctx context.Context) ([]models.MerchantAlias, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *YAMLAliasStore) load() ([]models.MerchantAlias, error) {
	var f aliasesFile
	if _, err := readYAML(s.path, &f); err != nil {
		return nil, err
	}
	if f.Aliases == nil {
		f.Aliases = []models.MerchantAlias{}
	}
	return f.Aliases, nil
}

// AddAlias validates alias, assigns an ID when missing and stores it.
func (s *YAMLAliasStore) AddAlias(ctx context.Context, alias models.MerchantAlias) (models.MerchantAlias, error) {
	if err := ctx.Err(); err != nil {
		return models.MerchantAlias{}, err
	}
	if alias.ID == "" {
		alias.ID = uuid.NewString()
	}
	alias.Canonical = strings.TrimSpace(alias.Canonical)
	if err := merchant.ValidateAlias(alias); err != nil {
		return models.MerchantAlias{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return models.MerchantAlias{}, err
	}
	for _, a := range existing {
		if a.ID == alias.ID {
			return models.MerchantAlias{}, pipelineerror.NewValidationError("alias", alias.ID, pipelineerror.ErrInvalidAlias, "duplicate id")
		}
	}
	if err := writeYAML(s.path, aliasesFile{Aliases: append(existing, alias)}); err != nil {
		return models.MerchantAlias{}, err
	}
	s.logger.Info("Alias added",
		logging.Field{Key: logging.FieldAliasID, Value: alias.ID},
		logging.Field{Key: logging.FieldMerchant, Value: alias.Canonical})
	return alias, nil
}

// UpdateAlias replaces the stored alias with the same ID.
func (s *YAMLAliasStore) UpdateAlias(ctx context.Context, alias models.MerchantAlias) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := merchant.ValidateAlias(alias); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	found := false
	for i := range existing {
		if existing[i].ID == alias.ID {
			existing[i] = alias
			found = true
		}
	}
	if !found {
		return fmt.Errorf("alias %s: %w", alias.ID, pipelineerror.ErrNotFound)
	}
	return writeYAML(s.path, aliasesFile{Aliases: existing})
}

// DeleteAlias removes the alias with id.
func (s *YAMLAliasStore) DeleteAlias(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	out := make([]models.MerchantAlias, 0, len(existing))
	for _, a := range existing {
		if a.ID != id {
			out = append(out, a)
		}
	}
	if len(out) == len(existing) {
		return fmt.Errorf("alias %s: %w", id, pipelineerror.ErrNotFound)
	}
	if err := writeYAML(s.path, aliasesFile{Aliases: out}); err != nil {
		return err
	}
	s.logger.Info("Alias deleted", logging.Field{Key: logging.FieldAliasID, Value: id})
	return nil
}

// LoadHeuristics reads keyword sets from path. A missing file yields none, so
// the built-in sets apply.
func LoadHeuristics(path string) ([]models.KeywordSet, error) {
	if path == "" {
		return nil, nil
	}
	resolved, err := FindConfigFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	var f heuristicsFile
	if _, err := readYAML(resolved, &f); err != nil {
		return nil, err
	}
	return f.KeywordSets, nil
}
