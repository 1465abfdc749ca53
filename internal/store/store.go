// Package store persists transactions, rules, merchant aliases and keyword
// heuristics. Every Save replaces the whole snapshot atomically so a crash never
// leaves a half-applied mutation behind.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// TransactionStore loads and saves the full transaction snapshot.
type TransactionStore interface {
	Load(ctx context.Context) ([]models.Transaction, error)
	Save(ctx context.Context, txs []models.Transaction) error
	Update(ctx context.Context, id string, patch Patch) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// RuleStore keeps tagging rules in insertion order.
type RuleStore interface {
	LoadRules(ctx context.Context) ([]models.Rule, error)
	AddRule(ctx context.Context, rule models.Rule) error
	DeleteRule(ctx context.Context, id string) error
}

// AliasStore keeps merchant aliases.
type AliasStore interface {
	LoadAliases(ctx context.Context) ([]models.MerchantAlias, error)
	AddAlias(ctx context.Context, alias models.MerchantAlias) (models.MerchantAlias, error)
	UpdateAlias(ctx context.Context, alias models.MerchantAlias) error
	DeleteAlias(ctx context.Context, id string) error
}

// Patch is a partial user edit of one transaction. Nil fields are left alone.
type Patch struct {
	Tag      *models.Tag
	Category *models.Category
	Status   *models.ReimbursementStatus
	Merchant *string
	Note     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Tag == nil && p.Category == nil && p.Status == nil && p.Merchant == nil && p.Note == nil
}

// Apply edits tx in place. A tag is recorded as a user decision.
func (p Patch) Apply(tx *models.Transaction) error {
	if p.Tag != nil {
		if err := tx.ConfirmTag(*p.Tag); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if !p.Category.IsValid() {
			return pipelineerror.NewValidationError("transaction", tx.ID, nil, "unknown category %q", *p.Category)
		}
		tx.Category = *p.Category
		tx.AutoCategorized = false
	}
	if p.Status != nil {
		if err := tx.SetStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Merchant != nil {
		tx.Merchant = *p.Merchant
	}
	if p.Note != nil {
		tx.Note = *p.Note
	}
	return nil
}

// updateSnapshot applies patch to the transaction with id and returns the new
// snapshot plus the updated transaction. txs is not modified.
func updateSnapshot(txs []models.Transaction, id string, patch Patch) ([]models.Transaction, models.Transaction, error) {
	i := models.FindByID(txs, id)
	if i < 0 {
		return nil, models.Transaction{}, fmt.Errorf("transaction %s: %w", id, pipelineerror.ErrNotFound)
	}
	out := models.CloneAll(txs)
	if err := patch.Apply(&out[i]); err != nil {
		return nil, models.Transaction{}, err
	}
	return out, out[i], nil
}

// deleteFromSnapshot removes id, and its children when it is a split parent.
// Children of a split parent cannot be deleted on their own; unsplit instead.
func deleteFromSnapshot(txs []models.Transaction, id string) ([]models.Transaction, error) {
	i := models.FindByID(txs, id)
	if i < 0 {
		return nil, fmt.Errorf("transaction %s: %w", id, pipelineerror.ErrNotFound)
	}
	if tx := txs[i]; tx.IsChild() {
		if p := models.FindByID(txs, tx.ParentID); p >= 0 && txs[p].IsSplit {
			return nil, childDeleteError(tx)
		}
	}
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == id || tx.ParentID == id {
			continue
		}
		out = append(out, tx.Clone())
	}
	return out, nil
}

func childDeleteError(tx models.Transaction) error {
	return pipelineerror.NewValidationError("transaction", tx.ID, pipelineerror.ErrSplitChild,
		"split child of %s cannot be deleted on its own", tx.ParentID)
}

// New returns the transaction store for backend.
func New(ctx context.Context, backend, csvPath, sqlitePath string) (TransactionStore, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(nil), nil
	case BackendCSV:
		return NewCSVStore(csvPath), nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(ctx, sqlitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// FindConfigFile looks for filename as given, then under ./config, then under
// ~/.spendtag. It returns os.ErrNotExist when no candidate exists.
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", os.ErrNotExist
		}
		return filename, nil
	}

	locations := []string{filename, filepath.Join("config", filename)}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".spendtag", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// writeFileAtomic writes data to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}
