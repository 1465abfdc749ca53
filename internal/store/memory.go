package store

import (
	"context"
	"sync"

	"fjacquet/spendtag/internal/models"
)

// MemoryStore keeps the snapshot in process. It backs tests and dry runs.
type MemoryStore struct {
	mu  sync.RWMutex
	txs []models.Transaction
}

// NewMemoryStore returns a store seeded with a copy of txs.
func NewMemoryStore(txs []models.Transaction) *MemoryStore {
	return &MemoryStore{txs: models.CloneAll(txs)}
}

// Load returns a copy of the snapshot.
func (s *MemoryStore) Load(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAll(s.txs), nil
}

// Save replaces the snapshot.
func (s *MemoryStore) Save(ctx context.Context, txs []models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = models.CloneAll(txs)
	return nil
}

// Update applies patch to one transaction.
func (s *MemoryStore) Update(ctx context.Context, id string, patch Patch) (models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return models.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, updated, err := updateSnapshot(s.txs, id, patch)
	if err != nil {
		return models.Transaction{}, err
	}
	s.txs = out
	return updated, nil
}

// Delete removes one transaction, and its children when it is a split parent.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := deleteFromSnapshot(s.txs, id)
	if err != nil {
		return err
	}
	s.txs = out
	return nil
}
