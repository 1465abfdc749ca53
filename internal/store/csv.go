package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"fjacquet/spendtag/internal/models"
)

// CSVStore keeps the snapshot in a single CSV file. Saves write a temp file and
// rename it over the original.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore returns a store backed by path. The file is created on first save.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads every row. A missing or empty file is an empty snapshot.
func (s *CSVStore) Load(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *CSVStore) read() ([]models.Transaction, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Transaction{}, nil
	}

	var rows []record
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file %s: %w", s.path, err)
	}
	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.path, i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Save writes the whole snapshot.
func (s *CSVStore) Save(ctx context.Context, txs []models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(txs)
}

func (s *CSVStore) write(txs []models.Transaction) error {
	rows := make([]record, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, toRecord(tx))
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Update applies patch to one transaction and rewrites the file.
func (s *CSVStore) Update(ctx context.Context, id string, patch Patch) (models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return models.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.read()
	if err != nil {
		return models.Transaction{}, err
	}
	out, updated, err := updateSnapshot(txs, id, patch)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := s.write(out); err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

// Delete removes one transaction, and its children when it is a split parent.
func (s *CSVStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.read()
	if err != nil {
		return err
	}
	out, err := deleteFromSnapshot(txs, id)
	if err != nil {
		return err
	}
	return s.write(out)
}
