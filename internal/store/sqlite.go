package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

//go:embed migrations/*.sql
var migrations embed.FS

const selectColumns = `id, date, description, merchant, amount, currency, tag, category,
 tag_confidence, auto_tagged, auto_categorized, status, parent_id, split_percentage,
 is_split, source_type, source_file, note`

// SQLiteStore keeps transactions in a SQLite database. Every mutation runs
// inside one SQL transaction.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("error creating directory: %w", err)
	}
	if err := runMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func runMigrations(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (record, error) {
	var r record
	err := row.Scan(&r.ID, &r.Date, &r.Description, &r.Merchant, &r.Amount, &r.Currency,
		&r.Tag, &r.Category, &r.TagConfidence, &r.AutoTagged, &r.AutoCategorized, &r.Status, &r.ParentID,
		&r.SplitPercentage, &r.IsSplit, &r.SourceType, &r.SourceFile, &r.Note)
	return r, err
}

// Load returns every transaction in saved order.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM transactions ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		tx, err := r.toTransaction()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Transaction{}
	}
	return out, nil
}

// Save replaces every row in one SQL transaction.
func (s *SQLiteStore) Save(ctx context.Context, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions(
		 id, seq, date, description, merchant, amount, currency, tag, category,
		 tag_confidence, auto_tagged, auto_categorized, status, parent_id, split_percentage,
		 is_split, source_type, source_file, note)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range txs {
			r := toRecord(t)
			if _, err := stmt.ExecContext(ctx, r.ID, i, r.Date, r.Description, r.Merchant,
				r.Amount, r.Currency, r.Tag, r.Category, r.TagConfidence, r.AutoTagged,
				r.AutoCategorized, r.Status, r.ParentID, r.SplitPercentage, r.IsSplit, r.SourceType,
				r.SourceFile, r.Note); err != nil {
				return fmt.Errorf("insert %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) find(ctx context.Context, tx *sql.Tx, id string) (models.Transaction, error) {
	r, err := scanRecord(tx.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM transactions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", id, pipelineerror.ErrNotFound)
	}
	if err != nil {
		return models.Transaction{}, err
	}
	return r.toTransaction()
}

// Update applies patch to one row.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch Patch) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(&current); err != nil {
			return err
		}
		r := toRecord(current)
		_, err = tx.ExecContext(ctx, `
		UPDATE transactions SET tag = ?, category = ?, tag_confidence = ?, auto_tagged = ?,
		 auto_categorized = ?, status = ?, merchant = ?, note = ?
		WHERE id = ?`,
			r.Tag, r.Category, r.TagConfidence, r.AutoTagged, r.AutoCategorized, r.Status,
			r.Merchant, r.Note, id)
		updated = current
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

// Delete removes one row, and its children when it is a split parent.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.IsChild() {
			var parentSplit bool
			err := tx.QueryRowContext(ctx, `SELECT is_split FROM transactions WHERE id = ?`, current.ParentID).Scan(&parentSplit)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if parentSplit {
				return childDeleteError(current)
			}
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? OR parent_id = ?`, id, id)
		return err
	})
}
