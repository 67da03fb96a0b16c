// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/stringanalyzer/stringsvc/internal/models"
)

// MemoryPath opens SQLite without a backing file.
const MemoryPath = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store. An empty path or MemoryPath
// keeps the database in memory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	inMemory := path == "" || path == MemoryPath

	dsn := MemoryPath
	if !inMemory {
		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if inMemory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS strings (
			id TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			length INTEGER NOT NULL,
			is_palindrome BOOLEAN NOT NULL,
			unique_characters INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			character_frequency_map TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_strings_value ON strings(value)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const selectColumns = `SELECT id, value, length, is_palindrome, unique_characters, word_count,
	character_frequency_map, created_at FROM strings`

// Put stores a record.
func (s *SQLiteStore) Put(ctx context.Context, rec *models.AnalysisRecord) error {
	freqJSON, err := json.Marshal(rec.Properties.CharacterFrequencyMap)
	if err != nil {
		return fmt.Errorf("failed to encode frequency map: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO strings (id, value, length, is_palindrome, unique_characters, word_count,
			character_frequency_map, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Value, rec.Properties.Length, rec.Properties.IsPalindrome,
		rec.Properties.UniqueCharacters, rec.Properties.WordCount,
		string(freqJSON), rec.CreatedAt,
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return models.ErrDuplicateKey
	}
	return err
}

// Get retrieves a record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	return s.queryOne(ctx, selectColumns+` WHERE id = ?`, id)
}

// GetByValue retrieves a record by its original value.
func (s *SQLiteStore) GetByValue(ctx context.Context, value string) (*models.AnalysisRecord, error) {
	return s.queryOne(ctx, selectColumns+` WHERE value = ?`, value)
}

// List returns all records in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]*models.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.AnalysisRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a record and reports whether it existed.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM strings WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether a record with the given ID is stored.
func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM strings WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM strings`).Scan(&n)
	return n, err
}

// Clear removes every record.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM strings`)
	return err
}

func (s *SQLiteStore) queryOne(ctx context.Context, query string, arg string) (*models.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, query, arg)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	var freqJSON string
	if err := row.Scan(&rec.ID, &rec.Value, &rec.Properties.Length, &rec.Properties.IsPalindrome,
		&rec.Properties.UniqueCharacters, &rec.Properties.WordCount, &freqJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(freqJSON), &rec.Properties.CharacterFrequencyMap); err != nil {
		return nil, fmt.Errorf("failed to decode frequency map for %s: %w", rec.ID, err)
	}
	rec.Properties.SHA256Hash = rec.ID
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
