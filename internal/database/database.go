// Package database provides the record store with support for multiple backends.
package database

import (
	"context"
	"fmt"

	"github.com/stringanalyzer/stringsvc/internal/config"
	"github.com/stringanalyzer/stringsvc/internal/models"
)

// Store defines the interface for analysis record storage.
// Records are keyed by their fingerprint.
type Store interface {
	// Put inserts a record. It returns models.ErrDuplicateKey if the ID is taken.
	Put(ctx context.Context, rec *models.AnalysisRecord) error
	// Get returns nil, nil when no record has the given ID.
	Get(ctx context.Context, id string) (*models.AnalysisRecord, error)
	GetByValue(ctx context.Context, value string) (*models.AnalysisRecord, error)
	// List returns every record in insertion order.
	List(ctx context.Context) ([]*models.AnalysisRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		store, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
