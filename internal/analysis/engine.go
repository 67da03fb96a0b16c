package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stringanalyzer/stringsvc/internal/database"
	"github.com/stringanalyzer/stringsvc/internal/models"
	"github.com/stringanalyzer/stringsvc/internal/nlquery"
)

// Engine ties the analyzer, filter and translator to a record store.
type Engine struct {
	analyzer *Analyzer
	store    database.Store
}

// NewEngine creates a new engine over store.
func NewEngine(analyzer *Analyzer, store database.Store) *Engine {
	if analyzer == nil {
		analyzer = NewAnalyzer(nil)
	}
	return &Engine{
		analyzer: analyzer,
		store:    store,
	}
}

// Create analyzes raw and stores the result.
// raw must be a string; anything else is models.ErrInvalidInput.
func (e *Engine) Create(ctx context.Context, raw interface{}) (*models.AnalysisRecord, error) {
	rec, err := e.analyzer.AnalyzeValue(raw)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.GetByValue(ctx, rec.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing string: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateKey, existing.ID)
	}

	if err := e.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store string: %w", err)
	}

	log.Debug().
		Str("id", rec.ID).
		Int("length", rec.Properties.Length).
		Bool("palindrome", rec.Properties.IsPalindrome).
		Msg("String analyzed")

	return rec, nil
}

// Get looks up the record for value.
func (e *Engine) Get(ctx context.Context, value string) (*models.AnalysisRecord, error) {
	rec, err := e.store.Get(ctx, Fingerprint(value))
	if err != nil {
		return nil, fmt.Errorf("failed to get string: %w", err)
	}
	if rec == nil {
		return nil, models.ErrNotFound
	}
	return rec, nil
}

// List returns the stored records matching criteria.
func (e *Engine) List(ctx context.Context, criteria models.FilterCriteria) ([]*models.AnalysisRecord, error) {
	// Validate before touching the store so bad filters fail on an empty store too.
	if _, err := ParseCriteria(criteria); err != nil {
		return nil, err
	}

	all, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list strings: %w", err)
	}
	return Filter(all, criteria)
}

// ListNatural translates query into criteria and lists the matching records.
func (e *Engine) ListNatural(ctx context.Context, query string) (*models.NaturalLanguageResult, error) {
	criteria, err := nlquery.Translate(query)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("query", query).Interface("criteria", criteria).Msg("Natural language query interpreted")

	records, err := e.List(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return &models.NaturalLanguageResult{
		Query:    query,
		Criteria: criteria,
		Records:  records,
	}, nil
}

// Delete removes the record for value.
func (e *Engine) Delete(ctx context.Context, value string) error {
	id := Fingerprint(value)

	exists, err := e.store.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check string: %w", err)
	}
	if !exists {
		return models.ErrNotFound
	}

	deleted, err := e.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete string: %w", err)
	}
	if !deleted {
		// Removed concurrently between the check and the delete.
		return models.ErrNotFound
	}

	log.Debug().Str("id", id).Msg("String deleted")
	return nil
}

// Count returns the number of stored records.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// Ping checks that the backing store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// Reset removes every stored record.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	log.Info().Msg("Store cleared")
	return nil
}
