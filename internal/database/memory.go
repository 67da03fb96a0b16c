package database

import (
	"context"
	"sync"

	"github.com/stringanalyzer/stringsvc/internal/models"
)

// MemoryStore implements Store with a map guarded by a RWMutex.
// Contents are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.AnalysisRecord
	order   []string // insertion order of IDs
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*models.AnalysisRecord),
	}
}

// Put stores rec unless its ID is already present.
func (s *MemoryStore) Put(_ context.Context, rec *models.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return models.ErrDuplicateKey
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return nil
}

// Get retrieves a record by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id], nil
}

// GetByValue scans for a record with the given value.
func (s *MemoryStore) GetByValue(_ context.Context, value string) (*models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if rec := s.records[id]; rec.Value == value {
			return rec, nil
		}
	}
	return nil, nil
}

// List returns all records in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]*models.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.AnalysisRecord, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}
	return records, nil
}

// Delete removes a record and reports whether it existed.
func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return false, nil
	}
	delete(s.records, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Exists reports whether a record with the given ID is stored.
func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.records[id]
	return exists, nil
}

// Count returns the number of stored records.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Clear removes every record.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*models.AnalysisRecord)
	s.order = nil
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
