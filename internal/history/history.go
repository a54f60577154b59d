// Package history keeps the analyses of the running process, newest first.
// Nothing is persisted.
package history

import (
	"sync"

	"github.com/shyim/pagespeed-api/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	entries []*models.AnalysisResult
	limit   int
}

// New creates a Store that keeps at most limit results. A limit of 0 keeps
// everything.
func New(limit int) *Store {
	if limit < 0 {
		limit = 0
	}
	return &Store{limit: limit}
}

// Append puts result at the head of the history. Callers must not modify
// result afterwards.
func (s *Store) Append(result *models.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]*models.AnalysisResult{result}, s.entries...)
	if s.limit > 0 && len(s.entries) > s.limit {
		clear(s.entries[s.limit:])
		s.entries = s.entries[:s.limit]
	}
}

// Clear drops all results and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = nil
	return n
}

// List returns a copy of the history, newest first.
func (s *Store) List() []*models.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.AnalysisResult, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get looks up a result by id.
func (s *Store) Get(id string) (*models.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
