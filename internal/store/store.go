// Package store keeps processed lecture results in memory.
package store

import (
	"sync"

	"github.com/studyflow-ai/studyflow/internal/domain"
)

// Store is an append-only in-process result store keyed by an
// auto-incrementing identifier. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	nextID  int
	results map[int]domain.LectureResult
}

// New creates an empty Store. IDs start at 1.
func New() *Store {
	return &Store{nextID: 1, results: make(map[int]domain.LectureResult)}
}

// Insert appends a result and returns its assigned ID.
func (s *Store) Insert(result domain.LectureResult) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.results[id] = result
	return id
}

// Get returns the result with the given ID.
func (s *Store) Get(id int) (domain.LectureResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	return result, ok
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
