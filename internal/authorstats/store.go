// Package authorstats caches per-author citation statistics so repeated
// digest requests do not refetch the same author from OpenAlex. The cache
// is read-through: a miss triggers a fetch and the result is written back.
// Concurrent writes for the same author are allowed; the values are
// idempotent so last-writer-wins is acceptable.
package authorstats

import (
	"context"
	"sync"
)

// Store persists author statistics keyed by the author's display name.
type Store interface {
	// Get returns the cached mean citedness for an author.
	// The second return value is false on a cache miss.
	Get(ctx context.Context, author string) (float64, bool, error)

	// Put records the mean citedness for an author, replacing any
	// previous value.
	Put(ctx context.Context, author string, meanCitedness float64) error

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	stats map[string]float64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stats: make(map[string]float64)}
}

func (s *MemoryStore) Get(_ context.Context, author string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.stats[author]
	return v, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, author string, meanCitedness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[author] = meanCitedness
	return nil
}

func (s *MemoryStore) Close() error { return nil }
