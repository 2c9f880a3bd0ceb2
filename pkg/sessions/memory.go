package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local Store backed by a TTL cache. Expired sessions
// are evicted by a background janitor, so the session map never grows without
// bound. A TTL of zero disables expiry. Safe for concurrent use.
type MemoryStore[S any] struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemoryStore creates a MemoryStore whose sessions expire after ttl.
func NewMemoryStore[S any](ttl time.Duration) *MemoryStore[S] {
	if ttl <= 0 {
		return &MemoryStore[S]{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &MemoryStore[S]{cache: cache.New(ttl, ttl/2)}
}

// Create stores the state under a fresh uuid and returns it.
func (s *MemoryStore[S]) Create(_ context.Context, state S) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(id, data, cache.DefaultExpiration)
	return id, nil
}

// Get returns the last-persisted state for the id.
func (s *MemoryStore[S]) Get(_ context.Context, id string) (S, error) {
	var state S

	s.mu.Lock()
	raw, ok := s.cache.Get(id)
	s.mu.Unlock()
	if !ok {
		return state, ErrNotFound
	}

	if err := json.Unmarshal(raw.([]byte), &state); err != nil {
		return state, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, nil
}

// Update overwrites the state for an existing id, refreshing its TTL.
func (s *MemoryStore[S]) Update(_ context.Context, id string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache.Get(id); !ok {
		return ErrNotFound
	}
	s.cache.Set(id, data, cache.DefaultExpiration)
	return nil
}

// Delete removes the session if present.
func (s *MemoryStore[S]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(id)
	return nil
}
