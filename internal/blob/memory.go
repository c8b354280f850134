package blob

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	bodies map[string][]byte
}

// NewMemory constructs a concurrency-safe in-memory store for dev mode and tests.
func NewMemory() Store {
	return &memoryStore{bodies: make(map[string][]byte)}
}

func (s *memoryStore) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(body))
	copy(buf, body)
	s.bodies[key] = buf
	return nil
}

func (s *memoryStore) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.bodies[key]
	if !ok {
		return nil, ErrNotFound
	}
	return body, nil
}
