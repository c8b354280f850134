package corpus

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu        sync.RWMutex
	documents map[string]Document
}

// NewMemoryRepository constructs an in-memory repository for dev mode and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{documents: make(map[string]Document)}
}

func (r *memoryRepository) Create(_ context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.documents[doc.StorageKey]; exists {
		return fmt.Errorf("document under key %s exists", doc.StorageKey)
	}
	r.documents[doc.StorageKey] = doc
	return nil
}

func (r *memoryRepository) ListExcept(_ context.Context, storageKey string) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, 0, len(r.documents))
	for key, doc := range r.documents {
		if key != storageKey {
			out = append(out, doc)
		}
	}
	// Stable order keeps tests deterministic; callers don't rely on it.
	sort.Slice(out, func(i, j int) bool { return out[i].StorageKey < out[j].StorageKey })
	return out, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Document
	for _, doc := range r.documents {
		if doc.OwnerID == ownerID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
