package credits

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]Request
}

// NewMemoryRequestRepository constructs an in-memory request repository for
// dev mode and tests.
func NewMemoryRequestRepository() RequestRepository {
	return &memoryRequestRepository{requests: make(map[string]Request)}
}

func (r *memoryRequestRepository) Create(_ context.Context, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.requests[req.ID]; exists {
		return fmt.Errorf("credit request %s exists", req.ID)
	}
	r.requests[req.ID] = req
	return nil
}

func (r *memoryRequestRepository) Get(_ context.Context, id string) (Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (r *memoryRequestRepository) MarkDecided(_ context.Context, id, status string, decidedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return false, ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return false, nil
	}
	t := decidedAt.UTC()
	req.Status = status
	req.DecidedAt = &t
	r.requests[id] = req
	return true, nil
}

func (r *memoryRequestRepository) ListPending(_ context.Context) ([]Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Request
	for _, req := range r.requests {
		if req.Status == StatusPending {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRequestRepository) ListByOwner(_ context.Context, userID string) ([]Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Request
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
