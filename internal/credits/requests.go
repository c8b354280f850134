package credits

import (
	"context"
	"time"
)

// Credit request statuses. Pending requests transition exactly once to
// approved or rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Request is a user's pending ask for additional credits.
type Request struct {
	ID        string
	UserID    string
	Amount    int
	Status    string
	CreatedAt time.Time
	DecidedAt *time.Time
}

// RequestRepository persists credit requests.
type RequestRepository interface {
	Create(ctx context.Context, req Request) error
	Get(ctx context.Context, id string) (Request, error)
	// MarkDecided moves a pending request to a terminal status. It reports
	// false when the request was not pending, without touching it.
	MarkDecided(ctx context.Context, id, status string, decidedAt time.Time) (bool, error)
	ListPending(ctx context.Context) ([]Request, error)
	ListByOwner(ctx context.Context, userID string) ([]Request, error)
}
