package credits

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientCredits occurs when a deduction would drive a balance
	// below zero.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrAccountNotFound indicates no credit account exists for the user.
	ErrAccountNotFound = errors.New("credit account not found")

	// ErrInvalidAmount indicates a non-positive credit amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrRequestDecided indicates the credit request already left the pending
	// state; terminal decisions are final and are never re-applied.
	ErrRequestDecided = errors.New("credit request already decided")

	// ErrRequestNotFound indicates no credit request exists with the given id.
	ErrRequestNotFound = errors.New("credit request not found")
)

// Roles used to scope bulk ledger operations.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Ledger defines the contract implemented by credit backends (e.g. Postgres).
// TryDeduct must be atomic per user: two concurrent calls may not both
// succeed when only one call's worth of credit remains.
type Ledger interface {
	EnsureAccount(ctx context.Context, userID, role string, credits int) error
	TryDeduct(ctx context.Context, userID string, amount int) (bool, error)
	Grant(ctx context.Context, userID string, amount int) error
	Balance(ctx context.Context, userID string) (int, error)
	ResetAll(ctx context.Context, credits int, role string) (int64, error)
}
