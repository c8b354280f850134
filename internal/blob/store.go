package blob

import (
	"context"
	"errors"
)

var (
	// ErrNotFound occurs when no body exists under the requested storage key.
	ErrNotFound = errors.New("blob not found")
)

// Store persists raw document bodies addressed by storage key.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
}
