package corpus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/textscan/textscan/internal/blob"
)

// Store combines metadata persistence with the blob store holding document
// bodies. It owns storage key generation, so callers cannot produce
// colliding keys.
type Store struct {
	repo  Repository
	blobs blob.Store
}

// NewStore builds a corpus store over the given backends.
func NewStore(repo Repository, blobs blob.Store) *Store {
	return &Store{repo: repo, blobs: blobs}
}

// Put persists a new document: body first, metadata second. The storage key
// is a timestamp plus a random suffix, so two submissions in the same tick
// still get distinct keys.
func (s *Store) Put(ctx context.Context, ownerID, displayName, text string) (Document, error) {
	now := time.Now().UTC()
	key := storageKey(now, displayName)

	if err := s.blobs.Put(ctx, key, []byte(text)); err != nil {
		return Document{}, fmt.Errorf("persist document body: %w", err)
	}

	doc := Document{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		StorageKey:  key,
		DisplayName: displayName,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("persist document metadata: %w", err)
	}
	return doc, nil
}

// Read returns the body stored under the key.
func (s *Store) Read(ctx context.Context, storageKey string) (string, error) {
	body, err := s.blobs.Read(ctx, storageKey)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListExcept returns all documents' metadata except the one under the key.
func (s *Store) ListExcept(ctx context.Context, storageKey string) ([]Document, error) {
	return s.repo.ListExcept(ctx, storageKey)
}

// ListByOwner returns the owner's documents.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func storageKey(ts time.Time, displayName string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d_%s_%s", ts.UnixNano(), suffix, sanitizeName(displayName))
}

// sanitizeName keeps the supplied file name readable in the key while
// stripping anything that could escape the blob root or break a flat
// filesystem layout.
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	cleaned = strings.Trim(cleaned, ".-")
	if cleaned == "" {
		cleaned = "document"
	}
	const maxNameLen = 120
	if len(cleaned) > maxNameLen {
		cleaned = cleaned[:maxNameLen]
	}
	return cleaned
}
