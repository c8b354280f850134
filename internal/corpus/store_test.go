package corpus

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/textscan/textscan/internal/blob"
)

func newTestStore() *Store {
	return NewStore(NewMemoryRepository(), blob.NewMemory())
}

func TestPutAndReadRoundTrip(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	owner := uuid.NewString()

	doc, err := store.Put(ctx, owner, "essay.txt", "the quick brown fox")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if doc.OwnerID != owner || doc.DisplayName != "essay.txt" {
		t.Fatalf("unexpected metadata: %+v", doc)
	}

	body, err := store.Read(ctx, doc.StorageKey)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if body != "the quick brown fox" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestPutGeneratesDistinctKeysForSameName(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	owner := uuid.NewString()

	first, err := store.Put(ctx, owner, "same.txt", "one")
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	second, err := store.Put(ctx, owner, "same.txt", "two")
	if err != nil {
		t.Fatalf("second put: %v", err)
	}

	if first.StorageKey == second.StorageKey {
		t.Fatalf("storage keys collided: %s", first.StorageKey)
	}
}

func TestListExceptExcludesGivenKey(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	owner := uuid.NewString()

	a, _ := store.Put(ctx, owner, "a.txt", "aaa")
	b, _ := store.Put(ctx, owner, "b.txt", "bbb")

	others, err := store.ListExcept(ctx, a.StorageKey)
	if err != nil {
		t.Fatalf("list except: %v", err)
	}
	if len(others) != 1 || others[0].StorageKey != b.StorageKey {
		t.Fatalf("unexpected listing: %+v", others)
	}
}

func TestListByOwner(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	owner := uuid.NewString()
	stranger := uuid.NewString()

	mine, _ := store.Put(ctx, owner, "mine.txt", "mine")
	store.Put(ctx, stranger, "theirs.txt", "theirs")

	docs, err := store.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != mine.ID {
		t.Fatalf("unexpected owner listing: %+v", docs)
	}
}

func TestReadMissingKey(t *testing.T) {
	store := newTestStore()
	if _, err := store.Read(context.Background(), "nope"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected blob.ErrNotFound, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.txt", "report.txt"},
		{"../../etc/passwd", "etc-passwd"},
		{"my essay (final).txt", "my-essay--final-.txt"},
		{"", "document"},
		{"...", "document"},
	}
	for _, c := range cases {
		if got := sanitizeName(c.in); got != c.want {
			t.Fatalf("sanitizeName(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
