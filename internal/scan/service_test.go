package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/textscan/textscan/internal/blob"
	"github.com/textscan/textscan/internal/corpus"
	"github.com/textscan/textscan/internal/credits"
	"github.com/textscan/textscan/internal/logging"
)

// faultyBlob wraps a blob store and fails selected operations.
type faultyBlob struct {
	inner     blob.Store
	failPut   bool
	failReads map[string]bool
}

func (f *faultyBlob) Put(ctx context.Context, key string, body []byte) error {
	if f.failPut {
		return fmt.Errorf("disk full")
	}
	return f.inner.Put(ctx, key, body)
}

func (f *faultyBlob) Read(ctx context.Context, key string) ([]byte, error) {
	if f.failReads[key] {
		return nil, fmt.Errorf("permission denied")
	}
	return f.inner.Read(ctx, key)
}

type fixture struct {
	svc    *Service
	ledger credits.Ledger
	store  *corpus.Store
	blobs  *faultyBlob
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	blobs := &faultyBlob{inner: blob.NewMemory(), failReads: map[string]bool{}}
	store := corpus.NewStore(corpus.NewMemoryRepository(), blobs)
	ledger := credits.NewInMemory()
	svc := NewService(ledger, store, nil, logging.Discard(), 0.6, 4)
	return &fixture{svc: svc, ledger: ledger, store: store, blobs: blobs}
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.NewString()
	credits.SeedAccount(f.ledger, userID, credits.RoleUser, 5)

	cases := []SubmitInput{
		{UserID: userID, FileName: "", Text: "hello"},
		{UserID: userID, FileName: "a.txt", Text: ""},
		{UserID: userID, FileName: "   ", Text: "hello"},
	}
	for _, input := range cases {
		if _, err := f.svc.Submit(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}

	balance, _ := f.ledger.Balance(ctx, userID)
	if balance != 5 {
		t.Fatalf("validation failure deducted credits: %d", balance)
	}
}

func TestSubmitIdenticalDocumentScoresFullMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := uuid.NewString()
	copier := uuid.NewString()
	credits.SeedAccount(f.ledger, author, credits.RoleUser, 5)
	credits.SeedAccount(f.ledger, copier, credits.RoleUser, 5)

	const text = "to be or not to be, that is the question"

	if _, err := f.svc.Submit(ctx, SubmitInput{UserID: author, FileName: "original.txt", Text: text}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	result, err := f.svc.Submit(ctx, SubmitInput{UserID: copier, FileName: "copy.txt", Text: text})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	if result.Matches[0].FileName != "original.txt" || result.Matches[0].Percent != 100 {
		t.Fatalf("unexpected match: %+v", result.Matches[0])
	}
	if result.CreditsLeft != 4 {
		t.Fatalf("expected 4 credits left, got %d", result.CreditsLeft)
	}
}

func TestThresholdIsStrictlyGreaterThan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.NewString()
	credits.SeedAccount(f.ledger, userID, credits.RoleUser, 10)

	// Against "aaaaaaaaaa": distance 4 scores exactly 0.6, distance 3 scores 0.7.
	if _, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "exact-threshold.txt", Text: "aaaaaabbbb"}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "above-threshold.txt", Text: "aaaaaaabbb"}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	result, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "probe.txt", Text: "aaaaaaaaaa"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", result.Matches)
	}
	if result.Matches[0].FileName != "above-threshold.txt" {
		t.Fatalf("expected above-threshold.txt, got %s", result.Matches[0].FileName)
	}
	if result.Matches[0].Percent != 70 {
		t.Fatalf("expected 70.00, got %.2f", result.Matches[0].Percent)
	}
}

func TestConcurrentSubmitsWithOneCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.NewString()
	credits.SeedAccount(f.ledger, userID, credits.RoleUser, 1)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(ctx, SubmitInput{
				UserID:   userID,
				FileName: fmt.Sprintf("race-%d.txt", i),
				Text:     fmt.Sprintf("submission number %d", i),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, credits.ErrInsufficientCredits):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one success and one rejection, got %d/%d", succeeded, rejected)
	}

	balance, _ := f.ledger.Balance(ctx, userID)
	if balance != 0 {
		t.Fatalf("expected balance 0, got %d", balance)
	}
}

func TestUnreadableDocumentIsSkippedNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.NewString()
	credits.SeedAccount(f.ledger, userID, credits.RoleUser, 10)

	const text = "identical corpus body for both stored documents"

	if _, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "readable.txt", Text: text}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "broken.txt", Text: text}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	// Break the second document's body.
	docs, _ := f.store.ListByOwner(ctx, userID)
	for _, doc := range docs {
		if doc.DisplayName == "broken.txt" {
			f.blobs.failReads[doc.StorageKey] = true
		}
	}

	result, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "probe.txt", Text: text})
	if err != nil {
		t.Fatalf("scan should survive a read failure: %v", err)
	}

	if len(result.Matches) != 1 {
		t.Fatalf("expected the unreadable document to be skipped, got %+v", result.Matches)
	}
	if result.Matches[0].FileName != "readable.txt" {
		t.Fatalf("unexpected match: %+v", result.Matches[0])
	}

	docs, _ = f.store.ListByOwner(ctx, userID)
	if len(docs) != 3 {
		t.Fatalf("probe document not persisted, have %d documents", len(docs))
	}
}

func TestStorageFailureAfterDeductionDoesNotRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.NewString()
	credits.SeedAccount(f.ledger, userID, credits.RoleUser, 3)

	f.blobs.failPut = true

	_, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "doomed.txt", Text: "some text"})
	if err == nil {
		t.Fatal("expected storage failure")
	}
	if errors.Is(err, credits.ErrInsufficientCredits) || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("storage failure misclassified: %v", err)
	}

	balance, _ := f.ledger.Balance(ctx, userID)
	if balance != 2 {
		t.Fatalf("expected the deducted credit to stay deducted (balance 2), got %d", balance)
	}
}

func TestMatchesFollowCorpusIterationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.NewString()
	credits.SeedAccount(f.ledger, userID, credits.RoleUser, 10)

	const text = "a stable body shared by every document in this test"
	for i := 0; i < 4; i++ {
		if _, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: fmt.Sprintf("doc-%d.txt", i), Text: text}); err != nil {
			t.Fatalf("seed submit %d: %v", i, err)
		}
	}

	result, err := f.svc.Submit(ctx, SubmitInput{UserID: userID, FileName: "probe.txt", Text: text})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(result.Matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(result.Matches))
	}

	others, _ := f.store.ListExcept(ctx, "probe-is-not-a-key")
	var wantOrder []string
	for _, doc := range others {
		if doc.DisplayName != "probe.txt" {
			wantOrder = append(wantOrder, doc.DisplayName)
		}
	}
	for i, m := range result.Matches {
		if m.FileName != wantOrder[i] {
			t.Fatalf("match order diverged from corpus order: got %v", result.Matches)
		}
	}
}
