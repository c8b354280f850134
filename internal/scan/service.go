package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/textscan/textscan/internal/corpus"
	"github.com/textscan/textscan/internal/credits"
	"github.com/textscan/textscan/internal/notification"
	"github.com/textscan/textscan/internal/similarity"
)

// ErrInvalidInput indicates a submission missing its text or file name.
var ErrInvalidInput = errors.New("file name and text are required")

// Service coordinates a similarity scan: credit deduction, corpus insertion,
// corpus-wide comparison and match assembly.
type Service struct {
	ledger    credits.Ledger
	store     *corpus.Store
	notifier  notification.Notifier
	logger    *slog.Logger
	threshold float64
	workers   int
}

// NewService builds a scan service. threshold is the exclusive lower bound a
// score must beat to count as a match; workers bounds the comparison fan-out.
func NewService(ledger credits.Ledger, store *corpus.Store, notifier notification.Notifier, logger *slog.Logger, threshold float64, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		ledger:    ledger,
		store:     store,
		notifier:  notifier,
		logger:    logger,
		threshold: threshold,
		workers:   workers,
	}
}

// SubmitInput captures a scan submission.
type SubmitInput struct {
	UserID   string
	FileName string
	Text     string
}

// Match reports one stored document scoring above the threshold.
type Match struct {
	FileName string  `json:"file_name"`
	Percent  float64 `json:"similarity_percent"`
}

// SubmitResult is the outcome of a completed scan.
type SubmitResult struct {
	DocumentID  string  `json:"document_id"`
	CreditsLeft int     `json:"credits_left"`
	Matches     []Match `json:"matches"`
}

// Submit runs a scan. One credit is deducted before the document is
// persisted; a storage failure after the deduction does not refund it (the
// ledger and the corpus are not updated as one unit, and the historical
// behavior is to leave the debit in place). Per-document read failures
// during comparison are logged and skipped, never failing the scan.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.Text) == "" {
		return SubmitResult{}, ErrInvalidInput
	}

	ok, err := s.ledger.TryDeduct(ctx, input.UserID, 1)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("deduct credit: %w", err)
	}
	if !ok {
		return SubmitResult{}, credits.ErrInsufficientCredits
	}

	doc, err := s.store.Put(ctx, input.UserID, input.FileName, input.Text)
	if err != nil {
		return SubmitResult{}, err
	}

	others, err := s.store.ListExcept(ctx, doc.StorageKey)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("list corpus: %w", err)
	}

	matches, err := s.compare(ctx, input.Text, others)
	if err != nil {
		return SubmitResult{}, err
	}

	balance, err := s.ledger.Balance(ctx, input.UserID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("read balance: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindScanCompleted,
			Destination: input.UserID,
			Body:        fmt.Sprintf("Scan of %s found %d matches", doc.DisplayName, len(matches)),
		})
	}

	return SubmitResult{DocumentID: doc.ID, CreditsLeft: balance, Matches: matches}, nil
}

// compare scores the submission against every existing document with a
// bounded worker pool. Results land in index-stable slots so the returned
// order is the corpus iteration order regardless of scheduling.
func (s *Service) compare(ctx context.Context, text string, others []corpus.Document) ([]Match, error) {
	slots := make([]*Match, len(others))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)

	for i, other := range others {
		i, other := i, other
		eg.Go(func() error {
			body, err := s.store.Read(gctx, other.StorageKey)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("skipping unreadable document",
					"storage_key", other.StorageKey, "file_name", other.DisplayName, "error", err)
				return nil
			}
			score := similarity.Score(text, body)
			if score > s.threshold {
				slots[i] = &Match{FileName: other.DisplayName, Percent: similarity.Percent(score)}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(others))
	for _, m := range slots {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	return matches, nil
}
