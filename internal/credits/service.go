package credits

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/textscan/textscan/internal/notification"
)

// Service manages the credit request queue and applies approved grants to
// the ledger.
type Service struct {
	ledger   Ledger
	requests RequestRepository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds a credit service instance.
func NewService(ledger Ledger, requests RequestRepository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, requests: requests, notifier: notifier, logger: logger}
}

// Submit creates a pending credit request.
func (s *Service) Submit(ctx context.Context, userID string, amount int) (Request, error) {
	if amount < 1 {
		return Request{}, ErrInvalidAmount
	}

	req := Request{
		ID:        uuid.New().String(),
		UserID:    userID,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Decide approves or rejects a pending request. The request is moved to its
// terminal status first, with a conditional update that only wins while the
// request is still pending; the grant is applied afterwards. A request can
// therefore never be granted twice, whatever order concurrent decisions
// arrive in.
func (s *Service) Decide(ctx context.Context, requestID string, approve bool) (Request, error) {
	status := StatusRejected
	if approve {
		status = StatusApproved
	}

	decided, err := s.requests.MarkDecided(ctx, requestID, status, time.Now().UTC())
	if err != nil {
		return Request{}, err
	}
	if !decided {
		// Losing the conditional update means the request either does not
		// exist or already left the pending state.
		if _, err := s.requests.Get(ctx, requestID); err != nil {
			return Request{}, err
		}
		return Request{}, ErrRequestDecided
	}

	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	if approve {
		if err := s.ledger.Grant(ctx, req.UserID, req.Amount); err != nil {
			// The request is already terminal, so a retry cannot double-grant;
			// the failed grant needs operator attention instead.
			s.logger.Error("grant after approval failed", "request_id", req.ID, "user_id", req.UserID, "error", err)
			return Request{}, fmt.Errorf("apply grant for request %s: %w", req.ID, err)
		}
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindCreditDecision,
			Destination: req.UserID,
			Body:        fmt.Sprintf("Your request for %d credits was %s", req.Amount, req.Status),
		})
	}

	return req, nil
}

// Balance returns the user's current credit balance.
func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	return s.ledger.Balance(ctx, userID)
}

// Pending lists all requests awaiting a decision.
func (s *Service) Pending(ctx context.Context) ([]Request, error) {
	return s.requests.ListPending(ctx)
}

// ForUser lists the user's own requests.
func (s *Service) ForUser(ctx context.Context, userID string) ([]Request, error) {
	return s.requests.ListByOwner(ctx, userID)
}
