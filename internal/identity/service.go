package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/textscan/textscan/internal/credits"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service manages identity lifecycle. Creating a user also provisions its
// credit account with the configured starting balance.
type Service struct {
	repo           Repository
	ledger         credits.Ledger
	initialCredits int
}

// NewService creates a new identity service.
func NewService(repo Repository, ledger credits.Ledger, initialCredits int) *Service {
	return &Service{repo: repo, ledger: ledger, initialCredits: initialCredits}
}

// Register creates a regular user with the default starting credits.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	return s.create(ctx, creds, RoleUser, s.initialCredits)
}

// adminCredits is the fixed balance given to the bootstrap admin account.
const adminCredits = 1_000_000

// EnsureAdmin creates the admin account at startup when it does not exist.
func (s *Service) EnsureAdmin(ctx context.Context, creds Credentials) error {
	if _, err := s.repo.FindByEmail(ctx, creds.Email); err == nil {
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	_, err := s.create(ctx, creds, RoleAdmin, adminCredits)
	return err
}

func (s *Service) create(ctx context.Context, creds Credentials, role string, startingCredits int) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if !strings.Contains(email, "@") {
		return User{}, errors.New("a valid email is required")
	}
	if len(creds.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	if err := s.ledger.EnsureAccount(ctx, user.ID, role, startingCredits); err != nil {
		return User{}, fmt.Errorf("provision credit account: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}
