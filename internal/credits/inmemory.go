package credits

import (
	"context"
	"sync"
)

type account struct {
	role    string
	balance int
}

type inMemoryLedger struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

// NewInMemory creates a concurrency-safe in-memory ledger used in dev mode
// and unit tests.
func NewInMemory() Ledger {
	return &inMemoryLedger{accounts: make(map[string]*account)}
}

func (l *inMemoryLedger) EnsureAccount(_ context.Context, userID, role string, credits int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.accounts[userID]; !exists {
		l.accounts[userID] = &account{role: role, balance: credits}
	}
	return nil
}

func (l *inMemoryLedger) TryDeduct(_ context.Context, userID string, amount int) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return false, ErrAccountNotFound
	}
	if acc.balance < amount {
		return false, nil
	}
	acc.balance -= amount
	return true, nil
}

func (l *inMemoryLedger) Grant(_ context.Context, userID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return ErrAccountNotFound
	}
	acc.balance += amount
	return nil
}

func (l *inMemoryLedger) Balance(_ context.Context, userID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acc, ok := l.accounts[userID]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return acc.balance, nil
}

func (l *inMemoryLedger) ResetAll(_ context.Context, credits int, role string) (int64, error) {
	if credits < 0 {
		return 0, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var affected int64
	for _, acc := range l.accounts {
		if acc.role == role {
			acc.balance = credits
			affected++
		}
	}
	return affected, nil
}
