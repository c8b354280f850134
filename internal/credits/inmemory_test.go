package credits

import (
	"context"
	"sync"
	"testing"
)

func TestInMemoryLedger_TryDeduct(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedAccount(l, "user-a", RoleUser, 2)

	ok, err := l.TryDeduct(ctx, "user-a", 1)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if !ok {
		t.Fatal("expected deduction to succeed")
	}

	balance, err := l.Balance(ctx, "user-a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 1 {
		t.Fatalf("expected balance 1, got %d", balance)
	}

	ok, err = l.TryDeduct(ctx, "user-a", 5)
	if err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	if ok {
		t.Fatal("expected deduction beyond balance to fail")
	}
}

func TestInMemoryLedger_ConcurrentDeductNeverOverdraws(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedAccount(l, "user-a", RoleUser, 1)

	const workers = 16
	successes := make(chan bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.TryDeduct(ctx, "user-a", 1)
			if err != nil {
				t.Errorf("deduct failed: %v", err)
				return
			}
			successes <- ok
		}()
	}
	wg.Wait()
	close(successes)

	var won int
	for ok := range successes {
		if ok {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one successful deduction, got %d", won)
	}

	balance, err := l.Balance(ctx, "user-a")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected balance 0, got %d", balance)
	}
}

func TestInMemoryLedger_Grant(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedAccount(l, "user-a", RoleUser, 3)

	if err := l.Grant(ctx, "user-a", 10); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	balance, _ := l.Balance(ctx, "user-a")
	if balance != 13 {
		t.Fatalf("expected balance 13, got %d", balance)
	}

	if err := l.Grant(ctx, "user-a", 0); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := l.Grant(ctx, "nobody", 5); err != ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestInMemoryLedger_ResetAllFiltersByRole(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedAccount(l, "user-a", RoleUser, 0)
	SeedAccount(l, "user-b", RoleUser, 55)
	SeedAccount(l, "root", RoleAdmin, 1_000_000)

	affected, err := l.ResetAll(ctx, 20, RoleUser)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 accounts reset, got %d", affected)
	}

	for _, id := range []string{"user-a", "user-b"} {
		balance, _ := l.Balance(ctx, id)
		if balance != 20 {
			t.Fatalf("expected %s balance 20, got %d", id, balance)
		}
	}

	adminBalance, _ := l.Balance(ctx, "root")
	if adminBalance != 1_000_000 {
		t.Fatalf("admin balance altered by reset: %d", adminBalance)
	}
}

func TestInMemoryLedger_EnsureAccountIsIdempotent(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	if err := l.EnsureAccount(ctx, "user-a", RoleUser, 20); err != nil {
		t.Fatalf("ensure account: %v", err)
	}
	if _, err := l.TryDeduct(ctx, "user-a", 5); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if err := l.EnsureAccount(ctx, "user-a", RoleUser, 20); err != nil {
		t.Fatalf("ensure account again: %v", err)
	}

	balance, _ := l.Balance(ctx, "user-a")
	if balance != 15 {
		t.Fatalf("ensure overwrote existing balance: %d", balance)
	}
}
