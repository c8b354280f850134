package credits

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger keeps per-user balances in the users table.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed credit ledger.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureAccount sets the starting balance for a freshly registered user.
func (l *PostgresLedger) EnsureAccount(ctx context.Context, userID, role string, credits int) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(ctx, `UPDATE users SET credits = $3 WHERE id = $1 AND role = $2`,
		id, role, credits)
	return err
}

// TryDeduct atomically decrements the balance when it covers the amount.
// The check and the decrement are a single conditional UPDATE; the affected
// row count tells whether the deduction happened.
func (l *PostgresLedger) TryDeduct(ctx context.Context, userID string, amount int) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return false, err
	}
	cmd, err := l.db.Exec(ctx, `UPDATE users SET credits = credits - $2
        WHERE id = $1 AND credits >= $2`, id, amount)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// Grant unconditionally increases the balance.
func (l *PostgresLedger) Grant(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	cmd, err := l.db.Exec(ctx, `UPDATE users SET credits = credits + $2 WHERE id = $1`, id, amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("grant to %s: %w", userID, ErrAccountNotFound)
	}
	return nil
}

// Balance returns the current balance for the user.
func (l *PostgresLedger) Balance(ctx context.Context, userID string) (int, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return 0, err
	}
	var balance int
	if err := l.db.QueryRow(ctx, `SELECT credits FROM users WHERE id = $1`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("balance of %s: %w", userID, ErrAccountNotFound)
		}
		return 0, err
	}
	return balance, nil
}

// ResetAll sets every matching user's balance to a fixed value. It runs as a
// single UPDATE with no per-user coordination: against in-flight deductions
// the reset is last-writer-wins, which is acceptable for a fixed target value.
func (l *PostgresLedger) ResetAll(ctx context.Context, credits int, role string) (int64, error) {
	if credits < 0 {
		return 0, ErrInvalidAmount
	}
	cmd, err := l.db.Exec(ctx, `UPDATE users SET credits = $1 WHERE role = $2`, credits, role)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
