package credits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRequestRepository stores credit requests in PostgreSQL.
type PostgresRequestRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRequestRepository builds a repository backed by PostgreSQL.
func NewPostgresRequestRepository(db *pgxpool.Pool) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db}
}

// Create inserts a credit request record.
func (r *PostgresRequestRepository) Create(ctx context.Context, req Request) error {
	reqID, err := uuid.Parse(req.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO credit_requests (id, user_id, amount, status, created_at)
        VALUES ($1, $2, $3, $4, $5)`, reqID, userID, req.Amount, req.Status, req.CreatedAt.UTC())
	return err
}

// Get fetches a credit request by identifier.
func (r *PostgresRequestRepository) Get(ctx context.Context, id string) (Request, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return Request{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, amount, status, created_at, decided_at
        FROM credit_requests WHERE id = $1`, reqID)
	return scanRequest(row)
}

// MarkDecided flips a pending request to a terminal status. The pending
// check and the update are one conditional statement, so two concurrent
// decisions cannot both win.
func (r *PostgresRequestRepository) MarkDecided(ctx context.Context, id, status string, decidedAt time.Time) (bool, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return false, err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE credit_requests SET status = $2, decided_at = $3
        WHERE id = $1 AND status = $4`, reqID, status, decidedAt.UTC(), StatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// ListPending returns all requests awaiting a decision, oldest first.
func (r *PostgresRequestRepository) ListPending(ctx context.Context) ([]Request, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, amount, status, created_at, decided_at
        FROM credit_requests WHERE status = $1 ORDER BY created_at`, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

// ListByOwner returns a user's requests, newest first.
func (r *PostgresRequestRepository) ListByOwner(ctx context.Context, userID string) ([]Request, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, amount, status, created_at, decided_at
        FROM credit_requests WHERE user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (Request, error) {
	var (
		req       Request
		id        uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
		decidedAt *time.Time
	)
	if err := row.Scan(&id, &userID, &req.Amount, &req.Status, &createdAt, &decidedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, fmt.Errorf("credit request: %w", ErrRequestNotFound)
		}
		return Request{}, err
	}
	req.ID = id.String()
	req.UserID = userID.String()
	req.CreatedAt = createdAt.UTC()
	if decidedAt != nil {
		t := decidedAt.UTC()
		req.DecidedAt = &t
	}
	return req, nil
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
