package corpus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists document metadata.
type Repository interface {
	Create(ctx context.Context, doc Document) error
	ListExcept(ctx context.Context, storageKey string) ([]Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
}

// PostgresRepository stores document metadata in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a document record.
func (r *PostgresRepository) Create(ctx context.Context, doc Document) error {
	docID, err := uuid.Parse(doc.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(doc.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO documents (id, owner_id, storage_key, display_name, created_at)
        VALUES ($1, $2, $3, $4, $5)`, docID, ownerID, doc.StorageKey, doc.DisplayName, doc.CreatedAt.UTC())
	return err
}

// ListExcept returns every document's metadata except the one under the
// given storage key. Order carries no meaning for matching.
func (r *PostgresRepository) ListExcept(ctx context.Context, storageKey string) ([]Document, error) {
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, storage_key, display_name, created_at
        FROM documents WHERE storage_key <> $1`, storageKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListByOwner returns the owner's documents, newest first, via the owner index.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, storage_key, display_name, created_at
        FROM documents WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		var (
			doc       Document
			id        uuid.UUID
			ownerID   uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &ownerID, &doc.StorageKey, &doc.DisplayName, &createdAt); err != nil {
			return nil, err
		}
		doc.ID = id.String()
		doc.OwnerID = ownerID.String()
		doc.CreatedAt = createdAt.UTC()
		out = append(out, doc)
	}
	return out, rows.Err()
}
