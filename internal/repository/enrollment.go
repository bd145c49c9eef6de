package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/gallery"
)

// PgxPool is the subset of pgxpool.Pool the repository uses. pgxmock
// satisfies it for tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Enrollment is one known identity and its reference embedding, one row per
// identity. Enrollments back the recognition gallery when the service runs
// with a database instead of an image directory.
type Enrollment struct {
	ID        uuid.UUID
	Identity  string
	Embedding []float64
}

type EnrollmentRepository struct {
	pool PgxPool
}

func NewEnrollmentRepository(pool PgxPool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Upsert stores enrollment, replacing any existing embedding for the same
// identity. Re-enrolling someone with a better photo is the common case.
func (r *EnrollmentRepository) Upsert(ctx context.Context, enrollment *Enrollment) error {
	query := `
		INSERT INTO enrollments (id, identity, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (identity) DO UPDATE
		SET embedding = EXCLUDED.embedding, updated_at = NOW()
	`

	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}

	var embedding *pgvector.Vector
	if len(enrollment.Embedding) > 0 {
		floats := make([]float32, len(enrollment.Embedding))
		for i, v := range enrollment.Embedding {
			floats[i] = float32(v)
		}
		vec := pgvector.NewVector(floats)
		embedding = &vec
	}

	_, err := r.pool.Exec(ctx, query, enrollment.ID, enrollment.Identity, embedding)
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}

	return nil
}

// ListAll returns every enrollment ordered by identity, the order the
// gallery indexes by.
func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]Enrollment, error) {
	query := `
		SELECT id, identity, embedding
		FROM enrollments
		ORDER BY identity
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []Enrollment
	for rows.Next() {
		var (
			e         Enrollment
			embedding *pgvector.Vector
		)
		if err := rows.Scan(&e.ID, &e.Identity, &embedding); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}

		if embedding != nil && embedding.Slice() != nil {
			e.Embedding = make([]float64, len(embedding.Slice()))
			for i, v := range embedding.Slice() {
				e.Embedding[i] = float64(v)
			}
		}

		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	return enrollments, nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, identity string) error {
	query := `
		DELETE FROM enrollments
		WHERE identity = $1
	`

	result, err := r.pool.Exec(ctx, query, identity)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// GetByIdentity returns one enrollment or domain.ErrRecordNotFound.
func (r *EnrollmentRepository) GetByIdentity(ctx context.Context, identity string) (*Enrollment, error) {
	query := `
		SELECT id, identity, embedding
		FROM enrollments
		WHERE identity = $1
	`

	var (
		e         Enrollment
		embedding *pgvector.Vector
	)
	err := r.pool.QueryRow(ctx, query, identity).Scan(&e.ID, &e.Identity, &embedding)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	if embedding != nil && embedding.Slice() != nil {
		e.Embedding = make([]float64, len(embedding.Slice()))
		for i, v := range embedding.Slice() {
			e.Embedding[i] = float64(v)
		}
	}

	return &e, nil
}

// LoadGallery builds the recognition gallery from the enrollment table.
func (r *EnrollmentRepository) LoadGallery(ctx context.Context) (*gallery.Gallery, error) {
	enrollments, err := r.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrGalleryLoad.WithError(err)
	}

	entries := make([]gallery.Entry, 0, len(enrollments))
	for _, e := range enrollments {
		entries = append(entries, gallery.Entry{
			Identity:  e.Identity,
			Embedding: e.Embedding,
		})
	}

	return gallery.FromEntries(entries), nil
}
