package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

func vectorOf(values ...float32) *pgvector.Vector {
	vec := pgvector.NewVector(values)
	return &vec
}

func TestEnrollmentRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO enrollments`).
		WithArgs(pgxmock.AnyArg(), "ALICE", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	enrollment := &Enrollment{Identity: "ALICE", Embedding: []float64{0.1, 0.2, 0.3}}
	require.NoError(t, NewEnrollmentRepository(mock).Upsert(context.Background(), enrollment))

	assert.NotEqual(t, uuid.Nil, enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Upsert_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO enrollments`).
		WithArgs(pgxmock.AnyArg(), "ALICE", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	err = NewEnrollmentRepository(mock).Upsert(context.Background(), &Enrollment{
		Identity:  "ALICE",
		Embedding: []float64{0.1},
	})
	assert.ErrorContains(t, err, "upsert enrollment")
}

func TestEnrollmentRepository_ListAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "identity", "embedding"}).
		AddRow(uuid.New(), "alice", vectorOf(0.1, 0.2)).
		AddRow(uuid.New(), "bob", vectorOf(0.3, 0.4))

	mock.ExpectQuery(`SELECT id, identity, embedding`).
		WillReturnRows(rows)

	enrollments, err := NewEnrollmentRepository(mock).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, enrollments, 2)

	assert.Equal(t, "alice", enrollments[0].Identity)
	assert.InDeltaSlice(t, []float64{0.1, 0.2}, enrollments[0].Embedding, 1e-6)
	assert.Equal(t, "bob", enrollments[1].Identity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Delete(t *testing.T) {
	t.Run("deletes existing enrollment", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM enrollments`).
			WithArgs("ALICE").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, NewEnrollmentRepository(mock).Delete(context.Background(), "ALICE"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown identity", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM enrollments`).
			WithArgs("NOBODY").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err = NewEnrollmentRepository(mock).Delete(context.Background(), "NOBODY")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestEnrollmentRepository_GetByIdentity_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, identity, embedding`).
		WithArgs("NOBODY").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewEnrollmentRepository(mock).GetByIdentity(context.Background(), "NOBODY")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestEnrollmentRepository_LoadGallery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "identity", "embedding"}).
		AddRow(uuid.New(), "alice", vectorOf(0.1, 0.2))

	mock.ExpectQuery(`SELECT id, identity, embedding`).
		WillReturnRows(rows)

	g, err := NewEnrollmentRepository(mock).LoadGallery(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, g.Size())
	assert.Equal(t, []string{"alice"}, g.Identities())
}

func TestEnrollmentRepository_LoadGallery_WrapsGalleryLoad(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, identity, embedding`).
		WillReturnError(errors.New("connection refused"))

	_, err = NewEnrollmentRepository(mock).LoadGallery(context.Background())
	assert.ErrorIs(t, err, domain.ErrGalleryLoad)
}
