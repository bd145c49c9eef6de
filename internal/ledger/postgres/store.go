package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it for tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists attendance records in Postgres. Times and dates are stored
// in the log's own text formats (HH:MM:SS, DD/MM/YYYY) so rows round-trip
// byte-identical with the file-backed log.
type Store struct {
	pool PgxPool
}

func New(pool PgxPool) *Store {
	return &Store{pool: pool}
}

func (s *Store) HasRecord(ctx context.Context, identity, date string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE identity = $1 AND record_date = $2
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, identity, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("has attendance record: %w", err)
	}
	return exists, nil
}

func (s *Store) FindOpen(ctx context.Context, identity, date string) (*domain.AttendanceRecord, error) {
	query := `
		SELECT id, identity, kind, record_time, record_date
		FROM attendance_records
		WHERE identity = $1 AND record_date = $2 AND kind = $3 AND exit_time IS NULL
	`

	var (
		rec     domain.AttendanceRecord
		kind    string
		recTime string
	)
	err := s.pool.QueryRow(ctx, query, identity, date, string(domain.KindEntry)).Scan(
		&rec.ID,
		&rec.Identity,
		&kind,
		&recTime,
		&rec.Date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open attendance record: %w", err)
	}

	rec.Kind = domain.RecordKind(kind)
	rec.Time, err = domain.ParseTimeOfDay(recTime)
	if err != nil {
		return nil, fmt.Errorf("find open attendance record: %w", err)
	}

	return &rec, nil
}

func (s *Store) Append(ctx context.Context, rec *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (id, identity, kind, record_time, record_date, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.Identity,
		string(rec.Kind),
		rec.Time.String(),
		rec.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrLedgerPersistence.WithError(fmt.Errorf("duplicate attendance record: %w", err))
		}
		return fmt.Errorf("append attendance record: %w", err)
	}

	return nil
}

func (s *Store) CloseOut(ctx context.Context, rec *domain.AttendanceRecord) error {
	query := `
		UPDATE attendance_records
		SET exit_time = $1, exit_date = $2
		WHERE id = $3 AND exit_time IS NULL
	`

	if rec.ExitTime == nil {
		return fmt.Errorf("close out attendance record: no exit time on record %s", rec.ID)
	}

	result, err := s.pool.Exec(ctx, query, rec.ExitTime.String(), rec.ExitDate, rec.ID)
	if err != nil {
		return fmt.Errorf("close out attendance record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (s *Store) ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	query := `
		SELECT id, identity, kind, record_time, record_date, exit_time, exit_date
		FROM attendance_records
		WHERE record_date = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer rows.Close()

	var recs []domain.AttendanceRecord
	for rows.Next() {
		var (
			rec      domain.AttendanceRecord
			kind     string
			recTime  string
			exitTime *string
			exitDate *string
		)
		if err := rows.Scan(&rec.ID, &rec.Identity, &kind, &recTime, &rec.Date, &exitTime, &exitDate); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}

		rec.Kind = domain.RecordKind(kind)
		rec.Time, err = domain.ParseTimeOfDay(recTime)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}

		if exitTime != nil {
			t, err := domain.ParseTimeOfDay(*exitTime)
			if err != nil {
				return nil, fmt.Errorf("scan attendance record: %w", err)
			}
			rec.ExitTime = &t
		}
		if exitDate != nil {
			rec.ExitDate = *exitDate
		}

		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}

	return recs, nil
}
