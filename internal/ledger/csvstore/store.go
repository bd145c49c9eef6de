package csvstore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

const fieldsPerRecord = 4

// Store persists attendance records to a plain comma-separated log file,
// the same file layout older deployments already feed into spreadsheets.
// New rows are appended with a leading newline and an exit closes out a row
// by rewriting it in place, so the file stays one row per (identity, date).
//
// All access goes through one mutex; the file is small (one site, one day
// of records per row) and a full read-modify-write keeps the row rewrite
// trivial.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open attendance log %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close attendance log %s: %w", path, err)
	}
	return &Store{path: path}, nil
}

func (s *Store) HasRecord(_ context.Context, identity, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return false, err
	}

	for i := range recs {
		if recs[i].Identity == identity && recs[i].Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FindOpen(_ context.Context, identity, date string) (*domain.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	for i := range recs {
		if recs[i].Identity == identity && recs[i].Date == date && recs[i].Open() {
			rec := recs[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *Store) Append(_ context.Context, rec *domain.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open attendance log %s: %w", s.path, err)
	}

	if _, err := f.WriteString("\n" + rec.Line()); err != nil {
		f.Close()
		return fmt.Errorf("append attendance log %s: %w", s.path, err)
	}
	return f.Close()
}

// CloseOut rewrites rec's row with its exit fields. The row is located by
// (identity, date) among still-open rows; entry fields are left as written.
func (s *Store) CloseOut(_ context.Context, rec *domain.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read attendance log %s: %w", s.path, err)
	}

	lines := strings.Split(string(data), "\n")
	found := false
	for i, line := range lines {
		if line == "" {
			continue
		}
		existing, err := parseLine(line)
		if err != nil {
			return err
		}
		if existing.Identity == rec.Identity && existing.Date == rec.Date && existing.Open() {
			lines[i] = rec.Line()
			found = true
			break
		}
	}
	if !found {
		return domain.ErrRecordNotFound
	}

	if err := os.WriteFile(s.path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("rewrite attendance log %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) ListByDate(_ context.Context, date string) ([]domain.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var out []domain.AttendanceRecord
	for i := range recs {
		if recs[i].Date == date {
			out = append(out, recs[i])
		}
	}
	return out, nil
}

func (s *Store) readAll() ([]domain.AttendanceRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read attendance log %s: %w", s.path, err)
	}

	var recs []domain.AttendanceRecord
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// parseLine reads one log row: 4 fields open, 7 fields closed. Rows written
// by hand sometimes carry a trailing comma; tolerate it on read.
func parseLine(line string) (domain.AttendanceRecord, error) {
	fields := strings.Split(strings.TrimSuffix(line, ","), ",")
	if len(fields) != fieldsPerRecord && len(fields) != fieldsPerRecord+3 {
		return domain.AttendanceRecord{}, fmt.Errorf("malformed attendance row %q", line)
	}

	kind := domain.RecordKind(fields[1])
	if !kind.Valid() {
		return domain.AttendanceRecord{}, fmt.Errorf("malformed attendance row %q: kind %q", line, fields[1])
	}

	entryTime, err := domain.ParseTimeOfDay(fields[2])
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("malformed attendance row %q: %w", line, err)
	}

	rec := domain.AttendanceRecord{
		ID:       uuid.New(),
		Identity: fields[0],
		Kind:     kind,
		Time:     entryTime,
		Date:     fields[3],
	}

	if len(fields) == fieldsPerRecord+3 {
		exitTime, err := domain.ParseTimeOfDay(fields[5])
		if err != nil {
			return domain.AttendanceRecord{}, fmt.Errorf("malformed attendance row %q: %w", line, err)
		}
		rec.ExitTime = &exitTime
		rec.ExitDate = fields[6]
	}

	return rec, nil
}
