package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Store is the durable per-day record store behind the ledger. All methods
// scope by (identity, date): a record from a previous day never satisfies a
// lookup for today.
type Store interface {
	// HasRecord reports whether identity already has any record on date.
	HasRecord(ctx context.Context, identity, date string) (bool, error)
	// FindOpen returns identity's open record (entry logged, no exit yet)
	// on date, or nil when there is none.
	FindOpen(ctx context.Context, identity, date string) (*domain.AttendanceRecord, error)
	// Append persists a new record.
	Append(ctx context.Context, rec *domain.AttendanceRecord) error
	// CloseOut writes the exit fields onto rec's persisted row. The entry
	// fields are never touched.
	CloseOut(ctx context.Context, rec *domain.AttendanceRecord) error
	// ListByDate returns all records on date in log order.
	ListByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
}

// Event describes a ledger mutation, in the log's own line format. Pushed
// to the recognition history and broadcast to the display.
type Event struct {
	Record      domain.AttendanceRecord
	Description string
}

// Ledger is the attendance state machine. Per (identity, date) a record
// moves NoRecord -> EntryOnly -> Complete; Complete is terminal for the day
// and no transition regresses.
type Ledger struct {
	store       Store
	entryWindow domain.Window
	exitWindow  domain.Window
}

func New(store Store, entryWindow, exitWindow domain.Window) *Ledger {
	return &Ledger{
		store:       store,
		entryWindow: entryWindow,
		exitWindow:  exitWindow,
	}
}

// Record applies one recognition of identity at time now. It returns the
// resulting event, or nil when the recognition changes nothing (the common
// case: the same person seen on consecutive frames).
//
// With no record yet that day: inside the entry window an Entry row is
// appended; outside it an exit-only row is appended. An existing open
// record gains its exit exactly once, and only inside the exit window.
func (l *Ledger) Record(ctx context.Context, identity string, now time.Time) (*Event, error) {
	date := domain.FormatDate(now)
	tod := domain.TimeOfDayFrom(now)

	has, err := l.store.HasRecord(ctx, identity, date)
	if err != nil {
		return nil, persistence(err)
	}

	if !has {
		kind := domain.KindExit
		if l.entryWindow.Contains(tod) {
			kind = domain.KindEntry
		}

		rec := &domain.AttendanceRecord{
			ID:       uuid.New(),
			Identity: identity,
			Kind:     kind,
			Time:     tod,
			Date:     date,
		}

		if err := l.store.Append(ctx, rec); err != nil {
			return nil, persistence(err)
		}

		return &Event{Record: *rec, Description: rec.Line()}, nil
	}

	if !l.exitWindow.Contains(tod) {
		return nil, nil
	}

	open, err := l.store.FindOpen(ctx, identity, date)
	if err != nil {
		return nil, persistence(err)
	}
	if open == nil {
		// Exit-only row, or entry already closed out. Terminal either way.
		return nil, nil
	}

	open.ExitTime = &tod
	open.ExitDate = date

	if err := l.store.CloseOut(ctx, open); err != nil {
		return nil, persistence(err)
	}

	return &Event{Record: *open, Description: open.Line()}, nil
}

// RecordsByDate returns the day's records for read-only views.
func (l *Ledger) RecordsByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	if !domain.ValidDate(date) {
		return nil, domain.ErrInvalidDate
	}

	recs, err := l.store.ListByDate(ctx, date)
	if err != nil {
		return nil, persistence(err)
	}
	return recs, nil
}

func persistence(err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.ErrLedgerPersistence.WithError(fmt.Errorf("ledger store: %w", err))
}
