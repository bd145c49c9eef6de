package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layouts used by the attendance log. The log predates this service and the
// formats are load-bearing: DD/MM/YYYY dates and 24h clock times.
const (
	TimeLayout = "15:04:05"
	DateLayout = "02/01/2006"
)

// RecordKind marks how a row entered the log. An "Exit" kind on a fresh row
// means the identity was first seen outside the entry window that day.
type RecordKind string

const (
	KindEntry RecordKind = "Entry"
	KindExit  RecordKind = "Exit"
)

func (k RecordKind) Valid() bool {
	return k == KindEntry || k == KindExit
}

// TimeOfDay is a wall-clock time expressed as seconds since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay parses an HH:MM:SS string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, ErrInvalidWindow.WithError(err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

// TimeOfDayFrom extracts the wall-clock component of t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)/60%60, int(t)%60)
}

// Window is an inclusive time-of-day range.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseWindow builds a Window from HH:MM:SS bounds.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, err
	}
	if s > e {
		return Window{}, ErrInvalidWindow.WithError(fmt.Errorf("start %s after end %s", s, e))
	}
	return Window{Start: s, End: e}, nil
}

func (w Window) Contains(t TimeOfDay) bool {
	return w.Start <= t && t <= w.End
}

// FormatDate renders t as a log date (DD/MM/YYYY).
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a well-formed log date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// AttendanceRecord is one logical row of the attendance log: at most one per
// identity per date. Entry and exit fields, once set, are never overwritten.
type AttendanceRecord struct {
	ID       uuid.UUID
	Identity string
	Kind     RecordKind
	Time     TimeOfDay
	Date     string
	ExitTime *TimeOfDay
	ExitDate string
}

// Open reports whether the record still awaits an exit. Exit-only rows are
// terminal from the moment they are written.
func (r *AttendanceRecord) Open() bool {
	return r.Kind == KindEntry && r.ExitTime == nil
}

// Line renders the record in the log's comma-separated layout:
// identity,Kind,HH:MM:SS,DD/MM/YYYY and, once closed,
// a trailing Exit,HH:MM:SS,DD/MM/YYYY.
func (r *AttendanceRecord) Line() string {
	fields := []string{r.Identity, string(r.Kind), r.Time.String(), r.Date}
	if r.ExitTime != nil {
		fields = append(fields, string(KindExit), r.ExitTime.String(), r.ExitDate)
	}
	return strings.Join(fields, ",")
}
