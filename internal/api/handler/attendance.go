package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// AttendanceReader lists the ledger's records for read-only views.
type AttendanceReader interface {
	RecordsByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error)
}

type AttendanceHandler struct {
	ledger AttendanceReader
	logger *slog.Logger
	now    func() time.Time
}

func NewAttendanceHandler(ledger AttendanceReader, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{ledger: ledger, logger: logger, now: time.Now}
}

type AttendanceRecordResponse struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
	Kind     string `json:"kind"`
	Time     string `json:"time"`
	Date     string `json:"date"`
	ExitTime string `json:"exit_time,omitempty"`
	ExitDate string `json:"exit_date,omitempty"`
	Line     string `json:"line"`
}

type ListAttendanceResponse struct {
	Date    string                     `json:"date"`
	Records []AttendanceRecordResponse `json:"records"`
}

// List GET /v1/attendance?date=DD/MM/YYYY
// Defaults to today when no date is given. The date query keeps the log's
// own DD/MM/YYYY format (URL-encoded slashes).
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = domain.FormatDate(h.now())
	}
	if !domain.ValidDate(date) {
		return domain.ErrInvalidDate
	}

	recs, err := h.ledger.RecordsByDate(c.Context(), date)
	if err != nil {
		return err
	}

	records := make([]AttendanceRecordResponse, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		out := AttendanceRecordResponse{
			ID:       rec.ID.String(),
			Identity: rec.Identity,
			Kind:     string(rec.Kind),
			Time:     rec.Time.String(),
			Date:     rec.Date,
			ExitDate: rec.ExitDate,
			Line:     rec.Line(),
		}
		if rec.ExitTime != nil {
			out.ExitTime = rec.ExitTime.String()
		}
		records = append(records, out)
	}

	return c.JSON(ListAttendanceResponse{Date: date, Records: records})
}
