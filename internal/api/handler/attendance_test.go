package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type MockAttendanceReader struct {
	mock.Mock
}

func (m *MockAttendanceReader) RecordsByDate(ctx context.Context, date string) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, date)
	if recs := args.Get(0); recs != nil {
		return recs.([]domain.AttendanceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func attendanceApp(t *testing.T, reader AttendanceReader, now func() time.Time) *fiber.App {
	t.Helper()
	app := testApp(t)
	h := NewAttendanceHandler(reader, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if now != nil {
		h.now = now
	}
	app.Get("/v1/attendance", h.List)
	return app
}

func TestAttendanceHandler_List(t *testing.T) {
	exitTime := domain.NewTimeOfDay(18, 15, 0)
	reader := new(MockAttendanceReader)
	reader.On("RecordsByDate", mock.Anything, "01/01/2024").Return([]domain.AttendanceRecord{
		{
			ID:       uuid.New(),
			Identity: "ALICE",
			Kind:     domain.KindEntry,
			Time:     domain.NewTimeOfDay(16, 30, 0),
			Date:     "01/01/2024",
			ExitTime: &exitTime,
			ExitDate: "01/01/2024",
		},
	}, nil)

	app := attendanceApp(t, reader, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/attendance?date=01%2F01%2F2024", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list ListAttendanceResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, "01/01/2024", list.Date)
	require.Len(t, list.Records, 1)
	assert.Equal(t, "ALICE", list.Records[0].Identity)
	assert.Equal(t, "ALICE,Entry,16:30:00,01/01/2024,Exit,18:15:00,01/01/2024", list.Records[0].Line)
}

func TestAttendanceHandler_List_DefaultsToToday(t *testing.T) {
	reader := new(MockAttendanceReader)
	reader.On("RecordsByDate", mock.Anything, "01/01/2024").Return(nil, nil)

	now := func() time.Time {
		return time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	}
	app := attendanceApp(t, reader, now)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/attendance", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	reader.AssertExpectations(t)
}

func TestAttendanceHandler_List_InvalidDate(t *testing.T) {
	reader := new(MockAttendanceReader)
	app := attendanceApp(t, reader, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/attendance?date=2024-01-01", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	reader.AssertNotCalled(t, "RecordsByDate", mock.Anything, mock.Anything)
}
