package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/runner"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRunner) Stop() error {
	return m.Called().Error(0)
}

func (m *MockRunner) Toggle(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockRunner) Status() runner.Status {
	return m.Called().Get(0).(runner.Status)
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})
}

func recognitionApp(t *testing.T, r RecognitionRunner) *fiber.App {
	t.Helper()
	app := testApp(t)
	h := NewRecognitionHandler(r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	app.Post("/v1/recognition/start", h.Start)
	app.Post("/v1/recognition/stop", h.Stop)
	app.Post("/v1/recognition/toggle", h.Toggle)
	app.Get("/v1/recognition/status", h.Status)
	app.Get("/v1/recognition/history", h.History)
	return app
}

func TestRecognitionHandler_Start(t *testing.T) {
	r := new(MockRunner)
	r.On("Start", mock.Anything).Return(nil)
	app := recognitionApp(t, r)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/recognition/start", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}

func TestRecognitionHandler_Start_AlreadyRunning(t *testing.T) {
	r := new(MockRunner)
	r.On("Start", mock.Anything).Return(domain.ErrRecognitionRunning)
	app := recognitionApp(t, r)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/recognition/start", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRecognitionHandler_Stop_NotRunning(t *testing.T) {
	r := new(MockRunner)
	r.On("Stop").Return(domain.ErrRecognitionStopped)
	app := recognitionApp(t, r)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/recognition/stop", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRecognitionHandler_Toggle(t *testing.T) {
	r := new(MockRunner)
	r.On("Toggle", mock.Anything).Return(true, nil)
	app := recognitionApp(t, r)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/recognition/toggle", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var toggle ToggleResponse
	require.NoError(t, json.Unmarshal(body, &toggle))
	assert.True(t, toggle.Running)
}

func TestRecognitionHandler_Status(t *testing.T) {
	r := new(MockRunner)
	r.On("Status").Return(runner.Status{
		Running: true,
		Current: "ALICE",
		History: []string{"ALICE,Entry,16:30:00,01/01/2024"},
	})
	app := recognitionApp(t, r)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/recognition/status", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var status runner.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.True(t, status.Running)
	assert.Equal(t, "ALICE", status.Current)
	assert.Len(t, status.History, 1)
}

func TestRecognitionHandler_History_EmptyIsList(t *testing.T) {
	r := new(MockRunner)
	r.On("Status").Return(runner.Status{Running: false, Current: "Unknown"})
	app := recognitionApp(t, r)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/recognition/history", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[]}`, string(body))
}
