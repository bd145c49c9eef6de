package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/runner"
)

// RecognitionRunner is the loop the handler drives.
type RecognitionRunner interface {
	Start(ctx context.Context) error
	Stop() error
	Toggle(ctx context.Context) (bool, error)
	Status() runner.Status
}

// RecognitionHandler exposes the recognition loop over HTTP: the same
// start/stop/toggle surface the kiosk's toggle button uses.
type RecognitionHandler struct {
	runner RecognitionRunner
	logger *slog.Logger
}

func NewRecognitionHandler(r RecognitionRunner, logger *slog.Logger) *RecognitionHandler {
	return &RecognitionHandler{runner: r, logger: logger}
}

type ToggleResponse struct {
	Running bool `json:"running"`
}

// Start POST /v1/recognition/start
func (h *RecognitionHandler) Start(c *fiber.Ctx) error {
	if err := h.runner.Start(context.Background()); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(ToggleResponse{Running: true})
}

// Stop POST /v1/recognition/stop
func (h *RecognitionHandler) Stop(c *fiber.Ctx) error {
	if err := h.runner.Stop(); err != nil {
		return err
	}
	return c.JSON(ToggleResponse{Running: false})
}

// Toggle POST /v1/recognition/toggle
func (h *RecognitionHandler) Toggle(c *fiber.Ctx) error {
	running, err := h.runner.Toggle(context.Background())
	if err != nil {
		return err
	}
	return c.JSON(ToggleResponse{Running: running})
}

// Status GET /v1/recognition/status
func (h *RecognitionHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.runner.Status())
}

type HistoryResponse struct {
	Events []string `json:"events"`
}

// History GET /v1/recognition/history
func (h *RecognitionHandler) History(c *fiber.Ctx) error {
	status := h.runner.Status()
	events := status.History
	if events == nil {
		events = []string{}
	}
	return c.JSON(HistoryResponse{Events: events})
}
