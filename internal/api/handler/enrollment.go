package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
	"github.com/saturnino-fabrica-de-software/ponto/internal/repository"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

const maxImageSize = 10 * 1024 * 1024

// EnrollmentStore is the persistence surface the handler needs.
type EnrollmentStore interface {
	Upsert(ctx context.Context, enrollment *repository.Enrollment) error
	ListAll(ctx context.Context) ([]repository.Enrollment, error)
	Delete(ctx context.Context, identity string) error
}

// GalleryReloader rebuilds the in-memory gallery from the enrollment store
// so new enrollments start matching without a restart.
type GalleryReloader interface {
	Reload(ctx context.Context) error
}

type EnrollmentHandler struct {
	store    EnrollmentStore
	faces    provider.FaceProvider
	reloader GalleryReloader
	hub      *ws.Hub
	logger   *slog.Logger
}

func NewEnrollmentHandler(store EnrollmentStore, faces provider.FaceProvider, reloader GalleryReloader, hub *ws.Hub, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		store:    store,
		faces:    faces,
		reloader: reloader,
		hub:      hub,
		logger:   logger,
	}
}

type EnrollmentResponse struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
}

type ListEnrollmentsResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

// Register POST /v1/enrollments - enroll a face from a reference photo
func (h *EnrollmentHandler) Register(c *fiber.Ctx) error {
	identity := strings.TrimSpace(c.FormValue("identity"))
	if identity == "" {
		return domain.ErrBadRequest.WithError(errors.New("identity is required"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return domain.ErrBadRequest.WithError(errors.New("image file is required"))
	}
	if fileHeader.Size > maxImageSize {
		return domain.ErrInvalidImage.WithError(errors.New("image exceeds maximum size"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.ErrInvalidImage.WithError(err)
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		return domain.ErrInvalidImage.WithError(err)
	}

	faces, err := h.faces.DetectFaces(c.Context(), imageBytes)
	if err != nil {
		return err
	}
	if len(faces) == 0 {
		return domain.ErrNoFaceDetected
	}

	enrollment := &repository.Enrollment{
		Identity:  identity,
		Embedding: faces[0].Embedding,
	}
	if err := h.store.Upsert(c.Context(), enrollment); err != nil {
		return err
	}

	if err := h.reloader.Reload(c.Context()); err != nil {
		h.logger.Error("gallery reload after enrollment failed", "identity", identity, "error", err)
	}

	h.hub.Broadcast(ws.EventEnrollment, EnrollmentResponse{
		ID:       enrollment.ID.String(),
		Identity: enrollment.Identity,
	})

	return c.Status(fiber.StatusCreated).JSON(EnrollmentResponse{
		ID:       enrollment.ID.String(),
		Identity: enrollment.Identity,
	})
}

// List GET /v1/enrollments
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	enrollments, err := h.store.ListAll(c.Context())
	if err != nil {
		return err
	}

	out := make([]EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, EnrollmentResponse{ID: e.ID.String(), Identity: e.Identity})
	}

	return c.JSON(ListEnrollmentsResponse{Enrollments: out})
}

// Delete DELETE /v1/enrollments/:identity
func (h *EnrollmentHandler) Delete(c *fiber.Ctx) error {
	identity := strings.TrimSpace(c.Params("identity"))
	if identity == "" {
		return domain.ErrBadRequest.WithError(errors.New("identity is required"))
	}

	if err := h.store.Delete(c.Context(), identity); err != nil {
		return err
	}

	if err := h.reloader.Reload(c.Context()); err != nil {
		h.logger.Error("gallery reload after enrollment delete failed", "identity", identity, "error", err)
	}

	h.hub.Broadcast(ws.EventEnrollment, EnrollmentResponse{Identity: identity})

	return c.SendStatus(fiber.StatusNoContent)
}

// ReloadGallery POST /v1/gallery/reload
func (h *EnrollmentHandler) ReloadGallery(c *fiber.Ctx) error {
	if err := h.reloader.Reload(c.Context()); err != nil {
		return err
	}

	h.hub.Broadcast(ws.EventGalleryLoad, nil)
	return c.SendStatus(fiber.StatusNoContent)
}
