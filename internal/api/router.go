package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ledger"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
	"github.com/saturnino-fabrica-de-software/ponto/internal/repository"
	"github.com/saturnino-fabrica-de-software/ponto/internal/runner"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

type Dependencies struct {
	Runner       *runner.Runner
	Ledger       *ledger.Ledger
	FaceProvider provider.FaceProvider
	Hub          *ws.Hub
	// Enrollments and Reloader are set only when the service runs against
	// Postgres; the enrollment routes are skipped otherwise.
	Enrollments *repository.EnrollmentRepository
	Reloader    handler.GalleryReloader
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Ponto API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	recognitionHandler := handler.NewRecognitionHandler(r.deps.Runner, r.logger)
	v1.Post("/recognition/start", recognitionHandler.Start)
	v1.Post("/recognition/stop", recognitionHandler.Stop)
	v1.Post("/recognition/toggle", recognitionHandler.Toggle)
	v1.Get("/recognition/status", recognitionHandler.Status)
	v1.Get("/recognition/history", recognitionHandler.History)

	attendanceHandler := handler.NewAttendanceHandler(r.deps.Ledger, r.logger)
	v1.Get("/attendance", attendanceHandler.List)

	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))

	if r.deps.Enrollments != nil && r.deps.Reloader != nil {
		enrollmentHandler := handler.NewEnrollmentHandler(
			r.deps.Enrollments,
			r.deps.FaceProvider,
			r.deps.Reloader,
			r.deps.Hub,
			r.logger,
		)
		v1.Post("/enrollments", enrollmentHandler.Register)
		v1.Get("/enrollments", enrollmentHandler.List)
		v1.Delete("/enrollments/:identity", enrollmentHandler.Delete)
		v1.Post("/gallery/reload", enrollmentHandler.ReloadGallery)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
