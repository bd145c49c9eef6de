package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/saturnino-fabrica-de-software/ponto/internal/api"
	"github.com/saturnino-fabrica-de-software/ponto/internal/capture"
	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
	"github.com/saturnino-fabrica-de-software/ponto/internal/database"
	"github.com/saturnino-fabrica-de-software/ponto/internal/face"
	"github.com/saturnino-fabrica-de-software/ponto/internal/gallery"
	"github.com/saturnino-fabrica-de-software/ponto/internal/history"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ledger"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ledger/csvstore"
	ledgerpg "github.com/saturnino-fabrica-de-software/ponto/internal/ledger/postgres"
	"github.com/saturnino-fabrica-de-software/ponto/internal/matcher"
	"github.com/saturnino-fabrica-de-software/ponto/internal/repository"
	"github.com/saturnino-fabrica-de-software/ponto/internal/runner"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// galleryReloader rebuilds the matcher's gallery from the enrollment table.
type galleryReloader struct {
	repo    *repository.EnrollmentRepository
	matcher *matcher.Matcher
}

func (r *galleryReloader) Reload(ctx context.Context) error {
	g, err := r.repo.LoadGallery(ctx)
	if err != nil {
		return err
	}
	r.matcher.SetGallery(g)
	return nil
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Ponto API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	faceProvider, err := face.NewFaceProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}

	var pool *pgxpool.Pool
	if cfg.LedgerBackend == "postgres" || cfg.GallerySource == "postgres" {
		pool, err = database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
	}

	var enrollments *repository.EnrollmentRepository
	if pool != nil {
		enrollments = repository.NewEnrollmentRepository(pool)
	}

	var g *gallery.Gallery
	switch cfg.GallerySource {
	case "postgres":
		g, err = enrollments.LoadGallery(ctx)
	default:
		g, err = gallery.Load(ctx, cfg.GalleryDir, faceProvider)
	}
	if err != nil {
		return fmt.Errorf("failed to load gallery: %w", err)
	}
	logger.Info("gallery loaded",
		slog.String("source", cfg.GallerySource),
		slog.Int("identities", g.Size()),
	)

	m := matcher.New(g, cfg.MatchTolerance)

	var store ledger.Store
	switch cfg.LedgerBackend {
	case "postgres":
		store = ledgerpg.New(pool)
	default:
		store, err = csvstore.New(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("failed to open attendance log: %w", err)
		}
	}

	entryWindow, err := cfg.EntryWindow()
	if err != nil {
		return err
	}
	exitWindow, err := cfg.ExitWindow()
	if err != nil {
		return err
	}

	led := ledger.New(store, entryWindow, exitWindow)
	hist := history.New(history.DefaultSize)

	hub := ws.NewHub()
	go hub.Run(ctx)

	camera := capture.NewHTTPCamera(cfg.CameraURL)
	defer camera.Close()

	loop := runner.New(runner.Params{
		Device:    camera,
		Provider:  faceProvider,
		Matcher:   m,
		Recorder:  led,
		History:   hist,
		Publisher: hub,
		Logger:    logger,
		Scale:     cfg.DetectionScale,
		FrameRate: cfg.FrameRate,
	})

	deps := &api.Dependencies{
		Runner:       loop,
		Ledger:       led,
		FaceProvider: faceProvider,
		Hub:          hub,
	}
	if enrollments != nil {
		deps.Enrollments = enrollments
		deps.Reloader = &galleryReloader{repo: enrollments, matcher: m}
	}

	router := api.NewRouter(logger, deps)
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := loop.Stop(); err != nil {
		logger.Debug("recognition already stopped", slog.Any("error", err))
	}
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
