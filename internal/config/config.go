package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Gallery
	GalleryDir    string `envconfig:"GALLERY_DIR" default:"images"`
	GallerySource string `envconfig:"GALLERY_SOURCE" default:"directory"`

	// Ledger
	LedgerBackend string `envconfig:"LEDGER_BACKEND" default:"csv"`
	LedgerPath    string `envconfig:"LEDGER_PATH" default:"Attendance.csv"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`

	// Provider
	ProviderType string `envconfig:"PROVIDER_TYPE" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`

	// Matching
	MatchTolerance float64 `envconfig:"MATCH_TOLERANCE" default:"0.6"`
	DetectionScale int     `envconfig:"DETECTION_SCALE" default:"4"`

	// Attendance windows
	EntryWindowStart string `envconfig:"ENTRY_WINDOW_START" default:"16:00:00"`
	EntryWindowEnd   string `envconfig:"ENTRY_WINDOW_END" default:"17:59:00"`
	ExitWindowStart  string `envconfig:"EXIT_WINDOW_START" default:"18:00:00"`
	ExitWindowEnd    string `envconfig:"EXIT_WINDOW_END" default:"19:30:00"`

	// Capture
	CameraURL string `envconfig:"CAMERA_URL" default:"http://localhost:8080/snapshot.jpg"`
	FrameRate int    `envconfig:"FRAME_RATE" default:"30"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.GallerySource {
	case "directory", "postgres":
	default:
		return fmt.Errorf("invalid GALLERY_SOURCE %q (directory or postgres)", c.GallerySource)
	}

	switch c.LedgerBackend {
	case "csv", "postgres":
	default:
		return fmt.Errorf("invalid LEDGER_BACKEND %q (csv or postgres)", c.LedgerBackend)
	}

	if (c.LedgerBackend == "postgres" || c.GallerySource == "postgres") && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for postgres backends")
	}

	if c.DetectionScale < 1 {
		return fmt.Errorf("DETECTION_SCALE must be >= 1, got %d", c.DetectionScale)
	}

	if c.FrameRate < 1 {
		return fmt.Errorf("FRAME_RATE must be >= 1, got %d", c.FrameRate)
	}

	if _, err := c.EntryWindow(); err != nil {
		return fmt.Errorf("entry window: %w", err)
	}
	if _, err := c.ExitWindow(); err != nil {
		return fmt.Errorf("exit window: %w", err)
	}

	return nil
}

// EntryWindow returns the configured check-in window.
func (c *Config) EntryWindow() (domain.Window, error) {
	return domain.ParseWindow(c.EntryWindowStart, c.EntryWindowEnd)
}

// ExitWindow returns the configured check-out window.
func (c *Config) ExitWindow() (domain.Window, error) {
	return domain.ParseWindow(c.ExitWindowStart, c.ExitWindowEnd)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
