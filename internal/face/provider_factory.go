package face

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider/mock"
)

// ProviderType defines supported face detection/embedding provider types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace provider (HTTP sidecar)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeMock is the deterministic in-process provider (dev/test)
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceProvider creates a FaceProvider instance based on configuration
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5005")
func NewFaceProvider(cfg *config.Config) (provider.FaceProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeDeepFace, "":
		dfConfig := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			dfConfig.BaseURL = cfg.DeepFaceURL
		}
		return deepface.NewProvider(dfConfig), nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.ProviderType, ProviderTypeDeepFace, ProviderTypeMock)
	}
}
