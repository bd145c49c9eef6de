package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/config"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider/mock"
)

func TestNewFaceProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		wantErr      bool
		wantMock     bool
	}{
		{name: "deepface", providerType: "deepface"},
		{name: "empty defaults to deepface", providerType: ""},
		{name: "mock", providerType: "mock", wantMock: true},
		{name: "unknown", providerType: "rekognition", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				ProviderType: tt.providerType,
				DeepFaceURL:  "http://localhost:5005",
			}

			p, err := NewFaceProvider(cfg)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.wantMock {
				assert.IsType(t, &mock.Provider{}, p)
			} else {
				assert.IsType(t, &deepface.Provider{}, p)
			}
		})
	}
}
