package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

const embeddingDimension = 128

// Provider implements provider.FaceProvider for tests and development.
// It reports exactly one face per image with a deterministic embedding, so
// the same image bytes always resolve to the same identity.
type Provider struct{}

// New creates a mock provider instance
func New() *Provider {
	return &Provider{}
}

// DetectFaces simulates detection: one face covering most of the image
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < 100 {
		return nil, domain.ErrInvalidImage
	}

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      10,
				Y:      10,
				Width:  80,
				Height: 80,
			},
			Embedding: generateEmbedding(image),
		},
	}, nil
}

// generateEmbedding derives a unit-norm embedding from the image hash
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, embeddingDimension)
	hashLen := len(hash)

	for i := 0; i < embeddingDimension; i++ {
		idx := i % hashLen
		embedding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding
}

var _ provider.FaceProvider = (*Provider)(nil)
