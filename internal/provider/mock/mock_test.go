package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	providerpkg "github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

func TestProvider_DetectFaces(t *testing.T) {
	p := New()
	image := make([]byte, 5000)
	for i := range image {
		image[i] = byte(i % 251)
	}

	faces, err := p.DetectFaces(context.Background(), image)
	require.NoError(t, err)
	require.Len(t, faces, 1)
	assert.Len(t, faces[0].Embedding, embeddingDimension)
}

func TestProvider_DetectFaces_Deterministic(t *testing.T) {
	p := New()
	image := make([]byte, 5000)

	first, err := p.DetectFaces(context.Background(), image)
	require.NoError(t, err)
	second, err := p.DetectFaces(context.Background(), image)
	require.NoError(t, err)

	assert.Equal(t, first[0].Embedding, second[0].Embedding)
	assert.Zero(t, providerpkg.EuclideanDistance(first[0].Embedding, second[0].Embedding))
}

func TestProvider_DetectFaces_DistinctImages(t *testing.T) {
	p := New()
	a := make([]byte, 5000)
	b := make([]byte, 5000)
	b[0] = 1

	facesA, err := p.DetectFaces(context.Background(), a)
	require.NoError(t, err)
	facesB, err := p.DetectFaces(context.Background(), b)
	require.NoError(t, err)

	assert.Greater(t, providerpkg.EuclideanDistance(facesA[0].Embedding, facesB[0].Embedding), 0.0)
}

func TestProvider_DetectFaces_TooSmall(t *testing.T) {
	p := New()

	_, err := p.DetectFaces(context.Background(), []byte("tiny"))
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestGenerateEmbedding_UnitNorm(t *testing.T) {
	embedding := generateEmbedding(make([]byte, 5000))

	norm := 0.0
	for _, v := range embedding {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}
