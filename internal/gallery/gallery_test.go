package gallery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

type MockFaceProvider struct {
	mock.Mock
}

func (m *MockFaceProvider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.DetectedFace), args.Error(1)
}

func writeImage(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "alice.jpg", []byte("alice-image"))
	writeImage(t, dir, "bob.png", []byte("bob-image"))
	writeImage(t, dir, "notes.txt", []byte("not an image"))

	p := &MockFaceProvider{}
	p.On("DetectFaces", mock.Anything, []byte("alice-image")).Return([]provider.DetectedFace{
		{Embedding: []float64{1, 0, 0}},
		{Embedding: []float64{9, 9, 9}}, // second face must be ignored
	}, nil)
	p.On("DetectFaces", mock.Anything, []byte("bob-image")).Return([]provider.DetectedFace{
		{Embedding: []float64{0, 1, 0}},
	}, nil)

	g, err := Load(context.Background(), dir, p)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Size())
	assert.Equal(t, []string{"alice", "bob"}, g.Identities())
	assert.Equal(t, []float64{1, 0, 0}, g.Entries()[0].Embedding)
	assert.Equal(t, []float64{0, 1, 0}, g.Entries()[1].Embedding)

	p.AssertExpectations(t)
}

func TestLoad_NoFaceInReferenceImage(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "empty.jpg", []byte("no face here"))

	p := &MockFaceProvider{}
	p.On("DetectFaces", mock.Anything, mock.Anything).Return([]provider.DetectedFace{}, nil)

	_, err := Load(context.Background(), dir, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGalleryLoad)
	assert.Contains(t, err.Error(), "empty.jpg")
}

func TestLoad_ProviderFailure(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "corrupt.jpg", []byte("corrupt"))

	p := &MockFaceProvider{}
	p.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidImage)

	_, err := Load(context.Background(), dir, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGalleryLoad)
}

func TestLoad_MissingDirectory(t *testing.T) {
	p := &MockFaceProvider{}

	_, err := Load(context.Background(), "/nonexistent/gallery", p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGalleryLoad)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	p := &MockFaceProvider{}

	g, err := Load(context.Background(), t.TempDir(), p)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Size(), "empty gallery loads; matching against it fails later")
}

func TestFromEntries(t *testing.T) {
	src := []Entry{{Identity: "alice", Embedding: []float64{1, 2}}}
	g := FromEntries(src)

	src[0].Identity = "mutated"
	assert.Equal(t, "alice", g.Entries()[0].Identity, "gallery must not alias caller slice")
}
