package capture

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

func snapshotJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestHTTPCamera_ReadFrame(t *testing.T) {
	frame := snapshotJPEG(t, 640, 480)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(frame)
	}))
	defer server.Close()

	cam := NewHTTPCamera(server.URL)
	defer cam.Close()

	img, err := cam.ReadFrame(context.Background())
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 640, bounds.Dx())
	assert.Equal(t, 480, bounds.Dy())
}

func TestHTTPCamera_ReadFrame_CameraDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cam := NewHTTPCamera(server.URL)
	defer cam.Close()

	_, err := cam.ReadFrame(context.Background())
	assert.ErrorIs(t, err, domain.ErrCaptureUnavailable)
}

func TestHTTPCamera_ReadFrame_NotAnImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>login page</html>"))
	}))
	defer server.Close()

	cam := NewHTTPCamera(server.URL)
	defer cam.Close()

	_, err := cam.ReadFrame(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestHTTPCamera_Open_ProbesEndpoint(t *testing.T) {
	cam := NewHTTPCamera("http://127.0.0.1:1/snapshot.jpg")
	defer cam.Close()

	err := cam.Open(context.Background())
	assert.ErrorIs(t, err, domain.ErrCaptureUnavailable)
}
