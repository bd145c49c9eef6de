package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

const (
	defaultRequestTimeout = 5 * time.Second
	maxFrameBytes         = 16 << 20
)

// HTTPCamera pulls frames from an IP camera's snapshot endpoint, one GET
// per frame. Most webcam streamers (mjpg-streamer, IP Webcam) expose one.
type HTTPCamera struct {
	url    string
	client *http.Client
}

func NewHTTPCamera(url string) *HTTPCamera {
	return &HTTPCamera{
		url: url,
		client: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

// Open probes the snapshot endpoint once so a dead camera fails at startup
// instead of on the first frame.
func (c *HTTPCamera) Open(ctx context.Context) error {
	if _, err := c.ReadFrame(ctx); err != nil {
		return err
	}
	return nil
}

func (c *HTTPCamera) ReadFrame(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, domain.ErrCaptureUnavailable.WithError(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.ErrCaptureUnavailable.WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrCaptureUnavailable.WithError(
			fmt.Errorf("camera returned status %d", resp.StatusCode))
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("decode frame: %w", err))
	}

	return img, nil
}

func (c *HTTPCamera) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
