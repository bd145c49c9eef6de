package capture

import (
	"context"
	"image"
)

// Device is a frame source for the recognition loop. Implementations must
// be safe to close while a ReadFrame is blocked.
type Device interface {
	Open(ctx context.Context) error
	ReadFrame(ctx context.Context) (image.Image, error)
	Close() error
}
