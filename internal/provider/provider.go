package provider

import "context"

// FaceProvider is the face-detection/embedding primitive. Implementations
// take an encoded image and return every face found in it, each with its
// bounding box (in the coordinates of the supplied image) and embedding.
type FaceProvider interface {
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// DetectedFace is a face found in a single image. Transient: produced fresh
// per call, never persisted.
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Embedding   []float64   `json:"-"`
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scale multiplies all four box components by f. Used to map boxes detected
// on a downscaled frame back to full-frame coordinates.
func (b BoundingBox) Scale(f float64) BoundingBox {
	return BoundingBox{
		X:      b.X * f,
		Y:      b.Y * f,
		Width:  b.Width * f,
		Height: b.Height * f,
	}
}
