package runner

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log/slog"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/saturnino-fabrica-de-software/ponto/internal/capture"
	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/history"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ledger"
	"github.com/saturnino-fabrica-de-software/ponto/internal/matcher"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

// Recorder applies one recognition to the attendance ledger.
type Recorder interface {
	Record(ctx context.Context, identity string, now time.Time) (*ledger.Event, error)
}

// EventPublisher pushes recognition events to connected displays.
type EventPublisher interface {
	Broadcast(eventType ws.EventType, data interface{})
}

// Annotation is one face box on a frame, in full-frame coordinates.
type Annotation struct {
	Box      provider.BoundingBox `json:"box"`
	Label    string               `json:"label"`
	Matched  bool                 `json:"matched"`
	Distance float64              `json:"distance"`
}

// FrameResult is what one processed frame contributes to the display.
type FrameResult struct {
	Annotations []Annotation `json:"annotations"`
	Current     string       `json:"current"`
	History     []string     `json:"history"`
}

// Status is the recognition loop's externally visible state.
type Status struct {
	Running bool     `json:"running"`
	Current string   `json:"current"`
	History []string `json:"history"`
}

// Params collects the runner's dependencies.
type Params struct {
	Device    capture.Device
	Provider  provider.FaceProvider
	Matcher   *matcher.Matcher
	Recorder  Recorder
	History   *history.History
	Publisher EventPublisher
	Logger    *slog.Logger
	// Scale is the linear downscale factor applied before detection; boxes
	// come back multiplied by the same factor.
	Scale     int
	FrameRate int
	Now       func() time.Time
}

// Runner drives the recognition loop: grab a frame, detect, match, record,
// broadcast. One loop per process; Start and Stop are safe to call from
// any handler goroutine.
type Runner struct {
	device    capture.Device
	faces     provider.FaceProvider
	matcher   *matcher.Matcher
	recorder  Recorder
	history   *history.History
	publisher EventPublisher
	logger    *slog.Logger
	scale     int
	frameRate int
	now       func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	current string
}

func New(p Params) *Runner {
	if p.Scale < 1 {
		p.Scale = 1
	}
	if p.FrameRate < 1 {
		p.FrameRate = 30
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Runner{
		device:    p.Device,
		faces:     p.Provider,
		matcher:   p.Matcher,
		recorder:  p.Recorder,
		history:   p.History,
		publisher: p.Publisher,
		logger:    p.Logger,
		scale:     p.Scale,
		frameRate: p.FrameRate,
		now:       p.Now,
		current:   matcher.UnknownLabel,
	}
}

// Start launches the recognition loop. Returns ErrRecognitionRunning when
// the loop is already live.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return domain.ErrRecognitionRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(loopCtx, r.done)

	r.logger.Info("recognition started", "frame_rate", r.frameRate, "scale", r.scale)
	r.publisher.Broadcast(ws.EventState, Status{Running: true, Current: r.current, History: r.history.Entries()})
	return nil
}

// Stop halts the loop and resets the current label. Returns
// ErrRecognitionStopped when the loop is not running.
func (r *Runner) Stop() error {
	r.mu.Lock()
	if r.cancel == nil {
		r.mu.Unlock()
		return domain.ErrRecognitionStopped
	}
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	cancel()
	<-done

	r.mu.Lock()
	r.current = matcher.UnknownLabel
	r.mu.Unlock()

	r.logger.Info("recognition stopped")
	r.publisher.Broadcast(ws.EventState, Status{Running: false, Current: matcher.UnknownLabel, History: r.history.Entries()})
	return nil
}

// Toggle flips the loop state and reports whether it is now running.
func (r *Runner) Toggle(ctx context.Context) (bool, error) {
	if err := r.Start(ctx); err == nil {
		return true, nil
	}
	if err := r.Stop(); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		Running: r.cancel != nil,
		Current: r.current,
		History: r.history.Entries(),
	}
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(r.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := r.device.ReadFrame(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.Warn("frame capture failed", "error", err)
				continue
			}

			result, err := r.ProcessFrame(ctx, frame)
			if err != nil {
				r.logger.Error("frame processing failed", "error", err)
				continue
			}

			r.publisher.Broadcast(ws.EventFrame, result)
		}
	}
}

// ProcessFrame runs detection and matching over one frame and applies every
// match to the ledger. Detection runs on a downscaled copy; boxes are
// scaled back up to full-frame coordinates. A detector outage is logged
// and treated as a frame with no faces.
func (r *Runner) ProcessFrame(ctx context.Context, frame image.Image) (FrameResult, error) {
	now := r.now()

	encoded, err := encodeDownscaled(frame, r.scale)
	if err != nil {
		return FrameResult{}, err
	}

	faces, err := r.faces.DetectFaces(ctx, encoded)
	if err != nil {
		r.logger.Warn("face detection failed", "error", err)
		faces = nil
	}

	annotations := make([]Annotation, 0, len(faces))
	for _, face := range faces {
		res, err := r.matcher.Match(face.Embedding)
		if err != nil {
			return FrameResult{}, err
		}

		annotations = append(annotations, Annotation{
			Box:      face.BoundingBox.Scale(float64(r.scale)),
			Label:    res.Label(),
			Matched:  res.Matched,
			Distance: res.Distance,
		})

		if !res.Matched {
			continue
		}

		event, err := r.recorder.Record(ctx, res.Identity, now)
		if err != nil {
			r.logger.Error("attendance record failed", "identity", res.Identity, "error", err)
			continue
		}
		if event == nil {
			continue
		}

		r.history.Push(event.Description)
		r.publisher.Broadcast(ws.EventAttendance, event)
		r.logger.Info("attendance recorded", "identity", event.Record.Identity, "kind", event.Record.Kind)
	}

	r.mu.Lock()
	if len(annotations) > 0 {
		r.current = annotations[0].Label
	}
	current := r.current
	r.mu.Unlock()

	return FrameResult{
		Annotations: annotations,
		Current:     current,
		History:     r.history.Entries(),
	}, nil
}

// encodeDownscaled shrinks frame by 1/scale on each axis and re-encodes it
// as JPEG for the detector.
func encodeDownscaled(frame image.Image, scale int) ([]byte, error) {
	src := frame.Bounds()
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, src.Dx()/scale, src.Dy()/scale))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, src, xdraw.Over, nil)
		frame = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, nil); err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	return buf.Bytes(), nil
}
