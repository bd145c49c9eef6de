package matcher

import (
	"strings"
	"sync"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/gallery"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

// Matcher resolves a detected face embedding to a known identity, or to
// "unknown" when the same-person classifier rejects the closest entry.
type Matcher struct {
	mu        sync.RWMutex
	gallery   *gallery.Gallery
	tolerance float64
}

// Result of matching one embedding against the gallery.
type Result struct {
	Matched  bool
	Identity string
	Distance float64
}

// UnknownLabel is what unmatched faces are labelled with on the display.
const UnknownLabel = "Unknown"

func New(g *gallery.Gallery, tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = provider.DefaultTolerance
	}
	return &Matcher{
		gallery:   g,
		tolerance: tolerance,
	}
}

// Match finds the gallery entry closest to embedding, then consults the
// same-person classifier for that entry. The two computations are
// independent: the numerically closest entry may still classify as a
// different person, in which case the face is unmatched regardless of how
// small the distance is relative to other entries. Ties on distance resolve
// to the lowest index. Identity labels are upper-cased in the result.
func (m *Matcher) Match(embedding []float64) (Result, error) {
	m.mu.RLock()
	entries := m.gallery.Entries()
	m.mu.RUnlock()
	if len(entries) == 0 {
		return Result{}, domain.ErrEmptyGallery
	}

	best := 0
	bestDistance := provider.EuclideanDistance(entries[0].Embedding, embedding)
	for i := 1; i < len(entries); i++ {
		if d := provider.EuclideanDistance(entries[i].Embedding, embedding); d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	same := make([]bool, len(entries))
	for i, e := range entries {
		same[i] = provider.SameFace(e.Embedding, embedding, m.tolerance)
	}

	if !same[best] {
		return Result{Matched: false, Distance: bestDistance}, nil
	}

	return Result{
		Matched:  true,
		Identity: strings.ToUpper(entries[best].Identity),
		Distance: bestDistance,
	}, nil
}

// SetGallery swaps the gallery under the matcher, for reloads after an
// enrollment change. In-flight matches finish against the old gallery.
func (m *Matcher) SetGallery(g *gallery.Gallery) {
	m.mu.Lock()
	m.gallery = g
	m.mu.Unlock()
}

// Label returns the display label for a result.
func (r Result) Label() string {
	if !r.Matched {
		return UnknownLabel
	}
	return r.Identity
}
