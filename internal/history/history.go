package history

import "sync"

// DefaultSize is how many recent recognition events the display keeps.
const DefaultSize = 5

// History is a bounded in-memory buffer of the most recent ledger event
// descriptions, oldest first. Process-lifetime only; reset on restart.
type History struct {
	mu      sync.Mutex
	max     int
	entries []string
}

func New(max int) *History {
	if max <= 0 {
		max = DefaultSize
	}
	return &History{max: max}
}

// Push appends description and evicts the oldest entry past capacity.
func (h *History) Push(description string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, description)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Entries returns a copy of the buffer in push order.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
