package store

import (
	"sync"
	"time"

	"github.com/i474232898/clock-widget/internal/widget"
)

// History is a concurrency-safe in-memory journal of ended widget cycles.
type History struct {
	mu sync.RWMutex

	// oldest first
	entries []widget.State

	maxEntries int           // max number of cycles kept
	maxAge     time.Duration // optional max age, measured from EndedAt
	now        func() time.Time
}

// NewHistory creates a History with optional limits.
// If maxEntries or maxAge is <= 0, that limit is not applied.
func NewHistory(maxEntries int, maxAge time.Duration) *History {
	return &History{
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Record appends the final state of a cycle and enforces retention.
func (h *History) Record(st widget.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, st)

	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		over := len(h.entries) - h.maxEntries
		h.entries = append([]widget.State(nil), h.entries[over:]...)
	}
	h.expire()
}

// Recent returns the kept cycles, newest first.
func (h *History) Recent() []widget.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.expire()
	out := make([]widget.State, len(h.entries))
	for i, st := range h.entries {
		out[len(h.entries)-1-i] = st
	}
	return out
}

// Len returns the number of kept cycles.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// expire drops entries older than maxAge. Callers hold h.mu.
func (h *History) expire() {
	if h.maxAge <= 0 {
		return
	}
	cutoff := h.now().Add(-h.maxAge)
	i := 0
	for ; i < len(h.entries); i++ {
		if !h.entries[i].EndedAt.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		h.entries = append([]widget.State(nil), h.entries[i:]...)
	}
}
