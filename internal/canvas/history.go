package canvas

import "sync"

// History is the authoritative ordered sequence of finished strokes. Append
// and Undo are called only from the hub goroutine; the RWMutex exists so the
// REST snapshot endpoints can read concurrently. Undo removes exactly the
// most recent entry regardless of who drew it — global undo has no notion of
// per-user ownership.
type History struct {
	mu      sync.RWMutex
	strokes []*Stroke
}

func NewHistory() *History {
	return &History{}
}

// Append adds a sealed stroke to the end of the history.
func (h *History) Append(s *Stroke) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.strokes = append(h.strokes, s)
}

// Undo removes and returns the last-appended stroke. The second return is
// false when the history is empty.
func (h *History) Undo() (*Stroke, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.strokes)
	if n == 0 {
		return nil, false
	}
	s := h.strokes[n-1]
	h.strokes[n-1] = nil
	h.strokes = h.strokes[:n-1]
	return s, true
}

// Snapshot returns a copy of the full history in order, for late joiners
// and forced resyncs.
func (h *History) Snapshot() []*Stroke {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Stroke, len(h.strokes))
	copy(out, h.strokes)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.strokes)
}
