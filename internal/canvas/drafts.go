package canvas

import "fmt"

// Drafts tracks at most one in-progress stroke per author and seals finished
// strokes with identifiers that are unique across authors and across time.
// It is mutated only by the hub goroutine, so it carries no lock.
type Drafts struct {
	active  map[string]*Stroke
	nextSeq uint64
}

func NewDrafts() *Drafts {
	return &Drafts{active: make(map[string]*Stroke)}
}

// Start opens a new in-progress stroke seeded with the first point. A start
// while the author already has an active stroke replaces it silently: the
// previous partial stroke is lost, which protects against a missed end.
func (d *Drafts) Start(authorID, color string, width float64, tool Tool, first Point) {
	d.active[authorID] = &Stroke{
		AuthorID: authorID,
		Color:    color,
		Width:    width,
		Tool:     tool,
		Points:   []Point{first},
	}
}

// Extend appends a point to the author's active stroke. With no active
// stroke (late or out-of-order draw) it is a no-op.
func (d *Drafts) Extend(authorID string, p Point) {
	if s, ok := d.active[authorID]; ok {
		s.Points = append(s.Points, p)
	}
}

// Finish seals the author's active stroke: assigns its identifier, clears
// the draft slot, and returns the now-immutable stroke. Returns nil with no
// active stroke (end while idle is a no-op).
func (d *Drafts) Finish(authorID string) *Stroke {
	s, ok := d.active[authorID]
	if !ok {
		return nil
	}
	delete(d.active, authorID)
	d.nextSeq++
	s.ID = fmt.Sprintf("%d:%s", d.nextSeq, authorID)
	return s
}

// Abandon discards the author's in-progress stroke, if any, without
// finalizing it. Used on disconnect.
func (d *Drafts) Abandon(authorID string) {
	delete(d.active, authorID)
}

// ActiveCount returns the number of strokes currently being drawn.
func (d *Drafts) ActiveCount() int {
	return len(d.active)
}
