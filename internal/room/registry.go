// Package room tracks connected participants and assigns their display
// identity and color.
package room

import (
	"errors"
	"fmt"
	"sync"
)

// ErrRoomFull is returned by Join when the capacity bound is reached.
var ErrRoomFull = errors.New("room is full")

// Participant is the ephemeral identity of one connection. ID is the opaque
// connection handle; Name and Color are assigned on join and never change
// for the lifetime of the connection.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Registry is the capacity-bounded participant table. Joins and leaves are
// driven by the hub goroutine; the RWMutex lets REST readers list
// concurrently.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	palette  []string
	byID     map[string]*Participant
	order    []string // insertion order of live participants
	joinSeq  int      // total successful joins, ever
}

func NewRegistry(capacity int, palette []string) *Registry {
	return &Registry{
		capacity: capacity,
		palette:  palette,
		byID:     make(map[string]*Participant),
	}
}

// Join registers a new participant. The name derives from the join ordinal
// and the color is palette[(ordinal-1) mod len(palette)], so colors repeat
// once more participants have joined than the palette holds — a documented
// property, not a bug. Returns ErrRoomFull at capacity.
func (r *Registry) Join(connID string) (Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.byID) >= r.capacity {
		return Participant{}, ErrRoomFull
	}
	r.joinSeq++
	p := &Participant{
		ID:    connID,
		Name:  fmt.Sprintf("Guest %d", r.joinSeq),
		Color: r.palette[(r.joinSeq-1)%len(r.palette)],
	}
	r.byID[connID] = p
	r.order = append(r.order, connID)
	return *p, nil
}

// Leave removes the participant. Idempotent if already absent.
func (r *Registry) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[connID]; !ok {
		return
	}
	delete(r.byID, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the participant, if present.
func (r *Registry) Get(connID string) (Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[connID]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// List returns a snapshot of live participants in insertion order.
func (r *Registry) List() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
