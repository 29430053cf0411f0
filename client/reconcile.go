package client

// Reconciliation: merging the predicted local state with the authoritative
// server state. The server is the sole source of truth; everything here
// degrades toward a forced resync rather than corrupting the mirror.

// applySnapshot replaces the local history wholesale. Arrives on join and
// after a resync request.
func (c *Client) applySnapshot(p SnapshotPayload) {
	c.mu.Lock()
	c.history = make([]*Stroke, len(p.Strokes))
	copy(c.history, p.Strokes)
	c.remote = make(map[string]*Stroke)
	c.pending = nil
	c.desynced = false
	if len(p.Participants) > 0 {
		c.participants = p.Participants
	}
	var ready bool
	if p.Self != "" {
		for _, part := range p.Participants {
			if part.ID == p.Self {
				c.self = part
				ready = true
				break
			}
		}
	}
	self := c.self
	view := c.historyLocked()
	c.mu.Unlock()

	c.renderer.Redraw(view)
	if ready && c.handlers.OnReady != nil {
		c.handlers.OnReady(self)
	}
	if c.handlers.OnParticipants != nil && len(p.Participants) > 0 {
		c.handlers.OnParticipants(p.Participants)
	}
}

// applyRemotePoint runs another participant's point through the same
// start/draw/end machine the server uses, against the remote in-progress
// table, and renders the new segment immediately.
func (c *Client) applyRemotePoint(p PointPayload) {
	c.mu.Lock()
	if p.AuthorID == "" || p.AuthorID == c.self.ID {
		c.mu.Unlock()
		return
	}

	type segment struct {
		from, to Point
		color    string
		width    float64
		tool     Tool
	}
	var seg *segment

	switch p.Phase {
	case PhaseStart:
		s := &Stroke{
			AuthorID: p.AuthorID,
			Color:    c.participantColorLocked(p.AuthorID),
			Width:    p.Width,
			Tool:     p.Tool,
			Points:   []Point{{X: p.X, Y: p.Y}},
		}
		c.remote[p.AuthorID] = s
		pt := Point{X: p.X, Y: p.Y}
		seg = &segment{from: pt, to: pt, color: s.Color, width: s.Width, tool: s.Tool}
	case PhaseDraw:
		if s, ok := c.remote[p.AuthorID]; ok {
			prev := s.Points[len(s.Points)-1]
			pt := Point{X: p.X, Y: p.Y}
			s.Points = append(s.Points, pt)
			seg = &segment{from: prev, to: pt, color: s.Color, width: s.Width, tool: s.Tool}
		}
	case PhaseEnd:
		delete(c.remote, p.AuthorID)
	}
	c.mu.Unlock()

	if seg != nil {
		c.renderer.Segment(p.AuthorID, seg.from, seg.to, seg.color, seg.width, seg.tool)
	}
}

// applyStrokeFinished reconciles a server-confirmed stroke. Self-authored
// confirmations replace the oldest predicted entry by identifier so the
// mirror converges to the authoritative record even if the finalized points
// differ from the prediction; everyone else's are appended.
func (c *Client) applyStrokeFinished(s *Stroke) {
	c.mu.Lock()
	var stale bool
	if s.AuthorID == c.self.ID && len(c.pending) > 0 {
		predicted := c.pending[0]
		c.pending = c.pending[1:]
		replaced := false
		for i, entry := range c.history {
			if entry == predicted {
				c.history[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			c.history = append(c.history, s)
		}
		// The canvas already shows the prediction; repaint only when the
		// server finalized something different.
		stale = !pointsEqual(predicted.Points, s.Points)
	} else {
		c.history = append(c.history, s)
	}
	view := c.historyLocked()
	c.mu.Unlock()

	if stale {
		c.renderer.Redraw(view)
	}
}

// applyUndone removes a stroke from the mirror by identifier, tolerating
// reordering. An unknown identifier means the mirror has drifted: repaint
// from what we have, flag the desync, and ask for a snapshot.
func (c *Client) applyUndone(id string) {
	c.mu.Lock()
	found := -1
	for i, s := range c.history {
		if s.ID == id {
			found = i
			break
		}
	}
	if found >= 0 {
		c.history = append(c.history[:found], c.history[found+1:]...)
	} else {
		c.desynced = true
	}
	view := c.historyLocked()
	desynced := c.desynced
	c.mu.Unlock()

	c.renderer.Redraw(view)
	if found < 0 {
		if c.handlers.OnDesync != nil {
			c.handlers.OnDesync()
		}
		if desynced {
			c.Resync()
		}
	}
}

func (c *Client) applyParticipantLeft(id string) {
	c.mu.Lock()
	delete(c.remote, id)
	c.mu.Unlock()
	if c.handlers.OnParticipantLeft != nil {
		c.handlers.OnParticipantLeft(id)
	}
}

func (c *Client) applyParticipantList(list []Participant) {
	c.mu.Lock()
	c.participants = list
	c.mu.Unlock()
	if c.handlers.OnParticipants != nil {
		c.handlers.OnParticipants(list)
	}
}

// participantColorLocked resolves an author's assigned color. Caller holds
// c.mu.
func (c *Client) participantColorLocked(authorID string) string {
	for _, p := range c.participants {
		if p.ID == authorID {
			return p.Color
		}
	}
	return "#000000"
}

// historyLocked copies the mirror for handing to the renderer. Caller holds
// c.mu.
func (c *Client) historyLocked() []*Stroke {
	out := make([]*Stroke, len(c.history))
	copy(out, c.history)
	return out
}

func pointsEqual(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
