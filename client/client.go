package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Renderer is the drawing surface the client paints on. Rasterization
// itself lives outside this package; the contract here is only which
// segments and repaints happen when.
//
// A zero-length segment (from == to) is a degenerate stroke and must be
// rendered as a filled dot of the stroke width, not a line.
type Renderer interface {
	Segment(authorID string, from, to Point, color string, width float64, tool Tool)
	Redraw(history []*Stroke)
}

// Handlers are optional callbacks for non-drawing events. Nil fields are
// skipped. They are invoked from the read goroutine.
type Handlers struct {
	OnReady             func(self Participant)
	OnParticipants      func([]Participant)
	OnParticipantJoined func(Participant)
	OnParticipantLeft   func(id string)
	OnCursor            func(authorID string, x, y float64)
	OnRoomFull          func(message string)
	OnDesync            func()
	OnDisconnect        func(err error)
}

// Client holds the local view of the shared canvas: the history mirror, the
// remote in-progress strokes built purely from received point messages, and
// the locally predicted stroke while actively drawing.
type Client struct {
	renderer Renderer
	handlers Handlers

	writeMu sync.Mutex // serialises all conn writes (points, pings, resync)

	mu           sync.Mutex
	conn         *websocket.Conn
	self         Participant
	participants []Participant
	history      []*Stroke
	remote       map[string]*Stroke
	own          *Stroke
	pending      []*Stroke // predicted strokes awaiting server confirmation
	desynced     bool
}

// Dial connects to the server, starts the ping and read loops, and returns
// once the websocket is established. The snapshot that names this client
// arrives asynchronously via Handlers.OnReady.
func Dial(ctx context.Context, url string, renderer Renderer, handlers Handlers) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := newClient(renderer, handlers)
	c.conn = conn

	go c.pingLoop(ctx, conn)
	go c.readLoop(conn)
	return c, nil
}

func newClient(renderer Renderer, handlers Handlers) *Client {
	return &Client{
		renderer: renderer,
		handlers: handlers,
		remote:   make(map[string]*Stroke),
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Self returns this client's assigned identity; zero until the join
// snapshot arrives.
func (c *Client) Self() Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.self
}

// History returns a copy of the local history mirror.
func (c *Client) History() []*Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Stroke, len(c.history))
	copy(out, c.history)
	return out
}

// Desynced reports whether the mirror may have diverged from the server
// since the last snapshot.
func (c *Client) Desynced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.desynced
}

// --- local drawing input (prediction) ---

// PenDown starts a predicted stroke: renders the seed dot immediately and
// transmits the start point without waiting for the server.
func (c *Client) PenDown(x, y, width float64, tool Tool) {
	c.mu.Lock()
	p := Point{X: x, Y: y}
	c.own = &Stroke{
		AuthorID: c.self.ID,
		Color:    c.self.Color,
		Width:    width,
		Tool:     tool,
		Points:   []Point{p},
	}
	author, color := c.self.ID, c.self.Color
	c.mu.Unlock()

	c.renderer.Segment(author, p, p, color, width, tool)
	c.send(MsgPoint, PointPayload{X: x, Y: y, Width: width, Tool: tool, Phase: PhaseStart})
}

// PenMove extends the predicted stroke. A move with no active stroke is
// ignored.
func (c *Client) PenMove(x, y float64) {
	c.mu.Lock()
	if c.own == nil {
		c.mu.Unlock()
		return
	}
	p := Point{X: x, Y: y}
	prev := c.own.Points[len(c.own.Points)-1]
	c.own.Points = append(c.own.Points, p)
	author, color, width, tool := c.own.AuthorID, c.own.Color, c.own.Width, c.own.Tool
	c.mu.Unlock()

	c.renderer.Segment(author, prev, p, color, width, tool)
	c.send(MsgPoint, PointPayload{X: x, Y: y, Phase: PhaseDraw})
}

// PenUp ends the predicted stroke and appends it to the history mirror
// optimistically; the entry is replaced by identifier when the server's
// confirmation arrives. The end coordinates travel on the wire for the
// relay but are not part of the stroke: the point sequence is exactly the
// start plus the draws, matching what the server seals.
func (c *Client) PenUp(x, y float64) {
	c.mu.Lock()
	if c.own == nil {
		c.mu.Unlock()
		return
	}
	s := c.own
	c.own = nil
	c.history = append(c.history, s)
	c.pending = append(c.pending, s)
	c.mu.Unlock()

	c.send(MsgPoint, PointPayload{X: x, Y: y, Phase: PhaseEnd})
}

// SendCursor shares an ephemeral pointer position.
func (c *Client) SendCursor(x, y float64) {
	c.send(MsgCursor, CursorPayload{X: x, Y: y})
}

// Undo asks the server to remove the most recent stroke in the shared
// history, whoever drew it. The local mirror changes only when the undo
// broadcast comes back.
func (c *Client) Undo() {
	c.send(MsgUndo, nil)
}

// Resync requests a fresh authoritative snapshot.
func (c *Client) Resync() {
	c.send(MsgResync, nil)
}

// --- transport ---

func (c *Client) send(t MessageType, payload any) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("client: encode %s: %v", t, err)
			return
		}
		raw = data
	}
	data, err := json.Marshal(Envelope{Type: t, Payload: raw})
	if err != nil {
		log.Printf("client: encode %s envelope: %v", t, err)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("client: write %s: %v", t, err)
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			current := c.conn
			c.mu.Unlock()
			if current != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			conn.Close()
			if c.handlers.OnDisconnect != nil {
				c.handlers.OnDisconnect(err)
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("client: dropping malformed message: %v", err)
		return
	}

	switch env.Type {
	case MsgSnapshot:
		var p SnapshotPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.applySnapshot(p)
		}
	case MsgPoint:
		var p PointPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.applyRemotePoint(p)
		}
	case MsgStrokeFinished:
		var p StrokeFinishedPayload
		if json.Unmarshal(env.Payload, &p) == nil && p.Stroke != nil {
			c.applyStrokeFinished(p.Stroke)
		}
	case MsgUndone:
		var p UndonePayload
		if json.Unmarshal(env.Payload, &p) == nil && p.Stroke != nil {
			c.applyUndone(p.Stroke.ID)
		}
	case MsgCursor:
		var p CursorPayload
		if json.Unmarshal(env.Payload, &p) == nil && c.handlers.OnCursor != nil {
			c.handlers.OnCursor(p.AuthorID, p.X, p.Y)
		}
	case MsgParticipantJoin:
		var p ParticipantJoinedPayload
		if json.Unmarshal(env.Payload, &p) == nil && c.handlers.OnParticipantJoined != nil {
			c.handlers.OnParticipantJoined(p.Participant)
		}
	case MsgParticipantLeft:
		var p ParticipantLeftPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.applyParticipantLeft(p.ID)
		}
	case MsgParticipantList:
		var p ParticipantListPayload
		if json.Unmarshal(env.Payload, &p) == nil {
			c.applyParticipantList(p.Participants)
		}
	case MsgRoomFull:
		var p RoomFullPayload
		if json.Unmarshal(env.Payload, &p) == nil && c.handlers.OnRoomFull != nil {
			c.handlers.OnRoomFull(p.Message)
		}
	default:
		log.Printf("client: dropping message with unknown type %q", env.Type)
	}
}
