// Package hub is the server-side synchronization engine. A single goroutine
// owns every mutation of the registry, the draft strokes, and the history:
// inbound events are queued onto one channel and processed to completion in
// arrival order, so there is no cross-connection interleaving inside a
// message and no locking in the protocol logic. This single-writer loop is a
// deliberate simplification and the scaling limit of one server instance.
package hub

import (
	"context"
	"log"

	"github.com/drawparty/backend/internal/canvas"
	"github.com/drawparty/backend/internal/protocol"
	"github.com/drawparty/backend/internal/room"
)

const roomFullMessage = "The room is currently full."

type eventKind int

const (
	evConnect eventKind = iota
	evMessage
	evDisconnect
)

type event struct {
	kind eventKind
	c    *client
	id   string
	data []byte
}

type Hub struct {
	registry *room.Registry
	history  *canvas.History
	drafts   *canvas.Drafts
	sendBuf  int

	events  chan event
	clients map[string]*client // touched only by run loop
}

func New(registry *room.Registry, history *canvas.History, sendBuf int) *Hub {
	return &Hub{
		registry: registry,
		history:  history,
		drafts:   canvas.NewDrafts(),
		sendBuf:  sendBuf,
		events:   make(chan event, 256),
		clients:  make(map[string]*client),
	}
}

// Run processes events until the context is cancelled. It must be running
// before Connect is called.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.clients {
				h.closeClient(c)
			}
			h.clients = make(map[string]*client)
			return
		case ev := <-h.events:
			switch ev.kind {
			case evConnect:
				h.handleConnect(ev.c)
			case evMessage:
				h.handleMessage(ev.id, ev.data)
			case evDisconnect:
				h.handleDisconnect(ev.id)
			}
		}
	}
}

// Connect hands a new connection to the hub. The transport layer keeps
// reading and feeding Inbound until the connection dies.
func (h *Hub) Connect(id string, c conn) {
	h.events <- event{kind: evConnect, c: newClient(id, c, h)}
}

// Inbound enqueues a raw message received from the given connection.
func (h *Hub) Inbound(id string, data []byte) {
	h.events <- event{kind: evMessage, id: id, data: data}
}

// Disconnect enqueues a connection-closed event. Safe to call for ids the
// hub never accepted or has already removed.
func (h *Hub) Disconnect(id string) {
	h.events <- event{kind: evDisconnect, id: id}
}

// History exposes the authoritative store for read-only REST snapshots.
func (h *Hub) History() *canvas.History { return h.history }

// Registry exposes the participant table for read-only REST snapshots.
func (h *Hub) Registry() *room.Registry { return h.registry }

// --- run-loop handlers ---

func (h *Hub) handleConnect(c *client) {
	p, err := h.registry.Join(c.id)
	if err != nil {
		// Explicit full-room notice, then the server closes the
		// connection (closing send lets writePump flush the notice).
		log.Printf("join rejected (%s): %v", c.id, err)
		h.enqueue(c, protocol.MustEncode(protocol.MsgRoomFull, protocol.RoomFullPayload{
			Message: roomFullMessage,
		}))
		h.closeClient(c)
		return
	}

	h.clients[c.id] = c
	log.Printf("participant joined: %s (%s)", p.Name, p.ID)

	// Full history to the new connection only, then the join fan-out.
	h.enqueue(c, protocol.MustEncode(protocol.MsgSnapshot, protocol.SnapshotPayload{
		Strokes:      h.history.Snapshot(),
		Participants: h.registry.List(),
		Self:         p.ID,
	}))
	h.broadcast(protocol.MustEncode(protocol.MsgParticipantJoin, protocol.ParticipantJoinedPayload{Participant: p}))
	h.broadcast(protocol.MustEncode(protocol.MsgParticipantList, protocol.ParticipantListPayload{Participants: h.registry.List()}))
}

func (h *Hub) handleDisconnect(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	h.closeClient(c)

	// A mid-stroke disconnect abandons the draft without finalizing it.
	h.drafts.Abandon(id)

	p, _ := h.registry.Get(id)
	h.registry.Leave(id)
	log.Printf("participant left: %s (%s)", p.Name, id)

	h.broadcast(protocol.MustEncode(protocol.MsgParticipantLeft, protocol.ParticipantLeftPayload{ID: id}))
	h.broadcast(protocol.MustEncode(protocol.MsgParticipantList, protocol.ParticipantListPayload{Participants: h.registry.List()}))
}

func (h *Hub) handleMessage(id string, data []byte) {
	c, ok := h.clients[id]
	if !ok {
		return // raced with disconnect
	}

	env, err := protocol.Decode(data)
	if err != nil {
		log.Printf("dropping malformed message from %s: %v", id, err)
		return
	}

	switch env.Type {
	case protocol.MsgPoint:
		h.handlePoint(c, env.Payload)
	case protocol.MsgCursor:
		h.handleCursor(c, env.Payload)
	case protocol.MsgUndo:
		h.handleUndo(c)
	case protocol.MsgResync:
		h.enqueue(c, protocol.MustEncode(protocol.MsgSnapshot, protocol.SnapshotPayload{
			Strokes:      h.history.Snapshot(),
			Participants: h.registry.List(),
		}))
	default:
		log.Printf("dropping message with unknown type %q from %s", env.Type, id)
	}
}

func (h *Hub) handlePoint(c *client, raw []byte) {
	p, err := protocol.DecodePoint(raw)
	if err != nil {
		log.Printf("dropping point from %s: %v", c.id, err)
		return
	}
	p.AuthorID = c.id

	// Relay the raw point to everyone else immediately, regardless of
	// state-machine outcome, so remote in-progress rendering stays live.
	h.broadcastOthers(c.id, protocol.MustEncode(protocol.MsgPoint, p))

	switch p.Phase {
	case protocol.PhaseStart:
		participant, _ := h.registry.Get(c.id)
		h.drafts.Start(c.id, participant.Color, p.Width, p.Tool, canvas.Point{X: p.X, Y: p.Y})
	case protocol.PhaseDraw:
		// No-op when idle: a draw after end or disconnect is late, not
		// an error.
		h.drafts.Extend(c.id, canvas.Point{X: p.X, Y: p.Y})
	case protocol.PhaseEnd:
		finished := h.drafts.Finish(c.id)
		if finished == nil {
			return
		}
		h.history.Append(finished)
		// The finished stroke goes to everyone, sender included, so the
		// author can reconcile its prediction against the confirmed
		// record.
		h.broadcast(protocol.MustEncode(protocol.MsgStrokeFinished, protocol.StrokeFinishedPayload{Stroke: finished}))
	}
}

func (h *Hub) handleCursor(c *client, raw []byte) {
	cur, err := protocol.DecodeCursor(raw)
	if err != nil {
		log.Printf("dropping cursor from %s: %v", c.id, err)
		return
	}
	cur.AuthorID = c.id
	h.broadcastOthers(c.id, protocol.MustEncode(protocol.MsgCursor, cur))
}

func (h *Hub) handleUndo(c *client) {
	undone, ok := h.history.Undo()
	if !ok {
		return // undo on empty history: no-op, no broadcast
	}
	log.Printf("undo by %s removed stroke %s", c.id, undone.ID)
	h.broadcast(protocol.MustEncode(protocol.MsgUndone, protocol.UndonePayload{Stroke: undone}))
}

// --- fan-out ---

// enqueue queues a message for one client, disconnecting it if its
// outbound queue is full. Delivery is fire-and-forget; backpressure is the
// transport's problem, never the loop's.
func (h *Hub) enqueue(c *client, msg []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		log.Printf("client %s can't keep up, disconnecting", c.id)
		if _, tracked := h.clients[c.id]; tracked {
			h.handleDisconnect(c.id)
		} else {
			h.closeClient(c)
		}
	}
}

func (h *Hub) closeClient(c *client) {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (h *Hub) broadcast(msg []byte) {
	for _, c := range h.snapshotClients() {
		h.enqueue(c, msg)
	}
}

func (h *Hub) broadcastOthers(senderID string, msg []byte) {
	for _, c := range h.snapshotClients() {
		if c.id == senderID {
			continue
		}
		h.enqueue(c, msg)
	}
}

// snapshotClients copies the client list so enqueue may remove entries
// mid-iteration.
func (h *Hub) snapshotClients() []*client {
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}
