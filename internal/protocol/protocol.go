// Package protocol defines the wire messages exchanged between the canvas
// server and its clients, with boundary validation so malformed input never
// reaches the state machine.
package protocol

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/drawparty/backend/internal/canvas"
	"github.com/drawparty/backend/internal/room"
)

type MessageType string

const (
	// Client -> server.
	MsgPoint  MessageType = "point"
	MsgCursor MessageType = "cursor"
	MsgUndo   MessageType = "undo"
	MsgResync MessageType = "resync"

	// Server -> client. MsgPoint and MsgCursor are also relayed outbound
	// with the author id stamped in.
	MsgSnapshot        MessageType = "snapshot"
	MsgStrokeFinished  MessageType = "stroke_finished"
	MsgUndone          MessageType = "undone"
	MsgParticipantJoin MessageType = "participant_joined"
	MsgParticipantLeft MessageType = "participant_left"
	MsgParticipantList MessageType = "participant_list"
	MsgRoomFull        MessageType = "room_full"
)

// Phase is the position of a point message within a stroke's lifecycle.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseDraw  Phase = "draw"
	PhaseEnd   Phase = "end"
)

// Envelope wraps every message on the wire.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PointPayload streams one point of an in-progress stroke. Width and Tool
// only matter on the start phase. AuthorID is empty client->server; the
// server stamps it before relaying.
type PointPayload struct {
	AuthorID string      `json:"authorId,omitempty"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width,omitempty"`
	Tool     canvas.Tool `json:"tool"`
	Phase    Phase       `json:"phase"`
}

// CursorPayload is an ephemeral pointer position; never persisted.
type CursorPayload struct {
	AuthorID string  `json:"authorId,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// SnapshotPayload carries the full authoritative state to one connection,
// on join or resync. A client replaces its mirror wholesale.
type SnapshotPayload struct {
	Strokes      []*canvas.Stroke   `json:"strokes"`
	Participants []room.Participant `json:"participants"`
	// Self identifies the receiving connection within Participants. Empty
	// on resync snapshots.
	Self string `json:"self,omitempty"`
}

type StrokeFinishedPayload struct {
	Stroke *canvas.Stroke `json:"stroke"`
}

// UndonePayload carries the whole removed stroke; clients remove by its
// identifier so reordering is tolerated.
type UndonePayload struct {
	Stroke *canvas.Stroke `json:"stroke"`
}

type ParticipantJoinedPayload struct {
	Participant room.Participant `json:"participant"`
}

type ParticipantLeftPayload struct {
	ID string `json:"id"`
}

type ParticipantListPayload struct {
	Participants []room.Participant `json:"participants"`
}

type RoomFullPayload struct {
	Message string `json:"message"`
}

// Encode marshals an envelope around the given payload.
func Encode(t MessageType, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", t, err)
		}
		raw = data
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}

// MustEncode is Encode for messages built from our own types, where a
// marshal failure is a programming error.
func MustEncode(t MessageType, payload any) []byte {
	data, err := Encode(t, payload)
	if err != nil {
		panic(err)
	}
	return data
}

// Decode parses the outer envelope. The payload stays raw until the
// type-specific decode.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode envelope: missing type")
	}
	return &env, nil
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// DecodePoint validates a point payload: finite coordinates, a known phase,
// and a positive finite width on start.
func DecodePoint(raw json.RawMessage) (PointPayload, error) {
	var p PointPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decode point: %w", err)
	}
	if !finite(p.X, p.Y) {
		return p, fmt.Errorf("point has non-finite coordinates")
	}
	switch p.Phase {
	case PhaseStart:
		if !finite(p.Width) || p.Width <= 0 {
			return p, fmt.Errorf("stroke width must be positive, got %v", p.Width)
		}
	case PhaseDraw, PhaseEnd:
	default:
		return p, fmt.Errorf("unknown point phase %q", p.Phase)
	}
	return p, nil
}

// DecodeCursor validates a cursor payload.
func DecodeCursor(raw json.RawMessage) (CursorPayload, error) {
	var c CursorPayload
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("decode cursor: %w", err)
	}
	if !finite(c.X, c.Y) {
		return c, fmt.Errorf("cursor has non-finite coordinates")
	}
	return c, nil
}
