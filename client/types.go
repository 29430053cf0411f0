// Package client is the drawing-side half of the synchronization protocol:
// it predicts strokes locally for latency hiding, mirrors the authoritative
// history, and reconciles the two as confirmations, undos, and snapshots
// arrive. Types mirror the server wire protocol without importing server
// packages.
package client

import "encoding/json"

// MessageType identifies the kind of protocol message.
type MessageType string

const (
	MsgPoint  MessageType = "point"
	MsgCursor MessageType = "cursor"
	MsgUndo   MessageType = "undo"
	MsgResync MessageType = "resync"

	MsgSnapshot        MessageType = "snapshot"
	MsgStrokeFinished  MessageType = "stroke_finished"
	MsgUndone          MessageType = "undone"
	MsgParticipantJoin MessageType = "participant_joined"
	MsgParticipantLeft MessageType = "participant_left"
	MsgParticipantList MessageType = "participant_list"
	MsgRoomFull        MessageType = "room_full"
)

// Phase is the position of a point message within a stroke.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseDraw  Phase = "draw"
	PhaseEnd   Phase = "end"
)

// Tool mirrors the server-side stroke tool enum.
type Tool string

const (
	ToolFreehand Tool = "freehand"
	ToolErase    Tool = "erase"
)

// Envelope is the outer frame of every message.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke mirrors the server stroke record. ID is empty on locally predicted
// strokes until the server confirms them.
type Stroke struct {
	ID       string  `json:"id"`
	AuthorID string  `json:"authorId"`
	Color    string  `json:"color"`
	Width    float64 `json:"width"`
	Tool     Tool    `json:"tool"`
	Points   []Point `json:"points"`
}

type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PointPayload struct {
	AuthorID string  `json:"authorId,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width,omitempty"`
	Tool     Tool    `json:"tool"`
	Phase    Phase   `json:"phase"`
}

type CursorPayload struct {
	AuthorID string  `json:"authorId,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type SnapshotPayload struct {
	Strokes      []*Stroke     `json:"strokes"`
	Participants []Participant `json:"participants"`
	Self         string        `json:"self,omitempty"`
}

type StrokeFinishedPayload struct {
	Stroke *Stroke `json:"stroke"`
}

type UndonePayload struct {
	Stroke *Stroke `json:"stroke"`
}

type ParticipantJoinedPayload struct {
	Participant Participant `json:"participant"`
}

type ParticipantLeftPayload struct {
	ID string `json:"id"`
}

type ParticipantListPayload struct {
	Participants []Participant `json:"participants"`
}

type RoomFullPayload struct {
	Message string `json:"message"`
}
