package canvas

import (
	"fmt"
	"testing"
)

func sealed(id string) *Stroke {
	return &Stroke{ID: id, AuthorID: "a", Color: "#111", Width: 2, Points: []Point{{0, 0}}}
}

func TestHistory_AppendThenUndoLength(t *testing.T) {
	h := NewHistory()

	const appends = 5
	const undos = 3
	for i := 0; i < appends; i++ {
		h.Append(sealed(fmt.Sprintf("%d:a", i)))
	}
	for i := 0; i < undos; i++ {
		if _, ok := h.Undo(); !ok {
			t.Fatalf("undo %d reported empty history", i)
		}
	}

	if got := h.Len(); got != appends-undos {
		t.Errorf("Len = %d, want %d", got, appends-undos)
	}
}

func TestHistory_UndoRemovesMostRecent(t *testing.T) {
	h := NewHistory()
	h.Append(sealed("1:a"))
	h.Append(sealed("2:b"))

	s, ok := h.Undo()
	if !ok {
		t.Fatal("Undo reported empty history")
	}
	if s.ID != "2:b" {
		t.Errorf("Undo returned %q, want most recent %q", s.ID, "2:b")
	}

	snap := h.Snapshot()
	if len(snap) != 1 || snap[0].ID != "1:a" {
		t.Errorf("remaining history = %v, want just 1:a", snap)
	}
}

func TestHistory_UndoOnEmptyIsIdempotentNoop(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 3; i++ {
		if s, ok := h.Undo(); ok || s != nil {
			t.Errorf("Undo on empty history returned (%v, %v), want (nil, false)", s, ok)
		}
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d after empty undos, want 0", h.Len())
	}
}

func TestHistory_SnapshotIsDetached(t *testing.T) {
	h := NewHistory()
	h.Append(sealed("1:a"))

	snap := h.Snapshot()
	h.Append(sealed("2:a"))

	if len(snap) != 1 {
		t.Errorf("earlier snapshot grew to %d entries", len(snap))
	}
	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}
}

func TestStroke_Clone(t *testing.T) {
	s := sealed("1:a")
	c := s.Clone()
	c.Points[0] = Point{99, 99}

	if s.Points[0] != (Point{0, 0}) {
		t.Error("mutating the clone changed the original's points")
	}
}

func TestTool_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		tool Tool
		name string
	}{
		{Freehand, "freehand"},
		{Erase, "erase"},
	}
	for _, tt := range tests {
		data, err := tt.tool.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %v: %v", tt.tool, err)
		}
		if string(data) != `"`+tt.name+`"` {
			t.Errorf("marshal %v = %s, want %q", tt.tool, data, tt.name)
		}
		var back Tool
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != tt.tool {
			t.Errorf("round trip %v -> %v", tt.tool, back)
		}
	}

	if !KnownTool("erase") || KnownTool("crayon") {
		t.Error("KnownTool misclassified a tool name")
	}
}
