// Package canvas holds the authoritative drawing state: the stroke model,
// the per-author in-progress stroke table, and the ordered history that is
// the single serialization of the shared canvas.
package canvas

import "encoding/json"

// Tool selects how a stroke is applied to the canvas.
type Tool int

const (
	Freehand Tool = iota
	Erase
)

var toolNames = map[Tool]string{
	Freehand: "freehand",
	Erase:    "erase",
}

var toolFromName = map[string]Tool{
	"freehand": Freehand,
	"erase":    Erase,
}

func (t Tool) String() string {
	if s, ok := toolNames[t]; ok {
		return s
	}
	return "unknown"
}

func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tool) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := toolFromName[s]; ok {
		*t = v
	}
	return nil
}

// KnownTool reports whether name maps to a tool.
func KnownTool(name string) bool {
	_, ok := toolFromName[name]
	return ok
}

// Point is a canvas-local coordinate. Translation from device coordinates
// happens in the input layer before points reach this package.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous freehand path. While in progress ID is empty and
// Points grows; once sealed by Drafts.Finish the stroke is immutable. A
// single-point stroke is legal and renders as a dot.
type Stroke struct {
	ID       string  `json:"id"`
	AuthorID string  `json:"authorId"`
	Color    string  `json:"color"`
	Width    float64 `json:"width"`
	Tool     Tool    `json:"tool"`
	Points   []Point `json:"points"`
}

// Clone returns a deep copy so the original can keep growing while the copy
// is retained or marshaled.
func (s *Stroke) Clone() *Stroke {
	c := *s
	c.Points = make([]Point, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}
