package remote

import "github.com/example/scribble/internal/session"

// Message is a request from a remote client.
//
// Type is one of down, move, up, leave (X and Y in canvas coordinates),
// control (Field and Value), undo, redo, clear, flip (Value "horizontal"
// or "vertical"), export or status.
type Message struct {
	Type  string  `json:"type"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Field string  `json:"field,omitempty"`
	Value string  `json:"value,omitempty"`
}

// Reply answers one Message. Image holds the PNG for export and is
// base64 encoded on the wire.
type Reply struct {
	Type  string          `json:"type"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	State *session.Status `json:"state,omitempty"`
	Undo  int             `json:"undo"`
	Redo  int             `json:"redo"`
	Image []byte          `json:"image,omitempty"`
}

// Event is pushed to every client when the session changes.
type Event struct {
	Type   string `json:"type"` // always "change"
	Pixels bool   `json:"pixels"`
	Style  bool   `json:"style"`
	Undo   int    `json:"undo"`
	Redo   int    `json:"redo"`
}
