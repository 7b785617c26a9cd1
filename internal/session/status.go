package session

import "github.com/example/scribble/internal/paint"

// Status is a point-in-time summary of a session, shaped for JSON.
type Status struct {
	State         string  `json:"state"`
	Tool          string  `json:"tool"`
	Color         string  `json:"color"`
	Size          float64 `json:"size"`
	Opacity       float64 `json:"opacity"`
	Hardness      float64 `json:"hardness"`
	LineThickness float64 `json:"lineThickness"`
	TextSize      float64 `json:"textSize"`
	TextOpacity   float64 `json:"textOpacity"`
	Text          string  `json:"text"`
	Sides         int     `json:"sides"`
	Background    string  `json:"backgroundColor"`
	Rotation      float64 `json:"rotation"`
	Zoom          float64 `json:"zoom"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Undo          int     `json:"undo"`
	Redo          int     `json:"redo"`
}

// Status returns the current session summary.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.style
	size := c.r.Bounds().Size()
	return Status{
		State:         c.state.String(),
		Tool:          s.Tool.String(),
		Color:         paint.FormatColor(s.Color),
		Size:          s.Size,
		Opacity:       s.Opacity,
		Hardness:      s.Hardness,
		LineThickness: s.LineThickness,
		TextSize:      s.TextSize,
		TextOpacity:   s.TextOpacity,
		Text:          s.Text,
		Sides:         s.Sides,
		Background:    paint.FormatColor(s.Background),
		Rotation:      s.Rotation,
		Zoom:          s.Zoom,
		Width:         size.X,
		Height:        size.Y,
		Undo:          c.hist.UndoLen(),
		Redo:          c.hist.RedoLen(),
	}
}
