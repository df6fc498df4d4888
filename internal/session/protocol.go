package session

import (
	"encoding/json"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/lines"
	"github.com/inamate/chartlines/internal/render"
)

// Message is the envelope of every websocket message. Seq echoes the client's
// sequence number in replies and counts frames per chart in broadcasts.
type Message struct {
	Type     string          `json:"type"`
	ChartID  string          `json:"chartId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type WelcomePayload struct {
	ClientID string           `json:"clientId"`
	Subject  string           `json:"subject,omitempty"`
	Frame    []render.Command `json:"frame"`
}

type FramePayload struct {
	Frame []render.Command `json:"frame"`
}

type HoverPayload struct {
	X     float64               `json:"x"`
	Y     float64               `json:"y"`
	Hit   *lines.Hit            `json:"hit"`
	Point *annotation.TimePrice `json:"point"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// client → server
	TypePointerMove = "pointer.move"
	TypeRangeSet    = "range.set"
	TypeSizeSet     = "size.set"

	// server → client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeHover   = "hover"
	TypeError   = "error"
)

func newMessage(msgType, chartID string, seq int64, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, ChartID: chartID, Seq: seq, Payload: data}, nil
}
