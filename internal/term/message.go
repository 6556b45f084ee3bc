package term

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// ControlType identifies a JSON control frame on the PTY websocket.
type ControlType string

const (
	// Client to server
	ControlReady   ControlType = "ready"
	ControlResize  ControlType = "resize"
	ControlPromote ControlType = "promote"

	// Server to client
	ControlBufferSize     ControlType = "buffer-size"
	ControlBufferComplete ControlType = "buffer-complete"
	ControlError          ControlType = "error"
	ControlReadOnly       ControlType = "read-only"
)

// ControlMessage is the JSON control frame exchanged with the server on the
// PTY websocket. The same shape covers every control type; unused fields are
// omitted on the wire.
type ControlMessage struct {
	Type    ControlType `json:"type"`
	Cols    uint16      `json:"cols,omitempty"`
	Rows    uint16      `json:"rows,omitempty"`
	Data    *bool       `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Frame is the result of classifying one inbound websocket message. Exactly
// one of Control and Data is set.
type Frame struct {
	Control *ControlMessage
	Data    []byte
}

// DecodeFrame classifies an inbound websocket message as either a control
// frame or raw terminal output. The server sends both payload kinds on one
// stream and does not tag data frames, so classification is heuristic: binary
// frames are always terminal output, and a text frame is a control frame only
// when it parses as JSON with a recognized server-to-client type. Everything
// else, including malformed JSON, is treated as literal terminal text.
//
// This is the single place where the try-JSON-fallback-to-raw policy lives.
func DecodeFrame(messageType int, payload []byte) Frame {
	if messageType != websocket.TextMessage {
		return Frame{Data: payload}
	}

	var msg ControlMessage
	if err := json.Unmarshal(payload, &msg); err == nil {
		switch msg.Type {
		case ControlBufferSize, ControlBufferComplete, ControlError, ControlReadOnly:
			return Frame{Control: &msg}
		}
	}

	return Frame{Data: payload}
}

func encodeControl(msg ControlMessage) ([]byte, error) {
	return json.Marshal(msg)
}
