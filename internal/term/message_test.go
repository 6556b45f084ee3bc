package term

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameClassification(t *testing.T) {
	tests := []struct {
		name        string
		messageType int
		payload     string
		wantControl ControlType
		wantData    bool
	}{
		{
			name:        "binary is always data",
			messageType: websocket.BinaryMessage,
			payload:     `{"type":"buffer-complete"}`,
			wantData:    true,
		},
		{
			name:        "buffer-size control",
			messageType: websocket.TextMessage,
			payload:     `{"type":"buffer-size","cols":80,"rows":24}`,
			wantControl: ControlBufferSize,
		},
		{
			name:        "buffer-complete control",
			messageType: websocket.TextMessage,
			payload:     `{"type":"buffer-complete"}`,
			wantControl: ControlBufferComplete,
		},
		{
			name:        "read-only control",
			messageType: websocket.TextMessage,
			payload:     `{"type":"read-only","data":true}`,
			wantControl: ControlReadOnly,
		},
		{
			name:        "error control",
			messageType: websocket.TextMessage,
			payload:     `{"type":"error","error":"session gone","message":"the PTY exited"}`,
			wantControl: ControlError,
		},
		{
			name:        "plain text is data",
			messageType: websocket.TextMessage,
			payload:     "ls -la\r\n",
			wantData:    true,
		},
		{
			name:        "malformed JSON is data",
			messageType: websocket.TextMessage,
			payload:     `{"type":"read-only",`,
			wantData:    true,
		},
		{
			name:        "JSON without recognized type is data",
			messageType: websocket.TextMessage,
			payload:     `{"hello":"world"}`,
			wantData:    true,
		},
		{
			name:        "client-to-server type is not an inbound control",
			messageType: websocket.TextMessage,
			payload:     `{"type":"ready"}`,
			wantData:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := DecodeFrame(tt.messageType, []byte(tt.payload))
			if tt.wantData {
				require.Nil(t, frame.Control)
				assert.Equal(t, tt.payload, string(frame.Data))
			} else {
				require.NotNil(t, frame.Control)
				assert.Equal(t, tt.wantControl, frame.Control.Type)
				assert.Nil(t, frame.Data)
			}
		})
	}
}

func TestDecodeFrameControlFields(t *testing.T) {
	frame := DecodeFrame(websocket.TextMessage, []byte(`{"type":"buffer-size","cols":120,"rows":40}`))
	require.NotNil(t, frame.Control)
	assert.Equal(t, uint16(120), frame.Control.Cols)
	assert.Equal(t, uint16(40), frame.Control.Rows)

	frame = DecodeFrame(websocket.TextMessage, []byte(`{"type":"read-only","data":false}`))
	require.NotNil(t, frame.Control)
	require.NotNil(t, frame.Control.Data)
	assert.False(t, *frame.Control.Data)

	frame = DecodeFrame(websocket.TextMessage, []byte(`{"type":"error","error":"boom","message":"details"}`))
	require.NotNil(t, frame.Control)
	assert.Equal(t, "boom", frame.Control.Error)
	assert.Equal(t, "details", frame.Control.Message)
}

func TestEncodeControlShapes(t *testing.T) {
	data, err := encodeControl(ControlMessage{Type: ControlReady})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ready"}`, string(data))

	data, err = encodeControl(ControlMessage{Type: ControlResize, Cols: 80, Rows: 24})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"resize","cols":80,"rows":24}`, string(data))

	data, err = encodeControl(ControlMessage{Type: ControlPromote})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"promote"}`, string(data))
}
