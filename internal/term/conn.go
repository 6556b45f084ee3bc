package term

import (
	"sync"
	"time"
)

// shakeInterval limits how often the shake affordance fires while the user
// keeps typing into a read-only terminal.
const shakeInterval = 500 * time.Millisecond

// Transport carries raw terminal bytes and JSON control frames on a single
// bidirectional stream. Implemented by WSTransport; tests substitute fakes.
type Transport interface {
	// WriteText sends a text frame (keystrokes or a JSON control message).
	WriteText(data []byte) error
	Close() error
}

// Screen receives ordered terminal output and geometry changes. Implemented
// by Emulator.
type Screen interface {
	Write(data []byte)
	Resize(cols, rows int)
}

// Hooks are optional callbacks a Conn fires as protocol state changes. They
// are invoked outside the connection lock, in the order the triggering frames
// arrived.
type Hooks struct {
	// OnOutput fires after new bytes were written to the screen.
	OnOutput func()
	// OnReadOnly fires when the server grants or revokes write access.
	OnReadOnly func(readOnly bool)
	// OnShake fires when input was suppressed by the read-only gate.
	OnShake func()
	// OnError fires for an inbound error control frame.
	OnError func(title, message string)
	// OnDisconnect fires once when the transport closes or fails.
	OnDisconnect func(err error)
}

// Conn pairs one PTY websocket with one terminal screen. It owns the small
// client-side state machine around the stream: the ready handshake, the
// scrollback buffering gate, and the read-only gate. All mutation happens
// under a single mutex, so the websocket read loop and the UI event loop can
// both touch it safely.
type Conn struct {
	mu sync.Mutex

	transport Transport
	screen    Screen
	hooks     Hooks

	transportReady bool
	emulatorReady  bool
	readySent      bool

	buffering bool
	pending   [][]byte

	readOnly  bool
	lastShake time.Time

	cols uint16
	rows uint16

	closed bool
}

// NewConn creates a connection bound to the given screen. The transport is
// attached separately once the websocket dial completes.
func NewConn(screen Screen, hooks Hooks) *Conn {
	return &Conn{
		screen: screen,
		hooks:  hooks,
	}
}

// AttachTransport hands the opened transport to the connection and sends the
// ready handshake if the emulator side is already prepared.
func (c *Conn) AttachTransport(t Transport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		_ = t.Close()
		return
	}
	c.transport = t
	c.transportReady = true
	c.maybeSendReadyLocked()
}

// MarkEmulatorReady records that the terminal screen has been constructed
// with the given geometry. The ready handshake is only sent once both the
// transport and the emulator are ready, because the server replies to ready
// with a scrollback replay sized for a known terminal.
func (c *Conn) MarkEmulatorReady(cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.emulatorReady = true
	c.cols = uint16(cols)
	c.rows = uint16(rows)
	c.maybeSendReadyLocked()
}

func (c *Conn) maybeSendReadyLocked() {
	if c.readySent || !c.transportReady || !c.emulatorReady {
		return
	}
	if c.sendControlLocked(ControlMessage{Type: ControlReady}) == nil {
		c.readySent = true
	}
}

func (c *Conn) sendControlLocked(msg ControlMessage) error {
	if c.transport == nil {
		return errTransportClosed
	}
	data, err := encodeControl(msg)
	if err != nil {
		return err
	}
	return c.transport.WriteText(data)
}

// HandleMessage processes one inbound websocket message. Messages must be
// delivered in arrival order; the buffering gate relies on it.
func (c *Conn) HandleMessage(messageType int, payload []byte) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	var after []func()
	frame := DecodeFrame(messageType, payload)
	if frame.Control != nil {
		after = c.handleControlLocked(frame.Control)
	} else {
		after = c.handleDataLocked(frame.Data)
	}
	c.mu.Unlock()

	for _, fn := range after {
		fn()
	}
}

func (c *Conn) handleDataLocked(data []byte) []func() {
	if c.buffering {
		// Hold live output back until the scrollback replay completes.
		chunk := make([]byte, len(data))
		copy(chunk, data)
		c.pending = append(c.pending, chunk)
		return nil
	}

	c.screen.Write(data)
	if c.hooks.OnOutput != nil {
		return []func(){c.hooks.OnOutput}
	}
	return nil
}

func (c *Conn) handleControlLocked(msg *ControlMessage) []func() {
	var after []func()

	switch msg.Type {
	case ControlBufferSize:
		// The server is about to replay scrollback recorded at this
		// geometry; match it before any replay bytes are applied.
		if msg.Cols > 0 && msg.Rows > 0 && (msg.Cols != c.cols || msg.Rows != c.rows) {
			c.cols = msg.Cols
			c.rows = msg.Rows
			c.screen.Resize(int(msg.Cols), int(msg.Rows))
		}
		c.buffering = true

	case ControlBufferComplete:
		c.buffering = false
		for _, chunk := range c.pending {
			c.screen.Write(chunk)
		}
		wrote := len(c.pending) > 0
		c.pending = nil

		// Replay may have reset the server-side geometry; re-fit and
		// report the size we actually have.
		c.screen.Resize(int(c.cols), int(c.rows))
		_ = c.sendControlLocked(ControlMessage{Type: ControlResize, Cols: c.cols, Rows: c.rows})

		if wrote && c.hooks.OnOutput != nil {
			after = append(after, c.hooks.OnOutput)
		}

	case ControlReadOnly:
		readOnly := msg.Data != nil && *msg.Data
		c.readOnly = readOnly
		if c.hooks.OnReadOnly != nil {
			after = append(after, func() { c.hooks.OnReadOnly(readOnly) })
		}

	case ControlError:
		if c.hooks.OnError != nil {
			title, message := msg.Error, msg.Message
			after = append(after, func() { c.hooks.OnError(title, message) })
		}
	}

	return after
}

// SendInput forwards user keystrokes to the server. Input is dropped silently
// when the transport is not open, and dropped with a shake affordance when
// the connection is read-only. The read-only state is never changed locally.
func (c *Conn) SendInput(data []byte) error {
	c.mu.Lock()

	if c.closed || c.transport == nil || !c.transportReady {
		c.mu.Unlock()
		return nil
	}

	if c.readOnly {
		shake := c.hooks.OnShake != nil && time.Since(c.lastShake) >= shakeInterval
		if shake {
			c.lastShake = time.Now()
		}
		c.mu.Unlock()
		if shake {
			c.hooks.OnShake()
		}
		return nil
	}

	err := c.transport.WriteText(data)
	c.mu.Unlock()
	return err
}

// RequestPromotion asks the server for write access. The restriction is only
// lifted by a subsequent read-only control frame from the server; there is no
// optimistic unlock.
func (c *Conn) RequestPromotion() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.transportReady {
		return errTransportClosed
	}
	return c.sendControlLocked(ControlMessage{Type: ControlPromote})
}

// SetSize records a local geometry change and mirrors it to the server. The
// resize frame is suppressed before the ready handshake and while a
// scrollback replay is in flight; buffer-complete reports the final geometry
// in both cases.
func (c *Conn) SetSize(cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || cols <= 0 || rows <= 0 {
		return
	}
	if uint16(cols) == c.cols && uint16(rows) == c.rows {
		return
	}

	c.cols = uint16(cols)
	c.rows = uint16(rows)
	c.screen.Resize(cols, rows)

	if c.readySent && !c.buffering {
		_ = c.sendControlLocked(ControlMessage{Type: ControlResize, Cols: c.cols, Rows: c.rows})
	}
}

// HandleDisconnect marks the transport as gone and surfaces the disconnected
// state. The adapter never reconnects by itself; retry is a caller action.
func (c *Conn) HandleDisconnect(err error) {
	c.mu.Lock()
	if c.closed || !c.transportReady {
		c.mu.Unlock()
		return
	}
	c.transportReady = false
	hook := c.hooks.OnDisconnect
	c.mu.Unlock()

	if hook != nil {
		hook(err)
	}
}

// ReadOnly reports whether the server currently denies write access.
func (c *Conn) ReadOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readOnly
}

// Buffering reports whether a scrollback replay is in flight.
func (c *Conn) Buffering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffering
}

// Connected reports whether the transport is open.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transportReady && !c.closed
}

// Size returns the last known terminal geometry.
func (c *Conn) Size() (cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.cols), int(c.rows)
}

// Close tears the connection down: the transport is closed, queued output is
// discarded, and no further screen writes or hooks fire. Safe to call more
// than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.pending = nil

	if c.transport != nil {
		return c.transport.Close()
	}
	return nil
}
