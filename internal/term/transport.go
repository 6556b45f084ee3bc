package term

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

var errTransportClosed = errors.New("transport not connected")

// WSTransport is the gorilla/websocket implementation of Transport. One
// transport serves exactly one Conn for its whole lifetime.
type WSTransport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// DialSession opens the PTY websocket for a session. The base URL is the
// server's HTTP address; the scheme is rewritten to ws/wss. An empty agent
// attaches to the plain shell session.
func DialSession(baseURL, session, agent string) (*WSTransport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	u.Path = "/v1/pty"
	q := u.Query()
	q.Set("session", session)
	if agent != "" {
		q.Set("agent", agent)
	}
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PTY: %w", err)
	}

	return &WSTransport{
		conn: conn,
		done: make(chan struct{}),
	}, nil
}

// ReadLoop pumps inbound frames into the connection until the socket closes,
// then reports the terminal error. Runs on its own goroutine.
func (t *WSTransport) ReadLoop(c *Conn) {
	defer close(t.done)

	for {
		messageType, payload, err := t.conn.ReadMessage()
		if err != nil {
			c.HandleDisconnect(err)
			return
		}

		if messageType == websocket.BinaryMessage || messageType == websocket.TextMessage {
			c.HandleMessage(messageType, payload)
		}
	}
}

// WriteText sends one text frame. Keystrokes and JSON control messages both
// travel as text; the server distinguishes them by parsing.
func (t *WSTransport) WriteText(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.conn == nil {
		return errTransportClosed
	}
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

// Close shuts the socket down. ReadLoop exits shortly after.
func (t *WSTransport) Close() error {
	var err error
	t.once.Do(func() {
		err = t.conn.Close()
	})
	return err
}

// Wait blocks until the read loop has exited.
func (t *WSTransport) Wait() {
	<-t.done
}
