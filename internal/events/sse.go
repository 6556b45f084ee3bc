// Package events maintains a long-lived Server-Sent Events subscription to
// the Catnip server and decodes its application events into typed values.
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event type constants matching the server's event bus.
const (
	PortOpenedEvent           = "port:opened"
	PortClosedEvent           = "port:closed"
	GitDirtyEvent             = "git:dirty"
	GitCleanEvent             = "git:clean"
	ProcessStartedEvent       = "process:started"
	ProcessStoppedEvent       = "process:stopped"
	ContainerStatusEvent      = "container:status"
	PortMappedEvent           = "port:mapped"
	HeartbeatEvent            = "heartbeat"
	NotificationEvent         = "notification:show"
	WorktreeUpdatedEvent      = "worktree:updated"
	WorktreeBatchUpdatedEvent = "worktree:batch_updated"
	WorktreeCreatedEvent      = "worktree:created"
	WorktreeDeletedEvent      = "worktree:deleted"
)

// AppEvent is one event as the server emits it. Payload keeps the server's
// loose shape; the typed accessors below pull out known fields.
type AppEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// envelope wraps every event on the wire.
type envelope struct {
	Event     AppEvent `json:"event"`
	Timestamp int64    `json:"timestamp"`
	ID        string   `json:"id"`
}

// PortOpened is the payload of a port:opened event.
type PortOpened struct {
	Port     int
	Service  string
	Title    string
	Protocol string
}

// ContainerStatus is the payload of a container:status event.
type ContainerStatus struct {
	Status  string
	Message string
}

// WorktreeUpdate is one worktree's field changes from a worktree:updated or
// worktree:batch_updated event.
type WorktreeUpdate struct {
	WorktreeID string
	Updates    map[string]any
}

// Notification is the payload of a notification:show event.
type Notification struct {
	Title    string
	Body     string
	Subtitle string
	URL      string
}

// Sink receives decoded events. Implementations are called from the client's
// read goroutine and must not block; bubbletea programs satisfy this with
// program.Send.
type Sink interface {
	Connected()
	Disconnected(err error)
	PortOpened(PortOpened)
	PortClosed(port int)
	ContainerStatus(ContainerStatus)
	WorktreeUpdated(WorktreeUpdate)
	WorktreeCreated(worktree map[string]any)
	WorktreeDeleted(worktreeID string)
	Notification(Notification)
}

// Client subscribes to the server's /v1/events stream and keeps the
// subscription alive with capped exponential backoff.
type Client struct {
	url        string
	clientID   string
	sink       Sink
	httpClient *http.Client
	log        zerolog.Logger
	stopChan   chan struct{}
	connected  bool
}

// NewClient creates a client for the given SSE endpoint URL. Each client
// gets a stable connection ID so the server can tell subscribers apart
// across reconnects.
func NewClient(url string, sink Sink, log zerolog.Logger) *Client {
	return &Client{
		url:      url,
		clientID: uuid.NewString(),
		sink:     sink,
		// No timeout: the stream is long-lived by design.
		httpClient: &http.Client{},
		log:        log.With().Str("component", "sse").Logger(),
		stopChan:   make(chan struct{}),
	}
}

// Start begins listening in a background goroutine.
func (c *Client) Start() {
	go c.run()
}

// Stop closes the subscription. The client cannot be restarted.
func (c *Client) Stop() {
	close(c.stopChan)
}

func (c *Client) run() {
	retryCount := 0
	for {
		select {
		case <-c.stopChan:
			return
		default:
			err := c.stream()
			select {
			case <-c.stopChan:
				return
			default:
			}

			c.log.Debug().Err(err).Int("attempt", retryCount+1).Msg("stream ended")
			if c.connected {
				c.connected = false
				c.sink.Disconnected(err)
			}

			retryCount++
			delay := time.Duration(retryCount) * 2 * time.Second
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
			select {
			case <-c.stopChan:
				return
			case <-time.After(delay):
			}
		}
	}
}

func (c *Client) stream() error {
	req, err := http.NewRequest(http.MethodGet, c.url+"?client=tui&id="+c.clientID, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("subscription failed: %s", resp.Status)
	}

	if !c.connected {
		c.connected = true
		c.log.Debug().Str("url", c.url).Msg("connected")
		c.sink.Connected()
	}

	scanner := bufio.NewScanner(resp.Body)
	var eventData strings.Builder

	for scanner.Scan() {
		select {
		case <-c.stopChan:
			return nil
		default:
		}

		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data: "):
			eventData.WriteString(strings.TrimPrefix(line, "data: "))
		case line == "" && eventData.Len() > 0:
			c.dispatch(eventData.String())
			eventData.Reset()
		default:
			// Comments, event: and id: lines carry no payload here.
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}

func (c *Client) dispatch(data string) {
	var msg envelope
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		c.log.Debug().Err(err).Msg("unparseable event, skipping")
		return
	}

	payload, _ := msg.Event.Payload.(map[string]any)

	switch msg.Event.Type {
	case PortOpenedEvent:
		if payload == nil {
			return
		}
		port, _ := payload["port"].(float64)
		service, _ := payload["service"].(string)
		title, _ := payload["title"].(string)
		protocol, _ := payload["protocol"].(string)
		c.sink.PortOpened(PortOpened{
			Port:     int(port),
			Service:  service,
			Title:    title,
			Protocol: protocol,
		})

	case PortClosedEvent:
		if payload == nil {
			return
		}
		port, _ := payload["port"].(float64)
		c.sink.PortClosed(int(port))

	case ContainerStatusEvent:
		if payload == nil {
			return
		}
		status, _ := payload["status"].(string)
		message, _ := payload["message"].(string)
		c.sink.ContainerStatus(ContainerStatus{Status: status, Message: message})

	case WorktreeUpdatedEvent:
		if payload == nil {
			return
		}
		worktreeID, _ := payload["worktree_id"].(string)
		if updates, ok := payload["updates"].(map[string]any); ok {
			c.sink.WorktreeUpdated(WorktreeUpdate{WorktreeID: worktreeID, Updates: updates})
		}

	case WorktreeBatchUpdatedEvent:
		if payload == nil {
			return
		}
		if updates, ok := payload["updates"].(map[string]any); ok {
			for worktreeID, updateData := range updates {
				if updateMap, ok := updateData.(map[string]any); ok {
					c.sink.WorktreeUpdated(WorktreeUpdate{WorktreeID: worktreeID, Updates: updateMap})
				}
			}
		}

	case WorktreeCreatedEvent:
		if payload == nil {
			return
		}
		if worktree, ok := payload["worktree"].(map[string]any); ok {
			c.sink.WorktreeCreated(worktree)
		}

	case WorktreeDeletedEvent:
		if payload == nil {
			return
		}
		worktreeID, _ := payload["worktree_id"].(string)
		if worktreeID != "" {
			c.sink.WorktreeDeleted(worktreeID)
		}

	case NotificationEvent:
		if payload == nil {
			return
		}
		title, _ := payload["title"].(string)
		body, _ := payload["body"].(string)
		subtitle, _ := payload["subtitle"].(string)
		url, _ := payload["url"].(string)
		c.sink.Notification(Notification{Title: title, Body: body, Subtitle: subtitle, URL: url})

	case HeartbeatEvent:
		// Keeps the connection warm, nothing to surface.

	default:
		c.log.Debug().Str("type", msg.Event.Type).Msg("unhandled event type")
	}
}
