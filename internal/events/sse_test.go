package events

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects everything dispatched to it.
type recordingSink struct {
	mu               sync.Mutex
	connects         int
	disconnects      int
	portsOpened      []PortOpened
	portsClosed      []int
	statuses         []ContainerStatus
	worktreeUpdates  []WorktreeUpdate
	worktreesCreated []map[string]any
	worktreesDeleted []string
	notifications    []Notification
}

func (s *recordingSink) Connected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
}

func (s *recordingSink) Disconnected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
}

func (s *recordingSink) PortOpened(p PortOpened) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portsOpened = append(s.portsOpened, p)
}

func (s *recordingSink) PortClosed(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portsClosed = append(s.portsClosed, port)
}

func (s *recordingSink) ContainerStatus(cs ContainerStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, cs)
}

func (s *recordingSink) WorktreeUpdated(u WorktreeUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worktreeUpdates = append(s.worktreeUpdates, u)
}

func (s *recordingSink) WorktreeCreated(w map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worktreesCreated = append(s.worktreesCreated, w)
}

func (s *recordingSink) WorktreeDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worktreesDeleted = append(s.worktreesDeleted, id)
}

func (s *recordingSink) Notification(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

func (s *recordingSink) snapshot() recordingSink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recordingSink{
		connects:         s.connects,
		disconnects:      s.disconnects,
		portsOpened:      append([]PortOpened(nil), s.portsOpened...),
		portsClosed:      append([]int(nil), s.portsClosed...),
		statuses:         append([]ContainerStatus(nil), s.statuses...),
		worktreeUpdates:  append([]WorktreeUpdate(nil), s.worktreeUpdates...),
		worktreesCreated: append([]map[string]any(nil), s.worktreesCreated...),
		worktreesDeleted: append([]string(nil), s.worktreesDeleted...),
		notifications:    append([]Notification(nil), s.notifications...),
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// sseServer streams the given raw SSE payload once, then blocks until the
// request context is done.
func sseServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, body)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func eventJSON(eventType, payload string) string {
	return fmt.Sprintf("data: {\"event\":{\"type\":%q,\"payload\":%s},\"timestamp\":1,\"id\":\"e1\"}\n\n", eventType, payload)
}

func TestDecodesTypedEvents(t *testing.T) {
	body := eventJSON(PortOpenedEvent, `{"port":3000,"service":"http","title":"Vite","protocol":"http"}`) +
		eventJSON(ContainerStatusEvent, `{"status":"running","message":"ready"}`) +
		eventJSON(WorktreeUpdatedEvent, `{"worktree_id":"wt-1","updates":{"claude_activity_state":"active"}}`) +
		eventJSON(PortClosedEvent, `{"port":3000}`)

	srv := sseServer(t, body)
	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool {
		s := sink.snapshot()
		return len(s.portsOpened) == 1 && len(s.statuses) == 1 &&
			len(s.worktreeUpdates) == 1 && len(s.portsClosed) == 1
	})

	s := sink.snapshot()
	assert.Equal(t, 1, s.connects)
	assert.Equal(t, PortOpened{Port: 3000, Service: "http", Title: "Vite", Protocol: "http"}, s.portsOpened[0])
	assert.Equal(t, ContainerStatus{Status: "running", Message: "ready"}, s.statuses[0])
	assert.Equal(t, "wt-1", s.worktreeUpdates[0].WorktreeID)
	assert.Equal(t, "active", s.worktreeUpdates[0].Updates["claude_activity_state"])
	assert.Equal(t, []int{3000}, s.portsClosed)
}

func TestBatchUpdateFansOut(t *testing.T) {
	body := eventJSON(WorktreeBatchUpdatedEvent,
		`{"updates":{"wt-1":{"is_dirty":true},"wt-2":{"is_dirty":false}}}`)

	srv := sseServer(t, body)
	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool { return len(sink.snapshot().worktreeUpdates) == 2 })

	ids := map[string]bool{}
	for _, u := range sink.snapshot().worktreeUpdates {
		ids[u.WorktreeID] = true
	}
	assert.True(t, ids["wt-1"])
	assert.True(t, ids["wt-2"])
}

func TestWorktreeCreatedAndDeleted(t *testing.T) {
	body := eventJSON(WorktreeCreatedEvent, `{"worktree":{"id":"wt-9","path":"/workspace/catnip/felix"}}`) +
		eventJSON(WorktreeDeletedEvent, `{"worktree_id":"wt-9"}`)

	srv := sseServer(t, body)
	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool {
		s := sink.snapshot()
		return len(s.worktreesCreated) == 1 && len(s.worktreesDeleted) == 1
	})

	s := sink.snapshot()
	assert.Equal(t, "wt-9", s.worktreesCreated[0]["id"])
	assert.Equal(t, []string{"wt-9"}, s.worktreesDeleted)
}

func TestMalformedAndUnknownEventsSkipped(t *testing.T) {
	body := "data: not json at all\n\n" +
		eventJSON("some:future-event", `{"x":1}`) +
		eventJSON(HeartbeatEvent, `{}`) +
		eventJSON(PortClosedEvent, `{"port":8080}`)

	srv := sseServer(t, body)
	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool { return len(sink.snapshot().portsClosed) == 1 })

	s := sink.snapshot()
	assert.Equal(t, []int{8080}, s.portsClosed)
	assert.Empty(t, s.portsOpened)
	assert.Empty(t, s.worktreeUpdates)
}

func TestMultilineDataConcatenated(t *testing.T) {
	// Payload split across two data: lines must be joined before parsing.
	body := "data: {\"event\":{\"type\":\"port:closed\",\n" +
		"data: \"payload\":{\"port\":9000}},\"timestamp\":1,\"id\":\"e2\"}\n\n"

	srv := sseServer(t, body)
	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool { return len(sink.snapshot().portsClosed) == 1 })
	assert.Equal(t, []int{9000}, sink.snapshot().portsClosed)
}

func TestNotificationDecoded(t *testing.T) {
	body := eventJSON(NotificationEvent, `{"title":"PR created","body":"#42","subtitle":"catnip/felix","url":"https://example.com/pr/42"}`)

	srv := sseServer(t, body)
	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool { return len(sink.snapshot().notifications) == 1 })

	n := sink.snapshot().notifications[0]
	assert.Equal(t, "PR created", n.Title)
	assert.Equal(t, "https://example.com/pr/42", n.URL)
}

func TestDisconnectReportedOnce(t *testing.T) {
	// Server closes the stream immediately; client should report the drop and
	// retry in the background without flapping connect notifications.
	var requests int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	sink := &recordingSink{}
	client := NewClient(srv.URL+"/v1/events", sink, testLogger())
	client.Start()
	defer client.Stop()

	waitFor(t, func() bool { return sink.snapshot().disconnects >= 1 })

	s := sink.snapshot()
	require.GreaterOrEqual(t, s.connects, 1)
	assert.Equal(t, 1, s.disconnects)
}
