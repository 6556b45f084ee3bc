package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager() *SessionManager {
	// Unroutable base URL: dials fail fast and no program receives messages.
	return &SessionManager{
		sessions: make(map[string]*TerminalSession),
		baseURL:  "http://127.0.0.1:0",
	}
}

func TestCreateSessionReturnsExisting(t *testing.T) {
	sm := newTestSessionManager()

	first := sm.CreateSession("felix", "claude", 80, 24)
	second := sm.CreateSession("felix", "claude", 120, 40)

	assert.Same(t, first, second)
}

func TestReconnectKeepsEmulatorContents(t *testing.T) {
	sm := newTestSessionManager()

	session := sm.CreateSession("felix", "claude", 80, 24)
	require.NotNil(t, session)
	session.Emulator.Write([]byte("hello"))

	reconnected := sm.Reconnect("felix", "claude", 80, 24)
	require.NotNil(t, reconnected)
	assert.NotSame(t, session, reconnected)
	assert.Same(t, session.Emulator, reconnected.Emulator)
	assert.Contains(t, reconnected.Emulator.Render(), "hello")
}

func TestCloseAllDropsSessions(t *testing.T) {
	sm := newTestSessionManager()

	sm.CreateSession("felix", "claude", 80, 24)
	sm.CreateSession("tabby", "claude", 80, 24)
	sm.CloseAll()

	assert.Nil(t, sm.GetSession("felix"))
	assert.Nil(t, sm.GetSession("tabby"))
}
