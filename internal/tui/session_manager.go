package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanpelt/catnip-tui/internal/logger"
	"github.com/vanpelt/catnip-tui/internal/term"
)

// resizeQuietPeriod is how long the window size must hold still before the
// new geometry is pushed to the emulator and the server.
const resizeQuietPeriod = 100 * time.Millisecond

// SessionManager owns the terminal sessions with proper tea.Cmd integration.
// All connection callbacks are bridged into the program via program.Send.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*TerminalSession
	program  *tea.Program
	baseURL  string
}

// TerminalSession pairs one server PTY session with a local emulator.
type TerminalSession struct {
	Name     string
	Conn     *term.Conn
	Emulator *term.Emulator
	resize   *term.Debouncer
}

var globalSessionManager *SessionManager

// InitSessionManager wires the manager to a running program. Must be called
// before any session is created.
func InitSessionManager(p *tea.Program, baseURL string) {
	globalSessionManager = &SessionManager{
		sessions: make(map[string]*TerminalSession),
		program:  p,
		baseURL:  baseURL,
	}
}

// GetSession returns an existing session or nil.
func (sm *SessionManager) GetSession(name string) *TerminalSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sessions[name]
}

// CreateSession builds the emulator and connection state for a session and
// dials the server in the background. Safe to call for an existing session;
// the existing one is returned.
func (sm *SessionManager) CreateSession(name, agent string, cols, rows int) *TerminalSession {
	return sm.createSession(name, agent, cols, rows, nil)
}

func (sm *SessionManager) createSession(name, agent string, cols, rows int, emu *term.Emulator) *TerminalSession {
	sm.mu.Lock()
	if existing, ok := sm.sessions[name]; ok {
		sm.mu.Unlock()
		return existing
	}

	if emu == nil {
		emu = term.NewEmulator(cols, rows)
	}
	session := &TerminalSession{
		Name:     name,
		Emulator: emu,
		resize:   term.NewDebouncer(resizeQuietPeriod),
	}

	session.Conn = term.NewConn(emu, term.Hooks{
		OnOutput: func() {
			sm.send(termOutputMsg{session: name})
		},
		OnReadOnly: func(readOnly bool) {
			sm.send(termReadOnlyMsg{session: name, readOnly: readOnly})
		},
		OnShake: func() {
			sm.send(termShakeMsg{session: name})
		},
		OnError: func(title, message string) {
			sm.send(termErrorMsg{session: name, title: title, message: message})
		},
		OnDisconnect: func(err error) {
			sm.send(termDisconnectedMsg{session: name, err: err})
		},
	})

	sm.sessions[name] = session
	sm.mu.Unlock()

	go sm.dial(session, agent, cols, rows)
	return session
}

func (sm *SessionManager) dial(session *TerminalSession, agent string, cols, rows int) {
	transport, err := term.DialSession(sm.baseURL, session.Name, agent)
	if err != nil {
		logger.Errorf("failed to dial session %s: %v", session.Name, err)
		sm.send(termDisconnectedMsg{session: session.Name, err: err})
		return
	}

	session.Conn.AttachTransport(transport)
	session.Conn.MarkEmulatorReady(cols, rows)
	go transport.ReadLoop(session.Conn)
}

// Reconnect tears down a dropped session's connection state and dials again,
// keeping the emulator contents until the replay overwrites them.
func (sm *SessionManager) Reconnect(name, agent string, cols, rows int) *TerminalSession {
	sm.mu.Lock()
	var emu *term.Emulator
	if old, ok := sm.sessions[name]; ok {
		_ = old.Conn.Close()
		old.resize.Stop()
		emu = old.Emulator
		delete(sm.sessions, name)
	}
	sm.mu.Unlock()
	return sm.createSession(name, agent, cols, rows, emu)
}

// Resize applies new geometry after the quiet period. SetSize refits the
// emulator and mirrors the change to the server in one step.
func (sm *SessionManager) Resize(name string, cols, rows int) {
	session := sm.GetSession(name)
	if session == nil {
		return
	}
	session.resize.Trigger(func() {
		session.Conn.SetSize(cols, rows)
		sm.send(termOutputMsg{session: name})
	})
}

// CloseAll shuts down every session. Called on quit.
func (sm *SessionManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for name, session := range sm.sessions {
		_ = session.Conn.Close()
		session.resize.Stop()
		delete(sm.sessions, name)
	}
}

func (sm *SessionManager) send(msg tea.Msg) {
	if sm.program != nil {
		sm.program.Send(msg)
	}
}
