package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanpelt/catnip-tui/internal/logger"
	"github.com/vanpelt/catnip-tui/internal/tui/components"
)

// Update is the main update function that routes messages to appropriate handlers
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// First, handle global window sizing
	if windowMsg, ok := msg.(tea.WindowSizeMsg); ok {
		return m.handleWindowResize(windowMsg)
	}

	// Route key messages through the auth overlay, then global keys, then the
	// current view
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyMessage(keyMsg)
	}

	// Handle spinner updates
	if spinnerMsg, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.termSpinner, cmd = m.termSpinner.Update(spinnerMsg)
		return m, cmd
	}

	// Route other messages by type
	switch msg := msg.(type) {
	case tickMsg:
		return m.handleTick(msg)
	case worktreesMsg:
		return m.handleWorktrees(msg)
	case claudeSessionsMsg:
		m.claudeSessions = msg
		return m, nil
	case portsMsg:
		m.ports = msg
		return m, nil
	case healthStatusMsg:
		return m.handleHealthStatus(msg)
	case worktreeDeletedMsg:
		return m.handleWorktreeDeleted(msg)

	case sseConnectedMsg:
		m.sseConnected = true
		m.appHealthy = true
		return m, nil
	case sseDisconnectedMsg:
		m.sseConnected = false
		// Fall back to polling while the stream is down
		return m, tea.Batch(m.fetchPorts(), m.fetchHealthStatus())
	case ssePortOpenedMsg, ssePortClosedMsg:
		return m, m.fetchPorts()
	case sseContainerStatusMsg:
		logger.Debugf("container status: %s %s", msg.status, msg.message)
		return m, nil
	case sseWorktreeUpdatedMsg:
		return m.handleWorktreeUpdated(msg)
	case sseWorktreeCreatedMsg:
		return m, m.fetchWorktrees()
	case sseWorktreeDeletedMsg:
		return m.handleWorktreeDeleted(worktreeDeletedMsg{id: msg.worktreeID})

	case authStartedMsg:
		return m.handleAuthStarted(msg)
	case authStatusMsg:
		return m.handleAuthStatus(msg)
	case authPollMsg:
		if m.authActive {
			return m, tea.Batch(m.pollAuthStatus(), authPollTick())
		}
		return m, nil

	case clipboardCopiedMsg:
		if msg.err != nil {
			logger.Warnf("clipboard copy failed: %v", msg.err)
		}
		return m, nil
	}

	// Let current view handle any remaining messages
	newModel, cmd := m.GetCurrentView().Update(&m, msg)
	return *newModel, cmd
}

// Window resize handler
func (m Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	newModel, cmd := m.GetCurrentView().HandleResize(&m, msg)
	return *newModel, cmd
}

// Key message router with global key handling
func (m Model) handleKeyMessage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authActive {
		return m.handleAuthKey(msg)
	}

	if newModel, cmd, handled := m.handleGlobalKeys(msg); handled {
		return *newModel, cmd
	}

	newModel, cmd := m.GetCurrentView().HandleKey(&m, msg)
	return *newModel, cmd
}

// handleGlobalKeys processes navigation available in every view. In the
// terminal view only ctrl+q is global so everything else can reach the agent.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (*Model, tea.Cmd, bool) {
	key := msg.String()

	if key == components.KeyQuit {
		return m.requestQuit()
	}

	if m.currentView == TerminalView {
		return m, nil, false
	}

	switch key {
	case components.KeyQuitAlt:
		return m.requestQuit()
	case components.KeyWorkspaces:
		m.SwitchToView(WorkspacesView)
		return m, nil, true
	case components.KeyTerminal:
		if wt := m.SelectedWorktree(); wt != nil {
			newModel, cmd := m.openTerminal(wt)
			return newModel, cmd, true
		}
		return m, nil, true
	case components.KeyPullRequest:
		if wt := m.SelectedWorktree(); wt != nil {
			newModel, cmd := m.openPullRequest(wt)
			return newModel, cmd, true
		}
		return m, nil, true
	case components.KeyTranscript:
		if wt := m.SelectedWorktree(); wt != nil {
			newModel, cmd := m.openTranscript(wt)
			return newModel, cmd, true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m *Model) requestQuit() (*Model, tea.Cmd, bool) {
	m.quitRequested = true
	if globalSessionManager != nil {
		globalSessionManager.CloseAll()
	}
	return m, tea.Quit, true
}

// Periodic tick handler
func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	m.lastUpdate = time.Time(msg)

	if m.quitRequested {
		return m, nil
	}

	cmds := []tea.Cmd{tick(), m.fetchWorktrees(), m.fetchClaudeSessions()}

	// Once SSE is connected it doubles as the health indicator
	if !m.sseConnected {
		cmds = append(cmds, m.fetchHealthStatus())
	}

	return m, tea.Batch(cmds...)
}

// Data message handlers
func (m Model) handleWorktrees(msg worktreesMsg) (tea.Model, tea.Cmd) {
	m.worktrees = msg
	m.err = nil

	if m.selectedIndex >= len(m.worktrees) && len(m.worktrees) > 0 {
		m.selectedIndex = len(m.worktrees) - 1
	}

	// Re-point the current worktree at the fresh copy
	if m.currentWorktree != nil {
		for _, wt := range m.worktrees {
			if wt.ID == m.currentWorktree.ID {
				m.currentWorktree = wt
				break
			}
		}
	}
	return m, nil
}

func (m Model) handleHealthStatus(msg healthStatusMsg) (tea.Model, tea.Cmd) {
	m.appHealthy = bool(msg)
	return m, nil
}

func (m Model) handleWorktreeDeleted(msg worktreeDeletedMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	remaining := m.worktrees[:0:0]
	for _, wt := range m.worktrees {
		if wt.ID != msg.id {
			remaining = append(remaining, wt)
		}
	}
	m.worktrees = remaining
	if m.selectedIndex >= len(m.worktrees) && m.selectedIndex > 0 {
		m.selectedIndex = len(m.worktrees) - 1
	}

	if m.currentWorktree != nil && m.currentWorktree.ID == msg.id {
		m.currentWorktree = nil
		m.SwitchToView(WorkspacesView)
	}
	return m, nil
}

func (m Model) handleWorktreeUpdated(msg sseWorktreeUpdatedMsg) (tea.Model, tea.Cmd) {
	for _, wt := range m.worktrees {
		if wt.ID != msg.worktreeID {
			continue
		}
		applyWorktreeUpdates(wt, msg.updates)
		return m, nil
	}
	// Unknown worktree, list is stale
	return m, m.fetchWorktrees()
}

// Auth overlay handlers
func (m Model) handleAuthStarted(msg authStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.authActive = true
		m.authStatus = "error"
		m.authErr = msg.err.Error()
		return m, nil
	}
	m.authActive = true
	m.authCode = msg.resp.Code
	m.authURL = msg.resp.URL
	m.authStatus = msg.resp.Status
	m.authErr = ""
	return m, authPollTick()
}

func (m Model) handleAuthStatus(msg authStatusMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || !m.authActive {
		return m, nil
	}
	m.authStatus = msg.resp.Status
	m.authErr = msg.resp.Error
	if m.authStatus == "success" {
		m.authActive = false
		// Retry whatever needed credentials
		return m, tea.Batch(m.fetchWorktrees(), m.fetchClaudeSessions())
	}
	return m, nil
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case components.KeyEscape:
		m.authActive = false
		return m, nil
	case "c":
		if m.authCode != "" {
			return m, copyToClipboard(m.authCode)
		}
	case components.KeyQuit, components.KeyQuitAlt:
		newModel, cmd, _ := m.requestQuit()
		return *newModel, cmd
	}
	return m, nil
}
