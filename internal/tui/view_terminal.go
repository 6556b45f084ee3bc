package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanpelt/catnip-tui/internal/logger"
	"github.com/vanpelt/catnip-tui/internal/tui/components"
)

// shakeDuration is how long the read-only banner stays emphasized after a
// rejected keystroke.
const shakeDuration = 600 * time.Millisecond

type shakeExpiredMsg struct{}

// TerminalViewImpl attaches to the agent terminal of the current worktree.
type TerminalViewImpl struct{}

// NewTerminalView creates a new terminal view instance
func NewTerminalView() *TerminalViewImpl {
	return &TerminalViewImpl{}
}

// GetViewType returns the view type identifier
func (v *TerminalViewImpl) GetViewType() ViewType {
	return TerminalView
}

// Update handles terminal-specific message processing
func (v *TerminalViewImpl) Update(m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case termOutputMsg:
		if !v.isCurrentSession(m, msg.session) {
			return m, nil
		}
		return v.handleOutput(m)

	case termReadOnlyMsg:
		if v.isCurrentSession(m, msg.session) {
			m.termReadOnly = msg.readOnly
		}
		return m, nil

	case termShakeMsg:
		if v.isCurrentSession(m, msg.session) {
			m.termShakeUntil = time.Now().Add(shakeDuration)
			return m, tea.Tick(shakeDuration, func(time.Time) tea.Msg {
				return shakeExpiredMsg{}
			})
		}
		return m, nil

	case shakeExpiredMsg:
		return m, nil

	case termErrorMsg:
		if v.isCurrentSession(m, msg.session) {
			m.termConnecting = false
			m.termErrTitle = msg.title
			m.termErrMessage = msg.message
		}
		return m, nil

	case termDisconnectedMsg:
		if v.isCurrentSession(m, msg.session) {
			m.termConnecting = false
			m.termDisconnected = true
			logger.Debugf("session %s disconnected: %v", msg.session, msg.err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.termViewport, cmd = m.termViewport.Update(msg)
	return m, cmd
}

// HandleKey processes key messages for the terminal view
func (v *TerminalViewImpl) HandleKey(m *Model, msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case components.KeyEscape:
		m.SwitchToView(WorkspacesView)
		return m, nil

	case components.KeyPromote:
		v.requestPromotion(m)
		return m, nil

	case components.KeyTermScrollUp:
		m.termViewport.ScrollUp(1)
		return m, nil

	case components.KeyTermScrollDown:
		m.termViewport.ScrollDown(1)
		return m, nil

	case components.KeyTermPageUp:
		m.termViewport.PageUp()
		return m, nil

	case components.KeyTermPageDown:
		m.termViewport.PageDown()
		return m, nil

	default:
		if m.termDisconnected && msg.String() == "r" {
			return v.reconnect(m)
		}
		v.forwardInput(m, msg)
		return m, nil
	}
}

// HandleResize processes window resize for the terminal view
func (v *TerminalViewImpl) HandleResize(m *Model, msg tea.WindowSizeMsg) (*Model, tea.Cmd) {
	cols, rows := m.terminalGeometry()
	m.termViewport.Width = cols
	m.termViewport.Height = rows

	if m.currentWorktree != nil && globalSessionManager != nil {
		globalSessionManager.Resize(m.currentWorktree.SessionName(), cols, rows)
	}
	return m, nil
}

// Render generates the terminal view content
func (v *TerminalViewImpl) Render(m *Model) string {
	if m.currentWorktree == nil {
		return components.CenteredStyle.
			Width(m.width - 2).
			Height(m.height - 4).
			Render("No workspace selected.\n\nPress Ctrl+W to pick one.")
	}

	header := components.TermHeaderStyle.Width(m.width - 2).
		Render(fmt.Sprintf("%s · %s", m.currentWorktree.Name, m.currentWorktree.Branch))

	banner := v.renderBanner(m)

	if m.termErrTitle != "" {
		pane := components.ErrorStyle.Render(m.termErrTitle) + "\n\n" + m.termErrMessage +
			"\n\n" + components.MutedStyle.Render("esc to go back")
		body := components.CenteredStyle.Width(m.width - 2).Height(m.height - 5).Render(pane)
		return lipgloss.JoinVertical(lipgloss.Left, header, banner, body)
	}

	if m.termDisconnected {
		pane := components.ErrorStyle.Render("Disconnected") +
			"\n\nThe terminal connection was lost." +
			"\n\n" + components.KeyHighlightStyle.Render("r") + " reconnect · " +
			components.KeyHighlightStyle.Render("esc") + " back"
		body := components.CenteredStyle.Width(m.width - 2).Height(m.height - 5).Render(pane)
		return lipgloss.JoinVertical(lipgloss.Left, header, banner, body)
	}

	if m.termConnecting {
		pane := fmt.Sprintf("%s Connecting to %s...", m.termSpinner.View(), m.currentWorktree.SessionName())
		body := components.CenteredStyle.Width(m.width - 2).Height(m.height - 5).Render(pane)
		return lipgloss.JoinVertical(lipgloss.Left, header, banner, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, banner, m.termViewport.View())
}

// renderBanner shows the read-only state. During a shake the banner flips to
// the emphasized style so rejected input is visible.
func (v *TerminalViewImpl) renderBanner(m *Model) string {
	if !m.termReadOnly {
		return ""
	}
	text := "read-only · another client holds the keyboard · ctrl+p to request write access"
	if time.Now().Before(m.termShakeUntil) {
		return components.ReadOnlyShakeStyle.Width(m.width - 2).Render(text)
	}
	return components.ReadOnlyBannerStyle.Width(m.width - 2).Render(text)
}

// Helper methods

func (v *TerminalViewImpl) isCurrentSession(m *Model, session string) bool {
	return m.currentWorktree != nil && m.currentWorktree.SessionName() == session
}

func (v *TerminalViewImpl) currentSession(m *Model) *TerminalSession {
	if m.currentWorktree == nil || globalSessionManager == nil {
		return nil
	}
	return globalSessionManager.GetSession(m.currentWorktree.SessionName())
}

func (v *TerminalViewImpl) handleOutput(m *Model) (*Model, tea.Cmd) {
	session := v.currentSession(m)
	if session == nil {
		return m, nil
	}
	m.termConnecting = false
	m.termViewport.SetContent(session.Emulator.Render())
	m.termViewport.GotoBottom()
	return m, nil
}

func (v *TerminalViewImpl) requestPromotion(m *Model) {
	session := v.currentSession(m)
	if session == nil {
		return
	}
	go func() {
		if err := session.Conn.RequestPromotion(); err != nil {
			logger.Debugf("promotion request failed: %v", err)
		}
	}()
}

func (v *TerminalViewImpl) reconnect(m *Model) (*Model, tea.Cmd) {
	if m.currentWorktree == nil || globalSessionManager == nil {
		return m, nil
	}
	m.termDisconnected = false
	m.termConnecting = true
	cols, rows := m.terminalGeometry()
	globalSessionManager.Reconnect(m.currentWorktree.SessionName(), "claude", cols, rows)
	return m, m.termSpinner.Tick
}

func (v *TerminalViewImpl) forwardInput(m *Model, msg tea.KeyMsg) {
	session := v.currentSession(m)
	if session == nil {
		return
	}

	data := keyToBytes(msg)
	if len(data) == 0 {
		return
	}

	// Off the update loop: SendInput may fire hooks that post back into the
	// program.
	go func() {
		if err := session.Conn.SendInput(data); err != nil {
			logger.Debugf("input send failed: %v", err)
		}
	}()
}

// keyToBytes translates a bubbletea key into the bytes the PTY expects.
func keyToBytes(msg tea.KeyMsg) []byte {
	if len(msg.Runes) > 0 && msg.Type == tea.KeyRunes {
		return []byte(string(msg.Runes))
	}

	switch msg.Type {
	case tea.KeyEnter:
		return []byte("\r")
	case tea.KeyBackspace:
		return []byte{127}
	case tea.KeyTab:
		return []byte("\t")
	case tea.KeySpace:
		return []byte(" ")
	case tea.KeyEsc:
		return []byte{27}
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyHome:
		return []byte("\x1b[H")
	case tea.KeyEnd:
		return []byte("\x1b[F")
	case tea.KeyDelete:
		return []byte("\x1b[3~")
	}

	switch msg.String() {
	case components.KeyCtrlC:
		return []byte{3}
	case components.KeyCtrlD:
		return []byte{4}
	case components.KeyCtrlZ:
		return []byte{26}
	case "ctrl+a":
		return []byte{1}
	case "ctrl+e":
		return []byte{5}
	case "ctrl+k":
		return []byte{11}
	case "ctrl+l":
		return []byte{12}
	case "ctrl+r":
		return []byte{18}
	case "ctrl+u":
		return []byte{21}
	case "ctrl+w":
		return []byte{23}
	}
	return nil
}
