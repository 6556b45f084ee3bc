package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanpelt/catnip-tui/internal/api"
	"github.com/vanpelt/catnip-tui/internal/config"
	"github.com/vanpelt/catnip-tui/internal/events"
	"github.com/vanpelt/catnip-tui/internal/logger"
	"github.com/vanpelt/catnip-tui/internal/models"
	"github.com/vanpelt/catnip-tui/internal/tui/components"
)

// App wires the model, the event stream and the session manager together.
type App struct {
	apiClient *api.Client
	cfg       *config.RuntimeConfig
	version   string
	program   *tea.Program
	sseClient *events.Client
}

// NewApp creates the application for the given server.
func NewApp(apiClient *api.Client, cfg *config.RuntimeConfig, version string) *App {
	return &App{
		apiClient: apiClient,
		cfg:       cfg,
		version:   version,
	}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	m := NewModel(a.apiClient, a.cfg, a.version)

	// Terminal connection spinner
	m.termSpinner = spinner.New()
	m.termSpinner.Spinner = spinner.Dot
	m.termSpinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(components.ColorPrimary))

	// Viewports are sized on the first WindowSizeMsg
	m.termViewport = viewport.New(80, 24)
	m.prViewport = viewport.New(80, 24)
	m.transcriptViewport = viewport.New(80, 24)

	// Pull request form inputs
	m.prTitleInput = textinput.New()
	m.prTitleInput.Placeholder = "Pull request title"
	m.prTitleInput.CharLimit = 200
	m.prTitleInput.Width = 60

	m.prBodyInput = textarea.New()
	m.prBodyInput.Placeholder = "Describe the change..."
	m.prBodyInput.SetWidth(60)
	m.prBodyInput.SetHeight(6)

	a.program = tea.NewProgram(*m, tea.WithAltScreen())

	InitSessionManager(a.program, a.cfg.ServerURL)

	a.sseClient = events.NewClient(a.cfg.ServerURL+"/v1/events", &programSink{program: a.program}, logger.Logger)
	a.sseClient.Start()
	defer a.sseClient.Stop()

	_, err := a.program.Run()
	if globalSessionManager != nil {
		globalSessionManager.CloseAll()
	}
	return err
}

// Init schedules the initial data fetches.
func (m Model) Init() tea.Cmd {
	return m.initCommands()
}

// View renders the current view plus the footer, with the auth overlay on
// top when a device flow is in progress.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.authActive {
		return m.renderAuthOverlay()
	}

	content := m.GetCurrentView().Render(&m)
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

func (m *Model) renderFooter() string {
	status := components.StatusDisconnectedStyle.Render("● offline")
	if m.sseConnected || m.appHealthy {
		status = components.StatusConnectedStyle.Render("● " + m.apiClient.BaseURL())
	}

	var keys string
	switch m.currentView {
	case WorkspacesView:
		keys = "enter open · p pr · t transcript · d delete · ctrl+q quit"
	case TerminalView:
		keys = "ctrl+p promote · esc back · ctrl+q quit"
	case PullRequestView:
		keys = "c create/update · y copy url · esc back"
	case TranscriptView:
		keys = "j/k scroll · esc back"
	}

	footer := fmt.Sprintf("%s  %s", status, components.MutedStyle.Render(keys))
	return components.FooterStyle.Width(m.width - 2).Render(footer)
}

func (m *Model) renderAuthOverlay() string {
	var b strings.Builder
	b.WriteString(components.SectionHeaderStyle.Render("GitHub Authentication"))
	b.WriteString("\n\n")

	switch m.authStatus {
	case "error":
		b.WriteString(components.ErrorStyle.Render("Authentication failed"))
		if m.authErr != "" {
			b.WriteString("\n" + m.authErr)
		}
	default:
		b.WriteString("Enter this code at ")
		b.WriteString(components.KeyHighlightStyle.Render(m.authURL))
		b.WriteString("\n\n")
		b.WriteString(components.KeyHighlightStyle.Render("  " + m.authCode + "  "))
		b.WriteString("\n\n")
		b.WriteString(components.MutedStyle.Render(fmt.Sprintf("status: %s", m.authStatus)))
	}

	b.WriteString("\n\n")
	b.WriteString(components.MutedStyle.Render("c copy code · esc dismiss"))

	box := components.OverlayStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Navigation helpers shared by the views

func (m *Model) openTerminal(wt *models.Worktree) (*Model, tea.Cmd) {
	m.currentWorktree = wt
	m.termErrTitle = ""
	m.termErrMessage = ""
	m.termDisconnected = false
	m.SwitchToView(TerminalView)

	cols, rows := m.terminalGeometry()
	m.termViewport.Width = cols
	m.termViewport.Height = rows

	if globalSessionManager != nil {
		session := globalSessionManager.GetSession(wt.SessionName())
		if session == nil {
			m.termConnecting = true
			m.termReadOnly = false
			globalSessionManager.CreateSession(wt.SessionName(), "claude", cols, rows)
		} else {
			m.termConnecting = false
			m.termReadOnly = session.Conn.ReadOnly()
			m.termViewport.SetContent(session.Emulator.Render())
			m.termViewport.GotoBottom()
			globalSessionManager.Resize(wt.SessionName(), cols, rows)
		}
	}
	return m, m.termSpinner.Tick
}

func (m *Model) openPullRequest(wt *models.Worktree) (*Model, tea.Cmd) {
	m.currentWorktree = wt
	m.SwitchToView(PullRequestView)
	m.prDiff = ""
	m.prDiffErr = nil
	m.prInfo = nil
	m.prResult = nil
	m.prStatus = ""
	m.prFormActive = false
	m.prDiffLoading = true
	m.prTitleInput.SetValue(wt.PullRequestTitle)
	m.prBodyInput.SetValue(wt.PullRequestBody)
	return m, tea.Batch(m.fetchDiff(wt.ID), m.fetchPRInfo(wt.ID))
}

func (m *Model) openTranscript(wt *models.Worktree) (*Model, tea.Cmd) {
	m.currentWorktree = wt
	m.SwitchToView(TranscriptView)
	m.transcript = nil
	m.transcriptErr = nil

	summary := m.sessionSummaryFor(wt)
	if summary == nil {
		return m, nil
	}
	sessionID := ""
	if summary.CurrentSessionId != nil {
		sessionID = *summary.CurrentSessionId
	} else if summary.LastSessionId != nil {
		sessionID = *summary.LastSessionId
	}
	if sessionID == "" {
		return m, nil
	}
	m.transcriptLoading = true
	return m, m.fetchTranscript(sessionID)
}

// terminalGeometry derives emulator cols and rows from the window size,
// leaving room for the header, the read-only banner and the footer.
func (m *Model) terminalGeometry() (cols, rows int) {
	cols = m.width - 2
	rows = m.height - 5
	if cols < 20 {
		cols = 20
	}
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

// applyWorktreeUpdates folds an SSE update payload into a worktree in place.
func applyWorktreeUpdates(wt *models.Worktree, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "claude_activity_state":
			if s, ok := value.(string); ok {
				wt.ClaudeActivityState = models.ClaudeActivityState(s)
			}
		case "is_dirty":
			if b, ok := value.(bool); ok {
				wt.IsDirty = b
			}
		case "has_conflicts":
			if b, ok := value.(bool); ok {
				wt.HasConflicts = b
			}
		case "commit_count":
			if f, ok := value.(float64); ok {
				wt.CommitCount = int(f)
			}
		case "commits_behind":
			if f, ok := value.(float64); ok {
				wt.CommitsBehind = int(f)
			}
		case "branch":
			if s, ok := value.(string); ok {
				wt.Branch = s
			}
		case "commit_hash":
			if s, ok := value.(string); ok {
				wt.CommitHash = s
			}
		case "pull_request_url":
			if s, ok := value.(string); ok {
				wt.PullRequestURL = s
			}
		case "pull_request_title":
			if s, ok := value.(string); ok {
				wt.PullRequestTitle = s
			}
		case "session_title":
			if title, ok := value.(map[string]any); ok {
				if s, ok := title["title"].(string); ok {
					if wt.SessionTitle == nil {
						wt.SessionTitle = &models.TitleEntry{}
					}
					wt.SessionTitle.Title = s
				}
			}
		}
	}
}

// programSink bridges SSE events into the bubbletea program.
type programSink struct {
	program *tea.Program
}

func (s *programSink) Connected() {
	s.program.Send(sseConnectedMsg{})
}

func (s *programSink) Disconnected(err error) {
	s.program.Send(sseDisconnectedMsg{})
}

func (s *programSink) PortOpened(p events.PortOpened) {
	s.program.Send(ssePortOpenedMsg{port: p.Port, service: p.Service, title: p.Title})
}

func (s *programSink) PortClosed(port int) {
	s.program.Send(ssePortClosedMsg{port: port})
}

func (s *programSink) ContainerStatus(cs events.ContainerStatus) {
	s.program.Send(sseContainerStatusMsg{status: cs.Status, message: cs.Message})
}

func (s *programSink) WorktreeUpdated(u events.WorktreeUpdate) {
	s.program.Send(sseWorktreeUpdatedMsg{worktreeID: u.WorktreeID, updates: u.Updates})
}

func (s *programSink) WorktreeCreated(worktree map[string]any) {
	s.program.Send(sseWorktreeCreatedMsg{worktree: worktree})
}

func (s *programSink) WorktreeDeleted(worktreeID string) {
	s.program.Send(sseWorktreeDeletedMsg{worktreeID: worktreeID})
}

func (s *programSink) Notification(n events.Notification) {
	logger.Debugf("notification: %s %s", n.Title, n.Body)
}
