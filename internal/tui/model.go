package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanpelt/catnip-tui/internal/api"
	"github.com/vanpelt/catnip-tui/internal/config"
	"github.com/vanpelt/catnip-tui/internal/models"
)

// ViewType represents the different views in the application
type ViewType int

const (
	// WorkspacesView lists the worktrees the server manages
	WorkspacesView ViewType = iota
	// TerminalView attaches to a worktree's agent terminal
	TerminalView
	// PullRequestView shows the diff and the PR form for a worktree
	PullRequestView
	// TranscriptView browses a recorded agent session
	TranscriptView
)

// View interface that all views must implement
type View interface {
	// Update handles view-specific message processing
	Update(m *Model, msg tea.Msg) (*Model, tea.Cmd)

	// Render generates the view content
	Render(m *Model) string

	// HandleKey processes key messages for this view
	HandleKey(m *Model, msg tea.KeyMsg) (*Model, tea.Cmd)

	// HandleResize processes window resize messages
	HandleResize(m *Model, msg tea.WindowSizeMsg) (*Model, tea.Cmd)

	// GetViewType returns the view type identifier
	GetViewType() ViewType
}

// Model represents the main application state
type Model struct {
	// Core dependencies
	apiClient *api.Client
	cfg       *config.RuntimeConfig
	version   string

	// Current state
	currentView   ViewType
	width         int
	height        int
	lastUpdate    time.Time
	err           error
	quitRequested bool

	// Data state
	worktrees       []*models.Worktree
	claudeSessions  map[string]*models.ClaudeSessionSummary
	ports           map[int]*models.ServiceInfo
	selectedIndex   int
	currentWorktree *models.Worktree
	confirmDelete   bool

	// Health status
	appHealthy bool

	// Terminal view
	termViewport     viewport.Model
	termSpinner      spinner.Model
	termConnecting   bool
	termReadOnly     bool
	termShakeUntil   time.Time
	termErrTitle     string
	termErrMessage   string
	termDisconnected bool

	// Pull request view
	prDiff        string
	prDiffErr     error
	prInfo        *models.PullRequestInfo
	prResult      *models.PullRequestResponse
	prTitleInput  textinput.Model
	prBodyInput   textarea.Model
	prFormActive  bool
	prFocusBody   bool
	prSubmitting  bool
	prViewport    viewport.Model
	prStatus      string
	prDiffLoading bool

	// Transcript view
	transcriptViewport viewport.Model
	transcript         []*models.ClaudeSessionMessage
	transcriptErr      error
	transcriptLoading  bool

	// Auth overlay
	authActive bool
	authCode   string
	authURL    string
	authStatus string
	authErr    string

	// SSE connection state
	sseConnected bool

	// View instances
	views map[ViewType]View
}

// NewModel creates a new application model with initialized views
func NewModel(apiClient *api.Client, cfg *config.RuntimeConfig, version string) *Model {
	m := &Model{
		apiClient:      apiClient,
		cfg:            cfg,
		version:        version,
		currentView:    WorkspacesView,
		worktrees:      []*models.Worktree{},
		claudeSessions: make(map[string]*models.ClaudeSessionSummary),
		ports:          make(map[int]*models.ServiceInfo),
		lastUpdate:     time.Now(),
		views:          make(map[ViewType]View),
	}

	m.views[WorkspacesView] = NewWorkspacesView()
	m.views[TerminalView] = NewTerminalView()
	m.views[PullRequestView] = NewPullRequestView()
	m.views[TranscriptView] = NewTranscriptView()

	return m
}

// GetCurrentView returns the currently active view
func (m *Model) GetCurrentView() View {
	return m.views[m.currentView]
}

// SwitchToView changes the current view
func (m *Model) SwitchToView(viewType ViewType) {
	m.currentView = viewType
}

// SelectedWorktree returns the worktree under the cursor in the workspaces
// view, or nil when the list is empty.
func (m *Model) SelectedWorktree() *models.Worktree {
	if len(m.worktrees) == 0 {
		return nil
	}
	if m.selectedIndex >= len(m.worktrees) {
		return m.worktrees[len(m.worktrees)-1]
	}
	return m.worktrees[m.selectedIndex]
}

// sessionSummaryFor looks up the Claude session summary for a worktree by
// its path.
func (m *Model) sessionSummaryFor(wt *models.Worktree) *models.ClaudeSessionSummary {
	if wt == nil {
		return nil
	}
	return m.claudeSessions[wt.Path]
}
