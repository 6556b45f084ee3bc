package tui

import (
	"time"

	"github.com/vanpelt/catnip-tui/internal/models"
)

// Core message types
type tickMsg time.Time

// Data fetch messages
type worktreesMsg []*models.Worktree
type claudeSessionsMsg map[string]*models.ClaudeSessionSummary
type portsMsg map[int]*models.ServiceInfo
type healthStatusMsg bool
type worktreeDeletedMsg struct {
	id  string
	err error
}

// Terminal session messages
type termOutputMsg struct {
	session string
}
type termReadOnlyMsg struct {
	session  string
	readOnly bool
}
type termShakeMsg struct {
	session string
}
type termErrorMsg struct {
	session string
	title   string
	message string
}
type termDisconnectedMsg struct {
	session string
	err     error
}

// Pull request view messages
type diffMsg struct {
	worktreeID string
	diff       string
	err        error
}
type prInfoMsg struct {
	worktreeID string
	info       *models.PullRequestInfo
	err        error
}
type prResultMsg struct {
	worktreeID string
	resp       *models.PullRequestResponse
	err        error
}
type clipboardCopiedMsg struct {
	err error
}

// Transcript view messages
type transcriptMsg struct {
	sessionID string
	messages  []*models.ClaudeSessionMessage
	err       error
}

// Auth overlay messages
type authStartedMsg struct {
	resp *models.AuthStartResponse
	err  error
}
type authStatusMsg struct {
	resp *models.AuthStatusResponse
	err  error
}
type authPollMsg time.Time

// SSE event messages
type sseConnectedMsg struct{}
type sseDisconnectedMsg struct{}
type ssePortOpenedMsg struct {
	port    int
	service string
	title   string
}
type ssePortClosedMsg struct {
	port int
}
type sseContainerStatusMsg struct {
	status  string
	message string
}
type sseWorktreeUpdatedMsg struct {
	worktreeID string
	updates    map[string]any
}
type sseWorktreeCreatedMsg struct {
	worktree map[string]any
}
type sseWorktreeDeletedMsg struct {
	worktreeID string
}
