package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanpelt/catnip-tui/internal/models"
)

// Ticker commands
func tick() tea.Cmd {
	return tea.Tick(time.Second*5, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func authPollTick() tea.Cmd {
	return tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		return authPollMsg(t)
	})
}

func fetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// Data fetching commands
func (m *Model) fetchWorktrees() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		worktrees, err := client.ListWorktrees(ctx)
		if err != nil {
			// Transient fetch errors just leave the previous list in place.
			return nil
		}
		return worktreesMsg(worktrees)
	}
}

func (m *Model) fetchClaudeSessions() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		sessions, err := client.ClaudeSessions(ctx)
		if err != nil {
			return nil
		}
		return claudeSessionsMsg(sessions)
	}
}

func (m *Model) fetchPorts() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		resp, err := client.Ports(ctx)
		if err != nil {
			return nil
		}
		return portsMsg(resp.Ports)
	}
}

func (m *Model) fetchHealthStatus() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return healthStatusMsg(client.Healthy(ctx))
	}
}

func (m *Model) deleteWorktree(id string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		err := client.DeleteWorktree(ctx, id)
		return worktreeDeletedMsg{id: id, err: err}
	}
}

// Pull request commands
func (m *Model) fetchDiff(worktreeID string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		resp, err := client.WorktreeDiff(ctx, worktreeID)
		if err != nil {
			return diffMsg{worktreeID: worktreeID, err: err}
		}
		return diffMsg{worktreeID: worktreeID, diff: resp.Diff}
	}
}

func (m *Model) fetchPRInfo(worktreeID string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		info, err := client.PullRequestInfo(ctx, worktreeID)
		if err != nil {
			return prInfoMsg{worktreeID: worktreeID, err: err}
		}
		return prInfoMsg{worktreeID: worktreeID, info: info}
	}
}

func (m *Model) submitPullRequest(worktreeID string, req *models.CreatePullRequestRequest, update bool) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		// PR creation pushes the branch; give it room.
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		var resp *models.PullRequestResponse
		var err error
		if update {
			resp, err = client.UpdatePullRequest(ctx, worktreeID, req)
		} else {
			resp, err = client.CreatePullRequest(ctx, worktreeID, req)
		}
		return prResultMsg{worktreeID: worktreeID, resp: resp, err: err}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{err: clipboard.WriteAll(text)}
	}
}

// Transcript commands
func (m *Model) fetchTranscript(sessionID string) tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		messages, err := client.ClaudeTranscript(ctx, sessionID)
		return transcriptMsg{sessionID: sessionID, messages: messages, err: err}
	}
}

// Auth commands
func (m *Model) startAuth() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		resp, err := client.StartGitHubAuth(ctx)
		return authStartedMsg{resp: resp, err: err}
	}
}

func (m *Model) pollAuthStatus() tea.Cmd {
	client := m.apiClient
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()

		resp, err := client.GitHubAuthStatus(ctx)
		return authStatusMsg{resp: resp, err: err}
	}
}

// Batch commands for initialization
func (m *Model) initCommands() tea.Cmd {
	return tea.Batch(
		m.fetchWorktrees(),
		m.fetchClaudeSessions(),
		m.fetchPorts(),
		m.fetchHealthStatus(),
		m.termSpinner.Tick,
		tick(),
	)
}
