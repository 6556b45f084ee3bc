package api

import (
	"context"
	"net/url"

	"github.com/vanpelt/catnip-tui/internal/models"
)

// ClaudeSessions fetches per-worktree Claude session summaries, keyed by
// worktree path.
func (c *Client) ClaudeSessions(ctx context.Context) (map[string]*models.ClaudeSessionSummary, error) {
	var sessions map[string]*models.ClaudeSessionSummary
	if err := c.get(ctx, "/v1/claude/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ClaudeSessionByWorktree fetches the session summary for a single worktree.
func (c *Client) ClaudeSessionByWorktree(ctx context.Context, worktreePath string) (*models.ClaudeSessionSummary, error) {
	var summary models.ClaudeSessionSummary
	path := "/v1/claude/session?worktree_path=" + url.QueryEscape(worktreePath)
	if err := c.get(ctx, path, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ClaudeTranscript fetches the recorded conversation for a session. The
// server returns the complete session payload; only the messages are
// surfaced here.
func (c *Client) ClaudeTranscript(ctx context.Context, sessionID string) ([]*models.ClaudeSessionMessage, error) {
	var data models.FullSessionData
	if err := c.get(ctx, "/v1/claude/session/"+url.PathEscape(sessionID), &data); err != nil {
		return nil, err
	}
	return data.Messages, nil
}
