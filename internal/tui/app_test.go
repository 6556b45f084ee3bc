package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vanpelt/catnip-tui/internal/models"
)

func TestApplyWorktreeUpdates(t *testing.T) {
	wt := &models.Worktree{
		ID:                  "wt-1",
		Branch:              "refs/catnip/felix",
		ClaudeActivityState: models.ClaudeInactive,
	}

	applyWorktreeUpdates(wt, map[string]any{
		"claude_activity_state": "active",
		"is_dirty":              true,
		"commit_count":          float64(3),
		"commits_behind":        float64(1),
		"pull_request_url":      "https://github.com/acme/widgets/pull/7",
		"session_title":         map[string]any{"title": "Fix flaky tests"},
	})

	assert.Equal(t, models.ClaudeActive, wt.ClaudeActivityState)
	assert.True(t, wt.IsDirty)
	assert.Equal(t, 3, wt.CommitCount)
	assert.Equal(t, 1, wt.CommitsBehind)
	assert.Equal(t, "https://github.com/acme/widgets/pull/7", wt.PullRequestURL)
	assert.Equal(t, "Fix flaky tests", wt.SessionTitle.Title)
}

func TestApplyWorktreeUpdatesIgnoresWrongTypes(t *testing.T) {
	wt := &models.Worktree{ID: "wt-1", CommitCount: 2}

	applyWorktreeUpdates(wt, map[string]any{
		"commit_count": "not-a-number",
		"is_dirty":     "yes",
		"unknown_key":  true,
	})

	assert.Equal(t, 2, wt.CommitCount)
	assert.False(t, wt.IsDirty)
}

func TestSelectedWorktreeClamped(t *testing.T) {
	m := &Model{
		worktrees: []*models.Worktree{
			{ID: "wt-1"},
			{ID: "wt-2"},
		},
		selectedIndex: 5,
	}
	assert.Equal(t, "wt-2", m.SelectedWorktree().ID)

	m.worktrees = nil
	assert.Nil(t, m.SelectedWorktree())
}
