package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vanpelt/catnip-tui/internal/models"
)

// GitStatus fetches the repositories the server is managing.
func (c *Client) GitStatus(ctx context.Context) (*models.GitStatus, error) {
	var status models.GitStatus
	if err := c.get(ctx, "/v1/git/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWorktrees fetches all worktrees across repositories.
func (c *Client) ListWorktrees(ctx context.Context) ([]*models.Worktree, error) {
	var worktrees []*models.Worktree
	if err := c.get(ctx, "/v1/git/worktrees", &worktrees); err != nil {
		return nil, err
	}
	return worktrees, nil
}

// DeleteWorktree removes a worktree and its branch on the server.
func (c *Client) DeleteWorktree(ctx context.Context, id string) error {
	return c.delete(ctx, "/v1/git/worktrees/"+url.PathEscape(id))
}

// WorktreeDiff fetches the raw diff between a worktree's branch and its
// source branch.
func (c *Client) WorktreeDiff(ctx context.Context, id string) (*models.WorktreeDiffResponse, error) {
	var diff models.WorktreeDiffResponse
	if err := c.get(ctx, fmt.Sprintf("/v1/git/worktrees/%s/diff", url.PathEscape(id)), &diff); err != nil {
		return nil, err
	}
	return &diff, nil
}

// PullRequestInfo fetches the state of any pull request for the worktree's
// branch, including whether the branch has commits ahead of its base.
func (c *Client) PullRequestInfo(ctx context.Context, id string) (*models.PullRequestInfo, error) {
	var info models.PullRequestInfo
	if err := c.get(ctx, fmt.Sprintf("/v1/git/worktrees/%s/pr", url.PathEscape(id)), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreatePullRequest opens a pull request for the worktree's branch.
func (c *Client) CreatePullRequest(ctx context.Context, id string, req *models.CreatePullRequestRequest) (*models.PullRequestResponse, error) {
	var resp models.PullRequestResponse
	if err := c.post(ctx, fmt.Sprintf("/v1/git/worktrees/%s/pr", url.PathEscape(id)), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdatePullRequest pushes new commits and refreshes the title and body of an
// existing pull request.
func (c *Client) UpdatePullRequest(ctx context.Context, id string, req *models.CreatePullRequestRequest) (*models.PullRequestResponse, error) {
	var resp models.PullRequestResponse
	if err := c.put(ctx, fmt.Sprintf("/v1/git/worktrees/%s/pr", url.PathEscape(id)), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
