package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/vanpelt/catnip-tui/internal/models"
)

// StartGitHubAuth kicks off the GitHub device flow on the server and returns
// the one-time code plus the activation URL the user must visit.
func (c *Client) StartGitHubAuth(ctx context.Context) (*models.AuthStartResponse, error) {
	var resp models.AuthStartResponse
	if err := c.post(ctx, "/v1/auth/github/start", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GitHubAuthStatus polls the current state of the device flow. A 404 means no
// flow has been started, which is reported as status "none" rather than an
// error so callers can poll unconditionally.
func (c *Client) GitHubAuthStatus(ctx context.Context) (*models.AuthStatusResponse, error) {
	var resp models.AuthStatusResponse
	if err := c.get(ctx, "/v1/auth/github/status", &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return &models.AuthStatusResponse{Status: "none"}, nil
		}
		return nil, err
	}
	return &resp, nil
}
