package api

import (
	"context"
	"fmt"

	"github.com/vanpelt/catnip-tui/internal/models"
)

// Ports fetches the services the server has detected listening inside the
// workspace.
func (c *Client) Ports(ctx context.Context) (*models.PortsResponse, error) {
	var resp models.PortsResponse
	if err := c.get(ctx, "/v1/ports", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PortInfo fetches the detected service on one port.
func (c *Client) PortInfo(ctx context.Context, port int) (*models.ServiceInfo, error) {
	var info models.ServiceInfo
	if err := c.get(ctx, fmt.Sprintf("/v1/ports/%d", port), &info); err != nil {
		return nil, err
	}
	return &info, nil
}
