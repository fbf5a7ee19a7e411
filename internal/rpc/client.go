package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Gohlub/TaskManager-example/internal/domain"
	"github.com/Gohlub/TaskManager-example/internal/registry"
)

// Client is the typed client peers use to reach a task-manager instance.
// Purely mechanical request/response mapping; callers own retry policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the peer at baseURL. Every call is bounded
// by the given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetStatistics calls the peer's get_statistics operation.
func (c *Client) GetStatistics(ctx context.Context) (registry.Stats, error) {
	var stats registry.Stats
	if err := c.getJSON(ctx, c.baseURL+"/rpc/statistics", &stats); err != nil {
		return registry.Stats{}, fmt.Errorf("get_statistics failed: %w", err)
	}
	return stats, nil
}

// GetTasksByStatus calls the peer's get_tasks_by_status operation.
func (c *Client) GetTasksByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]domain.Task, error) {
	endpoint := fmt.Sprintf("%s/rpc/tasks?status=%s", c.baseURL, url.QueryEscape(string(status)))

	var tasks []domain.Task
	if err := c.getJSON(ctx, endpoint, &tasks); err != nil {
		return nil, fmt.Errorf("get_tasks_by_status failed: %w", err)
	}
	return tasks, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("peer returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode peer response: %w", err)
	}

	return nil
}
