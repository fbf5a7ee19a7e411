package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/Gohlub/TaskManager-example/internal/domain"
)

// Client is the wire-level interface to the storage collaborator.
// Both methods honor the deadline carried by the context; the returned
// Outcome classifies any failure for the caller's storage_status reporting.
type Client interface {
	// AddTask sends a task to the collaborator for durable storage.
	AddTask(ctx context.Context, task domain.Task) (Outcome, error)

	// TasksByStatus fetches previously persisted tasks with the given status.
	TasksByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.Task, Outcome, error)
}

// addTaskReply is the collaborator's acknowledgement payload.
type addTaskReply struct {
	Success bool `json:"success"`
}

// HTTPClient talks to the storage daemon over its HTTP JSON interface.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a storage client for the collaborator at baseURL.
// Call deadlines come from the per-call context, not the http.Client.
func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HTTPClient")
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger.With(slog.String("component", "storage_client")),
	}
}

// AddTask sends the task to the collaborator's upsert endpoint.
func (c *HTTPClient) AddTask(ctx context.Context, task domain.Task) (Outcome, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return OutcomeDeserialization, fmt.Errorf("failed to encode task: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/storage/tasks",
		bytes.NewReader(body),
	)
	if err != nil {
		return OutcomeOffline, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome := classifyTransportError(err)
		return outcome, fmt.Errorf("storage call failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close storage response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return OutcomeOffline, fmt.Errorf("storage returned status %d", resp.StatusCode)
	}

	var reply addTaskReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return OutcomeDeserialization, fmt.Errorf("failed to decode storage reply: %w", err)
	}

	if !reply.Success {
		return OutcomeOffline, errors.New("storage rejected the task")
	}

	return OutcomeSuccess, nil
}

// TasksByStatus fetches persisted tasks with the given status.
func (c *HTTPClient) TasksByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]domain.Task, Outcome, error) {
	endpoint := fmt.Sprintf("%s/storage/tasks?status=%s", c.baseURL, url.QueryEscape(string(status)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, OutcomeOffline, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome := classifyTransportError(err)
		return nil, outcome, fmt.Errorf("storage call failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close storage response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, OutcomeOffline, fmt.Errorf("storage returned status %d", resp.StatusCode)
	}

	var tasks []domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, OutcomeDeserialization, fmt.Errorf("failed to decode stored tasks: %w", err)
	}

	return tasks, OutcomeSuccess, nil
}

// classifyTransportError maps a transport failure onto the outcome taxonomy:
// a deadline or network timeout is OutcomeTimeout, everything else is
// OutcomeOffline.
func classifyTransportError(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimeout
	}

	return OutcomeOffline
}
