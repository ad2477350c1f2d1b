// Package deploy is a small HTTP client for the chain deployment service.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barekit/orbitai/pkg/orbit"
)

const (
	// DefaultBaseURL is where the deployment service listens in development.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrNotFound is returned when the service does not know a deployment id.
	ErrNotFound = errors.New("deployment not found")
	// ErrUnavailable wraps connection-level failures.
	ErrUnavailable = errors.New("deployment service unavailable")
)

// Client talks to the deployment service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the service base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deployment service returned %d: %s", e.StatusCode, e.Message)
}

// Status is the polled state of a deployment.
type Status struct {
	DeploymentID string         `json:"deployment_id"`
	Status       string         `json:"status"`
	Progress     int            `json:"progress"`
	CurrentStep  string         `json:"current_step,omitempty"`
	Error        string         `json:"error,omitempty"`
	Result       map[string]any `json:"result,omitempty"`
}

// Status values reported by the service.
const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Submission is the outcome of a successful Submit.
type Submission struct {
	ConfigID     string
	DeploymentID string
}

// SaveConfig stores cfg with the service and returns its config id.
func (c *Client) SaveConfig(ctx context.Context, cfg orbit.BackendConfig) (string, error) {
	var resp struct {
		ConfigID string `json:"configId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orbit/config", cfg, http.StatusCreated, &resp); err != nil {
		return "", err
	}
	return resp.ConfigID, nil
}

// StartDeployment starts deploying a saved config and returns the deployment id.
func (c *Client) StartDeployment(ctx context.Context, configID string) (string, error) {
	body := map[string]string{"configId": configID}
	var resp struct {
		DeploymentID string `json:"deploymentId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orbit/deploy", body, http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.DeploymentID, nil
}

// Submit saves cfg then starts its deployment.
func (c *Client) Submit(ctx context.Context, cfg orbit.BackendConfig) (*Submission, error) {
	configID, err := c.SaveConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	deploymentID, err := c.StartDeployment(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy: %w", err)
	}
	return &Submission{ConfigID: configID, DeploymentID: deploymentID}, nil
}

// Status polls a deployment.
func (c *Client) Status(ctx context.Context, deploymentID string) (*Status, error) {
	var resp struct {
		Status      string         `json:"status"`
		Progress    int            `json:"progress"`
		CurrentStep string         `json:"currentStep"`
		Error       string         `json:"error"`
		Result      map[string]any `json:"result"`
	}
	path := "/api/orbit/deploy/status/" + url.PathEscape(deploymentID)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if resp.Status == "" {
		resp.Status = "unknown"
	}
	return &Status{
		DeploymentID: deploymentID,
		Status:       resp.Status,
		Progress:     resp.Progress,
		CurrentStep:  resp.CurrentStep,
		Error:        resp.Error,
		Result:       resp.Result,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode != want {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
