package archon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// Status is the lifecycle state of a task in the tracking service.
type Status string

const (
	StatusTodo   Status = "todo"
	StatusDoing  Status = "doing"
	StatusReview Status = "review"
	StatusDone   Status = "done"
)

// Assignee is who a task is assigned to in the tracking service.
type Assignee string

const (
	AssigneeUser     Assignee = "User"
	AssigneeArchon   Assignee = "Archon"
	AssigneeIDEAgent Assignee = "AI IDE Agent"
)

// NewTask is the request body for creating a task.
type NewTask struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Assignee    Assignee `json:"assignee"`
	Feature     string   `json:"feature,omitempty"`
}

// Task is a task as returned by the tracking service. Only the fields these
// tools read are decoded; Raw keeps the full response body.
type Task struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      Status          `json:"status"`
	Assignee    Assignee        `json:"assignee"`
	Feature     string          `json:"feature,omitempty"`
	Raw         json.RawMessage `json:"-"`
}

// Client talks to the task-tracking service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// New creates a Client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root this client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateTask creates a task and returns the identifier assigned by the service.
func (c *Client) CreateTask(ctx context.Context, task NewTask) (string, error) {
	const op = "create task"
	endpoint := c.baseURL + "/api/tasks"

	body, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("encoding task: %w", err)
	}

	data, err := c.do(ctx, op, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", &RemoteServiceError{Op: op, URL: endpoint, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if created.ID == "" {
		return "", &RemoteServiceError{Op: op, URL: endpoint, Err: ErrMissingID}
	}
	return created.ID, nil
}

// GetTask fetches a task by identifier.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	const op = "get task"
	endpoint := c.baseURL + "/api/tasks/" + url.PathEscape(id)

	data, err := c.do(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, &RemoteServiceError{Op: op, URL: endpoint, Err: fmt.Errorf("parsing response: %w", err)}
	}
	task.Raw = json.RawMessage(data)
	return &task, nil
}

// do performs a single request and returns the body of a 2xx response.
// Every failure is reported as a *RemoteServiceError.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &RemoteServiceError{Op: op, URL: endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("task service request", "method", method, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteServiceError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteServiceError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	slog.Debug("task service response", "method", method, "url", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteServiceError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
	}
	return data, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
