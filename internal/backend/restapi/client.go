// Package restapi implements the service.Service interface over the remote
// MyTasks REST API.
package restapi

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

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"mytasks/internal/service"
)

const (
	// DefaultTimeout is the timeout for API calls when none is configured.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a backend response is read.
	maxResponseBytes = 4 << 20

	defaultErrorMessage = "request failed"
)

// Client implements service.Service against the backend's JSON contract.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

var _ service.Service = (*Client)(nil)

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	return NewWithHTTPClient(baseURL, timeout, &http.Client{})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: u, http: httpClient, timeout: timeout}, nil
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, in service.LoginInput) (service.AuthResult, error) {
	var out service.AuthResult
	err := c.do(ctx, "", http.MethodPost, "/auth/login", nil, in, &out)
	return out, err
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, in service.RegisterInput) (service.AuthResult, error) {
	var out service.AuthResult
	err := c.do(ctx, "", http.MethodPost, "/auth/register", nil, in, &out)
	return out, err
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh implements service.Service.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (service.AuthTokens, error) {
	var out service.AuthTokens
	err := c.do(ctx, "", http.MethodPost, "/auth/refresh", nil, refreshBody{refreshToken}, &out)
	return out, err
}

// Logout implements service.Service.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, "", http.MethodDelete, "/auth/logout", nil, refreshBody{refreshToken}, nil)
}

// Me implements service.Service.
func (c *Client) Me(ctx context.Context, accessToken string) (service.User, error) {
	var out service.User
	err := c.do(ctx, accessToken, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, accessToken string, f service.TaskFilters) (service.TaskPage, error) {
	var out service.TaskPage
	err := c.do(ctx, accessToken, http.MethodGet, "/tasks", f.Query(), nil, &out)
	return out, err
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, accessToken string, in service.CreateTaskInput) (service.Task, error) {
	var out service.Task
	err := c.do(ctx, accessToken, http.MethodPost, "/tasks", nil, in, &out)
	return out, err
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, accessToken, id string) (service.Task, error) {
	var out service.Task
	err := c.do(ctx, accessToken, http.MethodGet, taskPath(id), nil, nil, &out)
	return out, err
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, accessToken, id string, in service.UpdateTaskInput) (service.Task, error) {
	var out service.Task
	err := c.do(ctx, accessToken, http.MethodPatch, taskPath(id), nil, in, &out)
	return out, err
}

// UpdateTaskStatus implements service.Service.
func (c *Client) UpdateTaskStatus(ctx context.Context, accessToken, id string, in service.UpdateTaskStatusInput) (service.Task, error) {
	var out service.Task
	err := c.do(ctx, accessToken, http.MethodPatch, taskPath(id)+"/status", nil, in, &out)
	return out, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, accessToken, id string) error {
	return c.do(ctx, accessToken, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func taskPath(id string) string {
	return "/tasks/" + id
}

// do performs one API call. A non-empty accessToken is sent as a bearer token.
// out may be nil when no response body is expected.
func (c *Client) do(ctx context.Context, accessToken, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client(accessToken).Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer googleapi.CloseBody(resp)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return wrapError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// client returns the HTTP client to use, attaching the bearer token if any.
func (c *Client) client(accessToken string) *http.Client {
	if accessToken == "" {
		return c.http
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return &http.Client{
		Transport:     &oauth2.Transport{Source: src, Base: c.http.Transport},
		CheckRedirect: c.http.CheckRedirect,
		Jar:           c.http.Jar,
		Timeout:       c.http.Timeout,
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details"`
	Validation json.RawMessage `json:"validation"`
}

// statusError converts a non-2xx response into a *googleapi.Error carrying
// the HTTP status and the backend's message.
func statusError(resp *http.Response, data []byte) error {
	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	msg := eb.Message
	if msg == "" {
		msg = defaultErrorMessage
	}

	apiErr := &googleapi.Error{
		Code:    resp.StatusCode,
		Message: msg,
		Body:    string(data),
		Header:  resp.Header,
	}
	if eb.Error != "" {
		apiErr.Errors = []googleapi.ErrorItem{{Reason: eb.Error, Message: msg}}
	}

	details := eb.Details
	if len(details) == 0 {
		details = eb.Validation
	}
	if len(details) > 0 {
		var d any
		if json.Unmarshal(details, &d) == nil && d != nil {
			apiErr.Details = []any{d}
		}
	}
	return apiErr
}

// wrapError converts transport errors into readable errors.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("backend request timed out: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("backend request cancelled: %w", err)
	}
	return fmt.Errorf("backend request failed: %w", err)
}

// NewStatusError builds the error a backend response with the given status
// and message would produce. Fakes use it to mimic the real client.
func NewStatusError(code int, message string) error {
	return &googleapi.Error{Code: code, Message: message}
}
