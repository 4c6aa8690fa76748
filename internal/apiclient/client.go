// Package apiclient talks to the browser-facing MyTasks API the way the web
// app does: credentials travel as httpOnly cookies held in a cookie jar.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mytasks/internal/logging"
	"mytasks/internal/service"
	"mytasks/internal/session"
)

// RequestTimeout bounds every API call.
const RequestTimeout = 30 * time.Second

// Error is an error response from the API.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client calls the /api endpoints of a MyTasks server.
type Client struct {
	base   string
	http   *http.Client
	jar    *FileJar
	logger *slog.Logger
}

// New creates a client for the server at serverURL. logger may be nil.
func New(serverURL string, jar *FileJar, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		base:   strings.TrimRight(serverURL, "/"),
		http:   &http.Client{Jar: jar, Timeout: RequestTimeout, CheckRedirect: sameHost},
		jar:    jar,
		logger: logger,
	}
}

// sameHost refuses redirects to another host. Jar cookies are not scoped
// by host.
func sameHost(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if req.URL.Host != via[0].URL.Host {
		return fmt.Errorf("refusing redirect to %s", req.URL.Host)
	}
	return nil
}

// LoggedIn reports whether the jar holds any auth cookie.
func (c *Client) LoggedIn() bool {
	return c.jar.Has(session.AccessCookie) || c.jar.Has(session.RefreshCookie)
}

// Jar returns the cookie jar.
func (c *Client) Jar() *FileJar {
	return c.jar
}

type userResponse struct {
	User service.User `json:"user"`
}

// Register creates an account and stores the session cookies.
func (c *Client) Register(ctx context.Context, in service.RegisterInput) (service.User, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &out)
	return out.User, err
}

// Login signs in and stores the session cookies.
func (c *Client) Login(ctx context.Context, in service.LoginInput) (service.User, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &out)
	return out.User, err
}

// Refresh trades the refresh cookie for new cookies.
func (c *Client) Refresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, nil, nil)
}

// Logout ends the session on the server. The server clears the cookies.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (service.User, error) {
	var out struct {
		User service.User `json:"user"`
	}
	err := c.doAuthed(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out)
	return out.User, err
}

// ListTasks returns one page of tasks.
func (c *Client) ListTasks(ctx context.Context, f service.TaskFilters) (service.TaskPage, error) {
	var out service.TaskPage
	err := c.doAuthed(ctx, http.MethodGet, "/api/tasks", f.Query(), nil, &out)
	return out, err
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in service.CreateTaskInput) (service.Task, error) {
	var out service.Task
	err := c.doAuthed(ctx, http.MethodPost, "/api/tasks", nil, in, &out)
	return out, err
}

// GetTask fetches a task.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	var out service.Task
	err := c.doAuthed(ctx, http.MethodGet, taskPath(id), nil, nil, &out)
	return out, err
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, in service.UpdateTaskInput) (service.Task, error) {
	var out service.Task
	err := c.doAuthed(ctx, http.MethodPatch, taskPath(id), nil, in, &out)
	return out, err
}

// UpdateTaskStatus sets a task's status.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	var out service.Task
	err := c.doAuthed(ctx, http.MethodPatch, taskPath(id)+"/status", nil, service.UpdateTaskStatusInput{Status: status}, &out)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doAuthed(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

// doAuthed is do with one silent refresh when the access cookie was rejected.
func (c *Client) doAuthed(ctx context.Context, method, path string, query url.Values, body, out any) error {
	err := c.do(ctx, method, path, query, body, out)
	if StatusOf(err) != http.StatusUnauthorized || !c.jar.Has(session.RefreshCookie) {
		return err
	}
	c.logger.Debug("access rejected, refreshing session", "path", path)
	if rerr := c.Refresh(ctx); rerr != nil {
		c.logger.Debug("refresh failed", "err", rerr)
		return err
	}
	return c.do(ctx, method, path, query, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start))

	if err := c.jar.Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		var eb struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Code = eb.Error
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
