// Package client talks to the taskboard REST API and keeps a local mirror of
// the signed-in user's boards, lists and tasks.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("taskboard api: %d %s", e.Status, e.Message)
}

// Client is a thin JSON client for the taskboard API. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a client for the API served at baseURL, e.g.
// "http://localhost:4000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token. An empty token sends no Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Health

type HealthStatus struct {
	OK      bool      `json:"ok"`
	Service string    `json:"service"`
	Time    time.Time `json:"time"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Auth

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Boards

func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var out struct {
		Boards []Board `json:"boards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/boards", nil, &out); err != nil {
		return nil, err
	}
	return out.Boards, nil
}

func (c *Client) GetBoard(ctx context.Context, id uint64) (*Board, error) {
	return c.board(ctx, http.MethodGet, boardPath(id), nil)
}

func (c *Client) CreateBoard(ctx context.Context, req CreateBoardRequest) (*Board, error) {
	return c.board(ctx, http.MethodPost, "/api/boards", req)
}

func (c *Client) UpdateBoard(ctx context.Context, id uint64, title string) (*Board, error) {
	return c.board(ctx, http.MethodPut, boardPath(id), map[string]string{"title": title})
}

func (c *Client) DeleteBoard(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, boardPath(id), nil, nil)
}

func (c *Client) board(ctx context.Context, method, path string, body any) (*Board, error) {
	var out struct {
		Board Board `json:"board"`
	}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Board, nil
}

// Lists

// ListLists returns the caller's lists, restricted to boardID when non-zero.
func (c *Client) ListLists(ctx context.Context, boardID uint64) ([]List, error) {
	path := "/api/lists"
	if boardID != 0 {
		path += "?boardId=" + strconv.FormatUint(boardID, 10)
	}

	var out struct {
		Lists []List `json:"lists"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Lists, nil
}

func (c *Client) CreateList(ctx context.Context, req CreateListRequest) (*List, error) {
	return c.list(ctx, http.MethodPost, "/api/lists", req)
}

func (c *Client) UpdateList(ctx context.Context, id uint64, req UpdateListRequest) (*List, error) {
	return c.list(ctx, http.MethodPut, listPath(id), req)
}

func (c *Client) DeleteList(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, listPath(id), nil, nil)
}

func (c *Client) list(ctx context.Context, method, path string, body any) (*List, error) {
	var out struct {
		List List `json:"list"`
	}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out.List, nil
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]Task, error) {
	values := url.Values{}
	if q.ListID != 0 {
		values.Set("listId", strconv.FormatUint(q.ListID, 10))
	}
	if q.BoardID != 0 {
		values.Set("boardId", strconv.FormatUint(q.BoardID, 10))
	}
	if q.Priority != "" {
		values.Set("priority", string(q.Priority))
	}
	if q.Completed != nil {
		values.Set("completed", strconv.FormatBool(*q.Completed))
	}

	path := "/api/tasks"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var out struct {
		Tasks []Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id uint64) (*Task, error) {
	return c.task(ctx, http.MethodGet, taskPath(id), nil)
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	return c.task(ctx, http.MethodPost, "/api/tasks", req)
}

func (c *Client) UpdateTask(ctx context.Context, id uint64, req UpdateTaskRequest) (*Task, error) {
	return c.task(ctx, http.MethodPut, taskPath(id), req)
}

// MoveTask reassigns a task to listID.
func (c *Client) MoveTask(ctx context.Context, id, listID uint64) (*Task, error) {
	return c.task(ctx, http.MethodPut, taskPath(id)+"/move", map[string]uint64{"listId": listID})
}

func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// SuggestTasks asks the server to propose tasks from free text.
func (c *Client) SuggestTasks(ctx context.Context, text string) ([]Suggestion, error) {
	var out struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks/suggest", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

func (c *Client) task(ctx context.Context, method, path string, body any) (*Task, error) {
	var out struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

// Admin

func (c *Client) ListUsers(ctx context.Context, page, limit int) ([]User, *Pagination, error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/admin/users"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var out struct {
		Users      []User     `json:"users"`
		Pagination Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Users, &out.Pagination, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+strconv.FormatUint(id, 10), nil, nil)
}

func (c *Client) ChangeRole(ctx context.Context, id uint64, role Role) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	path := "/api/admin/users/" + strconv.FormatUint(id, 10) + "/role"
	if err := c.do(ctx, http.MethodPost, path, map[string]Role{"role": role}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out struct {
		Stats Stats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, data []byte) *APIError {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return &APIError{Status: status, Message: http.StatusText(status)}
	}
	return &APIError{Status: status, Message: body.Error}
}

func boardPath(id uint64) string { return "/api/boards/" + strconv.FormatUint(id, 10) }
func listPath(id uint64) string  { return "/api/lists/" + strconv.FormatUint(id, 10) }
func taskPath(id uint64) string  { return "/api/tasks/" + strconv.FormatUint(id, 10) }
