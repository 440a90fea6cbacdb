// Package store talks to the remote task store over HTTP.
//
// The store exposes list, create, and replace over a /todos resource. No
// delete call exists here at all: deletion is a purely local concern of the
// task list. By default responses are decoded leniently, meaning any body
// that parses as a task record counts as success whatever the status code,
// matching the observed behavior of the reference store. Strict status
// checking is available as an opt-in.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nibzard/taskpad/internal/task"
)

// TransportError is the only failure kind the application distinguishes:
// the round-trip itself failed, or the body did not decode as the expected
// record shape.
type TransportError struct {
	Op  string // the store operation, e.g. "list", "create", "replace"
	Err error  // underlying cause
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is the HTTP wrapper for the remote task store.
type Client struct {
	baseURL    string
	strict     bool
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Zero means no timeout, which is
// the default: a hung call stays pending indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithStrictStatus makes non-2xx responses fail even when their body
// decodes cleanly.
func WithStrictStatus() Option {
	return func(c *Client) {
		c.strict = true
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the store rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches up to limit tasks via GET /todos?_limit=N.
// A limit of zero or less fetches the store's full collection.
func (c *Client) List(ctx context.Context, limit int) ([]task.Task, error) {
	url := fmt.Sprintf("%s/todos", c.baseURL)
	if limit > 0 {
		url = fmt.Sprintf("%s?_limit=%d", url, limit)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}

	var tasks []task.Task
	if err := c.do(httpReq, "list", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListRaw performs the list call but returns the undecoded payload along
// with the response status. Transport failure is the only error; status and
// body interpretation are left to the caller. This feeds the doctor's
// contract checks.
func (c *Client) ListRaw(ctx context.Context, limit int) (int, []byte, error) {
	url := fmt.Sprintf("%s/todos", c.baseURL)
	if limit > 0 {
		url = fmt.Sprintf("%s?_limit=%d", url, limit)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, &TransportError{Op: "list", Err: err}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, &TransportError{Op: "list", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: "list", Err: fmt.Errorf("reading response: %w", err)}
	}
	return resp.StatusCode, raw, nil
}

// Create stores a new task via POST /todos and returns the server-assigned
// record. The reference store assigns the same id (201) to every create;
// callers must not assume uniqueness.
func (c *Client) Create(ctx context.Context, title string, completed bool) (task.Task, error) {
	url := fmt.Sprintf("%s/todos", c.baseURL)

	body, err := json.Marshal(writeRequest{Title: title, Completed: completed})
	if err != nil {
		return task.Task{}, &TransportError{Op: "create", Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return task.Task{}, &TransportError{Op: "create", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var created task.Task
	if err := c.do(httpReq, "create", &created); err != nil {
		return task.Task{}, err
	}
	return created, nil
}

// Replace performs a full-resource replace via PUT /todos/{id} and returns
// the resulting record, which may echo the input or apply server defaults.
func (c *Client) Replace(ctx context.Context, id int, title string, completed bool) (task.Task, error) {
	url := fmt.Sprintf("%s/todos/%d", c.baseURL, id)

	body, err := json.Marshal(writeRequest{Title: title, Completed: completed})
	if err != nil {
		return task.Task{}, &TransportError{Op: "replace", Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return task.Task{}, &TransportError{Op: "replace", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var replaced task.Task
	if err := c.do(httpReq, "replace", &replaced); err != nil {
		return task.Task{}, err
	}
	return replaced, nil
}

// do executes the request and decodes the response body into out.
// In lenient mode (the default) the status code is ignored entirely: a body
// that decodes is a success, even on an error status. Strict mode rejects
// non-2xx responses first.
func (c *Client) do(req *http.Request, op string, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if c.strict && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(raw, 200))}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= n {
		return s
	}
	// Back the cut up so it never splits a multi-byte rune.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// ---- Request types scoped to this package ----

// writeRequest is the body for create and replace calls. The completed flag
// is whatever the caller passes; id is never sent.
type writeRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
