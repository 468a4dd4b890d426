// Package remote implements the entity store contract over the scheduling
// API, so a client process can work against a server the same way the
// server works against its own persistence.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/example/shift-scheduler/internal/application"
	"github.com/example/shift-scheduler/internal/sched"
	"github.com/example/shift-scheduler/internal/store"
)

// sessionCookie mirrors the cookie name the server sets on login.
const sessionCookie = "sched_session"

// Client posts to the scheduling API and tracks the session token. It is
// safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient builds a client for the API rooted at baseURL. A nil httpClient
// gets a default with a conservative timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// post sends one API call and decodes the response into out when out is
// non-nil. Error statuses map back onto the sentinels the server mapped
// them from.
func (c *Client) post(ctx context.Context, route string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode %s request: %w", route, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sched/api/"+route, &buf)
	if err != nil {
		return fmt.Errorf("build %s request: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", route, err)
	}
	defer resp.Body.Close()

	// Login responses carry the token as a cookie.
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie {
			c.setToken(cookie.Value)
		}
	}

	if err := statusError(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", route, err)
		}
	}
	return nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusConflict:
		return store.ErrDuplicateIdentity
	case http.StatusUnauthorized:
		return application.ErrInvalidSession
	}

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Message != "" {
		if resp.StatusCode == http.StatusUnprocessableEntity {
			return &application.ValidationError{FieldErrors: body.Errors}
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Message)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

// Credentials implements the session contract over the API.
type Credentials struct {
	client *Client

	mu      sync.RWMutex
	current *sched.Employee
}

// NewCredentials wires a session manager to the client.
func NewCredentials(client *Client) *Credentials {
	return &Credentials{client: client}
}

// Current returns the employee from the last successful login or check.
func (c *Credentials) Current() (sched.Employee, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return sched.Employee{}, false
	}
	return *c.current, true
}

// Check validates the session with the server and refreshes the cached
// employee.
func (c *Credentials) Check(ctx context.Context) (sched.Employee, error) {
	var employee sched.Employee
	if err := c.client.post(ctx, "check_session", nil, &employee); err != nil {
		return sched.Employee{}, err
	}

	c.mu.Lock()
	c.current = &employee
	c.mu.Unlock()
	return employee, nil
}

// Login authenticates and begins a session. The client picks the token up
// from the response.
func (c *Credentials) Login(ctx context.Context, email, password string) (sched.Employee, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var employee sched.Employee
	if err := c.client.post(ctx, "login_request", body, &employee); err != nil {
		// A 401 on login means the credentials were rejected, not that an
		// existing session went stale.
		if errors.Is(err, application.ErrInvalidSession) {
			return sched.Employee{}, application.ErrInvalidCredentials
		}
		return sched.Employee{}, err
	}

	c.mu.Lock()
	c.current = &employee
	c.mu.Unlock()
	return employee, nil
}

// Logout ends the session and drops the cached employee and token.
func (c *Credentials) Logout(ctx context.Context) error {
	err := c.client.post(ctx, "logout_request", nil, nil)

	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
	c.client.setToken("")
	return err
}
