// Package client talks to the drafts API the way the authoring page does:
// cookie-based session, JSON requests, credentials always included.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"drafts-api/middlewares"
	"drafts-api/models"
)

const (
	PostPath    = "/api/post"
	SessionPath = "/api/auth/session"
	SignInPath  = "/api/auth/signin"
	SignOutPath = "/api/auth/signout"
	DraftsPath  = "/drafts"
)

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

// New returns a client with its own cookie jar so the session cookie is
// sent with every request.
func New(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// URL resolves a route, optionally with a query, against the base URL.
func (c *Client) URL(route string) string {
	ref, err := url.Parse(route)
	if err != nil {
		ref = &url.URL{Path: route}
	}
	return c.BaseURL.ResolveReference(ref).String()
}

// SetSessionToken installs a previously issued session token.
func (c *Client) SetSessionToken(token string) {
	if token == "" {
		return
	}
	c.HTTP.Jar.SetCookies(c.BaseURL, []*http.Cookie{{
		Name:  middlewares.SessionCookieName,
		Value: token,
		Path:  "/",
	}})
}

// SessionToken returns the session token held in the cookie jar.
func (c *Client) SessionToken() string {
	for _, cookie := range c.HTTP.Jar.Cookies(c.BaseURL) {
		if cookie.Name == middlewares.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	Body   map[string]interface{}
}

func (e *APIError) Error() string {
	if msg, ok := e.Body["error"].(string); ok {
		return fmt.Sprintf("%d %s", e.Status, msg)
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

func (c *Client) postJSON(ctx context.Context, route string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(route), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.HTTP.Do(req)
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr.Body); err != nil {
		return fmt.Errorf("unreadable error response (%d): %w", resp.StatusCode, err)
	}
	return apiErr
}

// SignIn exchanges credentials for a session cookie.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, SignInPath, map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	// Secure cookies are not replayed by the jar over plain http.
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middlewares.SessionCookieName {
			c.SetSessionToken(cookie.Value)
		}
	}
	return nil
}

func (c *Client) SignOut(ctx context.Context) error {
	resp, err := c.postJSON(ctx, SignOutPath, struct{}{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	return nil
}

// Session fetches the session state. An empty object means signed out.
func (c *Client) Session(ctx context.Context) (models.SessionState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(SessionPath), nil)
	if err != nil {
		return models.SessionState{Status: models.StatusLoading}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return models.SessionState{Status: models.StatusLoading}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.SessionState{Status: models.StatusLoading}, readAPIError(resp)
	}

	var session models.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return models.SessionState{Status: models.StatusLoading}, err
	}
	return models.StateOf(&session), nil
}

// CreatePost sends a draft. The caller owns the response.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*http.Response, error) {
	return c.postJSON(ctx, PostPath, map[string]string{"title": title, "content": content})
}

// SessionFetcher reports loading until a fetch has completed successfully.
type SessionFetcher struct {
	Client *Client
}

func (f SessionFetcher) Fetch(ctx context.Context) (models.SessionState, error) {
	state, err := f.Client.Session(ctx)
	if err != nil {
		return models.SessionState{Status: models.StatusLoading}, err
	}
	return state, nil
}
