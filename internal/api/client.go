package api

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

	"github.com/google/uuid"
)

// TokenSource supplies the bearer tokens the client attaches to requests
// and receives the rotated pair after a transparent refresh.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	UpdateTokens(access, refresh string)
	Clear()
}

// ErrSessionExpired is returned when a 401 could not be recovered by the
// single refresh attempt. The token source has been cleared by then.
var ErrSessionExpired = errors.New("session expired")

// Error is an HTTP error response from the remote API.
type Error struct {
	Message string
	Status  int
	Data    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Client talks to the remote storefront API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultBaseURL   = "https://api.escuelajs.co/api/v1"
	defaultUserAgent = "storefront/0.1"
	requestTimeout   = 15 * time.Second

	refreshPath = "/auth/refresh-token"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// WithTokenSource attaches the token source used for bearer auth.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// NewClient builds a Client for the given base URL. An empty base URL
// uses the public fake-store API.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource attaches the token source after construction. The session
// store needs the client for login, so the two are wired in stages.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

func (c *Client) get(ctx context.Context, rel *url.URL, dest any) error {
	return c.do(ctx, http.MethodGet, rel, nil, dest)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = data
	}

	access := ""
	if c.tokens != nil {
		access = c.tokens.AccessToken()
	}

	resp, data, err := c.send(ctx, method, rel, payload, access)
	if err != nil {
		return err
	}

	// Only recoverable when a refresh token exists; a 401 from the login
	// endpoint itself falls through as a plain error.
	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil && c.tokens.RefreshToken() != "" {
		refreshed, err := c.refreshTokens(ctx)
		if err != nil {
			return err
		}
		resp, data, err = c.send(ctx, method, rel, payload, refreshed)
		if err != nil {
			return err
		}
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method string, rel *url.URL, payload []byte, access string) (*http.Response, []byte, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{
		Path:     strings.TrimSuffix(c.baseURL.Path, "/") + rel.Path,
		RawQuery: rel.RawQuery,
	})

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, data, nil
}

// refreshTokens performs the single refresh attempt. On any failure the
// token source is cleared so the caller is forced to re-authenticate.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	refresh := c.tokens.RefreshToken()
	payload, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}

	resp, data, err := c.send(ctx, http.MethodPost, &url.URL{Path: refreshPath}, payload, "")
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		c.tokens.Clear()
		return "", fmt.Errorf("%w: refresh rejected with status %d", ErrSessionExpired, resp.StatusCode)
	}

	var auth AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		c.tokens.Clear()
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if auth.RefreshToken == "" {
		auth.RefreshToken = refresh
	}
	c.tokens.UpdateTokens(auth.AccessToken, auth.RefreshToken)
	return auth.AccessToken, nil
}

func decodeError(status int, data []byte) error {
	apiErr := &Error{Status: status, Data: data}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
