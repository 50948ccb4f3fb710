package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080/api"

// APIError is a non-2xx reply from the upstream API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream API returned %d", e.Status)
	}
	return fmt.Sprintf("upstream API returned %d: %s", e.Status, e.Message)
}

// StatusOf extracts the HTTP status from err, or 0 if err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsConflict reports whether err maps to the duplicate-resource heuristic:
// the upstream answers 409 on unique-constraint violations, and some
// deployments surface them as bare 500s.
func IsConflict(err error) bool {
	status := StatusOf(err)
	return status == http.StatusConflict || status == http.StatusInternalServerError
}

type tokenContextKey struct{}

// WithToken attaches a bearer token to ctx; every request made with that
// context carries it in the Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// Client is a typed HTTP client for the league REST API. All entity state
// lives upstream; the client performs no caching, coalescing, or retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string

	// onUnauthorized runs when the upstream answers 401, so the stored
	// session backing the token can be invalidated. It must not force
	// navigation; page-level guards handle that.
	onUnauthorized func(ctx context.Context, token string)
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithUnauthorizedHook(hook func(ctx context.Context, token string)) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "golazo/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHook installs the 401 hook after construction. The session
// layer needs the client to exist before it can register itself.
func (c *Client) SetUnauthorizedHook(hook func(ctx context.Context, token string)) {
	c.onUnauthorized = hook
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		if token := tokenFromContext(ctx); token != "" && c.onUnauthorized != nil {
			c.onUnauthorized(ctx, token)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: upstreamMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// upstreamMessage pulls a human-readable message out of an error body; the
// API is inconsistent about the field name.
func upstreamMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}
