package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"ytcorpus/internal/shared"
)

const defaultBaseURL string = "http://127.0.0.1:8000"

// defaultCookieName matches the backend's session cookie.
const defaultCookieName string = "session"

// Client talks to the dataset pipeline backend.
//
// A single session cookie is the only credential; it is captured from the
// login response and attached to every subsequent request.
type Client struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	session    *http.Cookie
}

// Options configures a [Client].
type Options struct {
	BaseURL    string
	CookieName string
	HTTPClient *http.Client
	Logger     *log.Logger

	// RequestsPerSecond throttles outgoing requests; zero disables
	// throttling.
	RequestsPerSecond float64
}

// NewClient creates a backend client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		cookieName: opts.CookieName,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// BaseURL returns the backend base URL the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// SetSessionCookie installs a previously stored session cookie.
func (c *Client) SetSessionCookie(value string) {
	if value == "" {
		c.session = nil
		return
	}
	c.session = &http.Cookie{Name: c.cookieName, Value: value}
}

// SessionCookie returns the current session cookie value, if any.
func (c *Client) SessionCookie() (string, bool) {
	if c.session == nil {
		return "", false
	}
	return c.session.Value, true
}

// MessageResponse is the generic {message} acknowledgement envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		req.AddCookie(c.session)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	c.captureSession(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// captureSession adopts the session cookie when the backend (re)issues one.
func (c *Client) captureSession(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.cookieName && cookie.Value != "" {
			c.session = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
			return
		}
	}
}

// apiError folds the backend's error envelope into a sentinel-wrapped error.
//
// The envelope is {detail: string} or {detail: {message: string}}; when
// neither parses, the error carries a generic "HTTP <status>" message.
func (c *Client) apiError(resp *http.Response) error {
	message := fmt.Sprintf("HTTP %d", resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var envelope struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(data, &envelope) == nil && len(envelope.Detail) > 0 {
			var detail string
			if json.Unmarshal(envelope.Detail, &detail) == nil && detail != "" {
				message = detail
			} else {
				var wrapped struct {
					Message string `json:"message"`
				}
				if json.Unmarshal(envelope.Detail, &wrapped) == nil && wrapped.Message != "" {
					message = wrapped.Message
				}
			}
		}
	}

	sentinel := shared.ErrAPIRequest
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = shared.ErrInvalidInput
	case http.StatusUnauthorized:
		sentinel = shared.ErrNotAuthenticated
	case http.StatusForbidden:
		sentinel = shared.ErrForbidden
	case http.StatusNotFound:
		sentinel = shared.ErrNotFound
	case http.StatusConflict:
		sentinel = shared.ErrConflict
	}

	return fmt.Errorf("%w: %s", sentinel, message)
}

func encodeQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
