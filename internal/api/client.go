// Package api implements the HTTP client adapter for the admin REST API.
//
// The adapter owns the only I/O boundary in the console: a fixed base URL, a
// cookie jar for the session credential, and an unauthorized-event emitter.
// It holds no other state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/events"
	"github.com/skpot/biryani-console/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// FilePart is one file attached to a multipart request.
type FilePart struct {
	Field   string
	Name    string
	Content io.Reader
}

// Client issues requests against the admin API. The session credential rides
// on the cookie jar; SetToken additionally mirrors a bearer token for
// deployments that front the API without cookies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	hub        *events.Hub
	metrics    *metrics.Metrics
	log        logrus.FieldLogger

	mu    sync.RWMutex
	token string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client. The cookie jar is
// still installed unless the replacement brings its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger attaches a structured logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics attaches request counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates an adapter rooted at baseURL. Every 401 response, from
// any caller, is emitted on hub exactly once before the error propagates.
func NewClient(baseURL string, hub *events.Hub, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		hub: hub,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

// SetToken mirrors the session token as a bearer header on subsequent
// requests. An empty token clears the mirror.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Do sends a JSON request and returns the raw response payload. A nil body
// sends no request body. 204 responses yield a nil payload.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := c.newRequest(ctx, method, path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// DoMultipart sends a multipart/form-data request for image-bearing catalog
// mutations. Beyond the encoding it behaves exactly like Do.
func (c *Client) DoMultipart(ctx context.Context, method, path string, fields map[string]string, files []FilePart) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", file.Name, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, fmt.Errorf("copy form file %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(req.Method, 0)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(req.Method, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		// Global de-authentication fires before the caller sees the error,
		// once per offending response, regardless of which store called.
		if c.hub != nil {
			c.hub.EmitUnauthorized()
		}
	}

	if resp.StatusCode >= 400 {
		body, truncated, readErr := readAllWithLimit(resp.Body, maxErrorBodyBytes)
		if readErr != nil {
			return nil, fmt.Errorf("read error response: %w", readErr)
		}
		msg := extractMessage(body)
		if truncated {
			msg += "...(truncated)"
		}
		c.log.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
			"status": resp.StatusCode,
		}).Warn("api request rejected")
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	payload, err := readAllStrict(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return payload, nil
}
