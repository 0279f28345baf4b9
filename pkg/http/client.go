package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ClientOption configures Client.
type ClientOption func(*Client)

// RequestOptions holds HTTP request parameters.
type RequestOptions struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    interface{}
}

// Client is a small JSON client for a SalesCast server.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Do sends a request and decodes a 2xx JSON answer into dest. A non-2xx
// answer is returned as *AppError carrying the server's status and message.
func (c *Client) Do(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb ErrorBody
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return NewAppError("ERR_REMOTE", "", msg, resp.StatusCode)
	}

	switch v := dest.(type) {
	case nil:
		return nil
	case *[]byte:
		*v = body
		return nil
	default:
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		return nil
	}
}

// Predict posts one record to /PREDICT and returns the raw JSON answer.
func (c *Client) Predict(ctx context.Context, record map[string]interface{}) ([]byte, error) {
	var out []byte
	err := c.Do(ctx, &RequestOptions{Method: http.MethodPost, Path: "/PREDICT", Body: record}, &out)
	return out, err
}

// HealthStatus is the /health answer.
type HealthStatus struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// Health fetches /health. A degraded server answers 503, which is returned as an error.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.Do(ctx, &RequestOptions{Method: http.MethodGet, Path: "/health"}, &out)
	return out, err
}

func (c *Client) buildRequest(ctx context.Context, opts *RequestOptions) (*http.Request, error) {
	body, err := createRequestBody(opts.Body)
	if err != nil {
		return nil, fmt.Errorf("create body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, c.baseURL+opts.Path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func createRequestBody(b interface{}) (io.Reader, error) {
	switch v := b.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(v), nil
	case string:
		return strings.NewReader(v), nil
	case io.Reader:
		return v, nil
	default:
		jsonBody, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return bytes.NewReader(jsonBody), nil
	}
}

// WithTimeout sets client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}
