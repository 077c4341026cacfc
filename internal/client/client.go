package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/username/office-dates/internal/calendar"
	"github.com/username/office-dates/internal/server"
	"github.com/username/office-dates/internal/tools"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 3
)

// APIError is a request rejected by the server (4xx)
type APIError struct {
	StatusCode int
	Code       string
	Field      string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

// Is makes invalid_argument rejections match calendar.ErrInvalidArgument
func (e *APIError) Is(target error) bool {
	switch target {
	case calendar.ErrInvalidArgument:
		return e.Code == server.CodeInvalidArgument
	case tools.ErrUnknownTool:
		return e.Code == server.CodeUnknownTool
	}
	return false
}

// Client calls a running office-dates server
type Client struct {
	baseURL    string
	retries    int
	backoff    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new client for the server at baseURL.
// Zero timeout or negative retries fall back to defaults.
func New(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retries < 0 {
		retries = defaultRetries
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		retries: retries,
		backoff: time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CallTool invokes a tool and returns its raw JSON result (possibly "null")
func (c *Client) CallTool(ctx context.Context, name string, args any) (json.RawMessage, error) {
	var rawArgs json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arguments: %w", err)
		}
		rawArgs = data
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	req := server.CallRequest{Name: name, Arguments: rawArgs}
	if err := c.doRequest(ctx, http.MethodPost, "/tools/call", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}

	c.logger.Debug("Tool called",
		zap.String("tool", name),
		zap.ByteString("result", resp.Result))

	if len(resp.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return resp.Result, nil
}

// ListTools returns the tools the server exposes
func (c *Client) ListTools(ctx context.Context) ([]tools.Tool, error) {
	var resp server.ToolsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/tools", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return resp.Tools, nil
}

// Health returns the server health report
func (c *Client) Health(ctx context.Context) (*server.HealthResponse, error) {
	var resp server.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &resp, nil
}

// doRequest performs an HTTP request, retrying transport errors and 5xx responses
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path
	attempts := c.retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.doRequestOnce(ctx, method, url, payload, result)
		if err == nil {
			return nil
		}
		if _, ok := err.(*APIError); ok {
			return err
		}

		lastErr = err
		if attempt == attempts {
			break
		}

		c.logger.Warn("Request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("request canceled: %w", ctx.Err())
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, method, url string, payload []byte, result any) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return decodeAPIError(resp.StatusCode, respBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var errResp server.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Code == "" {
		return &APIError{
			StatusCode: status,
			Code:       http.StatusText(status),
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return &APIError{
		StatusCode: status,
		Code:       errResp.Error.Code,
		Field:      errResp.Error.Field,
		Message:    errResp.Error.Message,
	}
}
