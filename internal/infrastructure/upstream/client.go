package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/shared"
)

// defaultMaxResponseSize caps platform response bodies at 10MB
const defaultMaxResponseSize = 10 * 1024 * 1024

// Config holds the platform API client configuration
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxResponseSize int64
	// ServiceToken authenticates gateway-to-platform calls that are
	// not bound to a user session (public order lookup, analytics)
	ServiceToken string
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("upstream: base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("upstream: invalid base URL: %w", err)
	}
	return nil
}

// Client is the HTTP client for the platform core API. All storefront
// and back-office state lives on the platform; the gateway only holds
// sessions and caches.
type Client struct {
	baseURL         string
	serviceToken    string
	maxResponseSize int64
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewClient creates a platform API client from the given configuration
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = defaultMaxResponseSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		serviceToken:    cfg.ServiceToken,
		maxResponseSize: maxSize,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
	}, nil
}

// envelope is the platform API response wrapper
type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Code       string             `json:"code,omitempty"`
	Data       json.RawMessage    `json:"data,omitempty"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
}

func (e *envelope) IsSuccess() bool {
	return e.Success
}

// request describes a single call to the platform API
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// token is the per-session bearer token; empty means the
	// gateway's service token is used instead
	token string
}

// do performs the request and returns the decoded envelope. Transport
// failures map to ErrUnavailable; HTTP errors map through APIError.
func (c *Client) do(ctx context.Context, req request) (*envelope, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("upstream: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	token := req.token
	if token == "" {
		token = c.serviceToken
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("upstream: failed to read response: %w", err)
	}

	// 5xx means the platform is degraded, not that the request or the
	// session is invalid
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			if resp.StatusCode >= 400 {
				return nil, &APIError{HTTPStatus: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	if resp.StatusCode >= 400 || (!env.IsSuccess() && len(body) > 0) {
		status := resp.StatusCode
		if status < 400 {
			status = http.StatusBadRequest
		}
		apiErr := &APIError{HTTPStatus: status, Code: env.Code, Message: env.Message}
		c.logger.Debug("platform request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", env.Code),
		)
		return nil, apiErr
	}

	return &env, nil
}

// get performs a GET request and unmarshals the envelope data into out
func (c *Client) get(ctx context.Context, path string, query url.Values, token string, out any) (*shared.Pagination, error) {
	env, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, token: token})
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return env.Pagination, nil
}

// send performs a mutating request and unmarshals the envelope data
// into out when provided
func (c *Client) send(ctx context.Context, method, path string, body any, token string, out any) error {
	env, err := c.do(ctx, request{method: method, path: path, body: body, token: token})
	if err != nil {
		return err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}
