// Package likeclient implements liketoggle.Transport over the cafe like endpoints.
package likeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/cafe-likes/internal/liketoggle"
	"github.com/anonto42/cafe-likes/internal/models"
	"go.uber.org/zap"
)

const (
	// UserHeader carries the session user to the contract stub.
	UserHeader = "X-User-Id"

	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Client talks to GET /api/likes, POST /api/like and POST /api/unlike.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userID     string
	timeout    time.Duration
	logger     *zap.Logger
}

var _ liketoggle.Transport = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserID sends id in the X-User-Id header of every request.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// WithTimeout bounds each request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckLike reports whether the current user likes cafeID.
func (c *Client) CheckLike(ctx context.Context, cafeID int64) (bool, error) {
	const op = "check like"

	q := url.Values{}
	q.Set("cafe_id", strconv.FormatInt(cafeID, 10))
	req, err := c.newRequest(ctx, http.MethodGet, "/api/likes?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var status models.LikeStatusResponse
	if err := c.do(req, op, &status); err != nil {
		return false, err
	}
	return status.Likes, nil
}

// Like records a like for cafeID.
func (c *Client) Like(ctx context.Context, cafeID int64) error {
	return c.mutate(ctx, "like", "/api/like", cafeID)
}

// Unlike removes the current user's like for cafeID.
func (c *Client) Unlike(ctx context.Context, cafeID int64) error {
	return c.mutate(ctx, "unlike", "/api/unlike", cafeID)
}

func (c *Client) mutate(ctx context.Context, op, path string, cafeID int64) error {
	body, err := json.Marshal(models.LikeRequest{CafeID: cafeID})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	// The response body is not needed, only the status.
	return c.do(req, op, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(UserHeader, c.userID)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &liketoggle.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("like endpoint responded",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &liketoggle.ServerError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &liketoggle.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts echo's {"message": ...} or falls back to the raw body.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(raw))
}
