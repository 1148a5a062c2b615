package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

const RequestIDHeader = "X-Request-ID"

// APIError is a failed call to the remote API. Status is 0 when the request
// never produced a response.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote api: %s: %v", e.Message, e.Err)
	}

	return fmt.Sprintf("remote api: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets a 404 from the API match ledger.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ledger.ErrNotFound && e.Status == http.StatusNotFound
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// sessionTransport stamps every request with a fresh request id and the bearer
// token of the session carried by the request context.
type sessionTransport struct {
	base http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if s, ok := session.FromContext(req.Context()); ok && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	return t.base.RoundTrip(req)
}

// Client talks to the dindin REST API. The resource groups share one HTTP client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	loc     *time.Location

	Accounts     *Accounts
	Transactions *Transactions
	Users        *Users
	Auth         *Auth
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLocation sets the zone of dates the API sends without an offset. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		c.loc = loc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &sessionTransport{base: http.DefaultTransport},
			Timeout:   timeout,
		},
		logger: slog.Default(),
		loc:    time.Local,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Accounts = &Accounts{c: c}
	c.Transactions = &Transactions{c: c}
	c.Users = &Users{c: c}
	c.Auth = &Auth{c: c}

	return c
}

func (c *Client) buildRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}

		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do sends one request and decodes a successful body into out when out is not nil.
// fallback is the message used when the API does not explain a failure.
func (c *Client) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	req, err := c.buildRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("remote request failed", "method", method, "path", path, "error", err)
		return &APIError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback

		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Message != "" {
			msg = errBody.Message
		}

		c.logger.Warn("remote request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", msg)

		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
