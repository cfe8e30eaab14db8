package backend

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
	"unicode/utf8"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api"

	maxErrorBodyBytes = 4 << 10
	maxErrorExcerpt   = 512
	maxJSONBodyBytes  = 1 << 20
	maxReportBytes    = 32 << 20
)

type Config struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// Secrets, when set, supplies the bearer token stored under
	// domain.BackendTokenKey.
	Secrets ports.SecretStore
	Logger  *zap.Logger
}

// Client talks to the deliberation backend's REST API.
type Client struct {
	base           *url.URL
	httpClient     *http.Client
	requestTimeout time.Duration
	secrets        ports.SecretStore
	logger         *zap.Logger
}

var (
	_ ports.DeliberationTransport = (*Client)(nil)
	_ ports.ReportGenerator       = (*Client)(nil)
	_ ports.DocumentIngester      = (*Client)(nil)
	_ ports.PolicyAnalyzer        = (*Client)(nil)
)

func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}

	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("backend base url must use http or https")
	}
	if base.Host == "" {
		return nil, errors.New("backend base url host is required")
	}

	client := &Client{
		base:           base,
		httpClient:     cfg.HTTPClient,
		requestTimeout: cfg.RequestTimeout,
		secrets:        cfg.Secrets,
		logger:         cfg.Logger,
	}
	if client.httpClient == nil {
		client.httpClient = http.DefaultClient
	}
	if client.requestTimeout <= 0 {
		client.requestTimeout = 60 * time.Second
	}
	if client.logger == nil {
		client.logger = zap.NewNop()
	}

	return client, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.secrets == nil {
		return nil
	}

	token, err := c.secrets.Get(ctx, domain.BackendTokenKey)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load backend token: %w", err)
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

// do sends req and turns any non-2xx answer into a *domain.TransportError.
// The caller owns the returned body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)}
	}

	c.logger.Debug("backend response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Body: errorExcerpt(resp.Body)}
	}

	return resp, nil
}

// postJSON runs a bounded request/response call and decodes the JSON answer
// into out.
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := c.newJSONRequest(requestCtx, path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

type errorResponse struct {
	Error string `json:"error"`
}

// errorExcerpt prefers the backend's {"error": "..."} message and otherwise
// returns the start of the body.
func errorExcerpt(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))

	var payload errorResponse
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return truncate(payload.Error)
	}

	return truncate(strings.TrimSpace(string(data)))
}

func truncate(s string) string {
	if len(s) <= maxErrorExcerpt {
		return s
	}
	cut := maxErrorExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
