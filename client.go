package pesto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/teknologi-umum/pesto/metrics"
	"github.com/teknologi-umum/pesto/types"
)

// DefaultBaseURL is the public Pesto API.
const DefaultBaseURL = "https://pesto.teknologiumum.com"

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 5 * time.Minute

// API routes.
const (
	pingPath         = "/api/ping"
	listRuntimesPath = "/api/list-runtimes"
	executePath      = "/api/execute"
)

// Operation names used in errors, logs and metrics.
const (
	OpPing         = "ping"
	OpListRuntimes = "list_runtimes"
	OpExecute      = "execute"
)

// tokenHeader carries the credential on every request.
const tokenHeader = "X-Pesto-Token"

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "pesto-go/" + types.Version

// Config configures a Client.
type Config struct {
	// Token is the Pesto API token (required).
	// To acquire a token, go to https://pesto.teknologiumum.com/#request
	Token string
	// BaseURL is the API root (default DefaultBaseURL).
	BaseURL string
	// Timeout is the per-request timeout handed to the transport
	// (default DefaultTimeout). Ignored when HTTPClient or Transport is set.
	Timeout time.Duration
	// HTTPClient is used by the default transport instead of a fresh
	// &http.Client{Timeout: Timeout}.
	HTTPClient *http.Client
	// Transport replaces the default net/http transport entirely.
	Transport Transport
	// Logger receives request-level debug logs and API error warnings
	// (default no-op). The token is never logged.
	Logger *zap.Logger
	// Metrics collects per-operation counters (optional).
	Metrics *metrics.Collector
	// UserAgent overrides the default "pesto-go/<version>".
	UserAgent string
}

// Client calls the Pesto API. It is immutable after New returns and safe
// for concurrent use by multiple goroutines.
type Client struct {
	token     string
	baseURL   *url.URL
	timeout   time.Duration
	userAgent string
	transport Transport
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// New creates a client from the given config.
// Returns ErrEmptyToken if the token is empty, or an error if BaseURL is not
// an absolute URL.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrEmptyToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("pesto: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("pesto: base URL %q must be absolute", cfg.BaseURL)
	}

	if cfg.HTTPClient != nil && cfg.Transport == nil {
		cfg.Timeout = cfg.HTTPClient.Timeout
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(cfg.HTTPClient, cfg.Timeout)
	}

	return &Client{
		token:     cfg.Token,
		baseURL:   baseURL,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		transport: transport,
		logger:    cfg.Logger.With(zap.String("base_url", baseURL.String())),
		metrics:   cfg.Metrics,
	}, nil
}

// Option adjusts the Config built by NewClient.
type Option func(*Config)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option { return func(c *Config) { c.BaseURL = u } }

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(hc *http.Client) Option { return func(c *Config) { c.HTTPClient = hc } }

// WithTransport replaces the transport.
func WithTransport(t Transport) Option { return func(c *Config) { c.Transport = t } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(c *Config) { c.Logger = l } }

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Collector) Option { return func(c *Config) { c.Metrics = m } }

// NewClient creates a client with the given token and defaults for
// everything else. If token is empty, it returns ErrEmptyToken.
func NewClient(token string, opts ...Option) (*Client, error) {
	cfg := Config{Token: token}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Timeout returns the per-request timeout. With a caller-supplied
// HTTPClient it is that client's Timeout (zero means none). With a custom
// Transport it is the configured value only; the transport enforces its own.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Close releases idle connections held by the default transport.
func (c *Client) Close() error {
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}

func (c *Client) header() http.Header {
	h := make(http.Header, 4)
	h.Set(tokenHeader, c.token)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("User-Agent", c.userAgent)
	return h
}

// do runs one request through the pipeline: send, parse, classify, decode.
// payload is marshalled as the request body when non-nil; out receives the
// decoded success body.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("pesto: %s: marshal request: %w", op, err)
		}
		body = b
	}

	req := &Request{
		Method: method,
		URL:    c.baseURL.JoinPath(path).String(),
		Header: c.header(),
		Body:   body,
	}
	log := c.logger.With(zap.String("operation", op))

	c.metrics.IncRequest(op)
	start := time.Now()
	resp, err := c.transport.Send(ctx, req)
	elapsed := time.Since(start)
	c.metrics.ObserveLatency(elapsed)

	if err != nil {
		c.metrics.IncTransportFailure()
		terr := &TransportError{Op: op, URL: req.URL, Err: err}
		log.Debug("transport failure",
			zap.Error(err),
			zap.Bool("timeout", terr.Timeout()),
			zap.Duration("elapsed", elapsed),
		)
		return terr
	}

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("elapsed", elapsed),
	)

	parsed, err := parseObject(resp.Body)
	if err != nil {
		c.metrics.IncMalformedResponse()
		return &ResponseError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       snippet(resp.Body),
			Err:        err,
		}
	}

	if err := Classify(resp.StatusCode, parsed); err != nil {
		kind := KindName(err)
		c.metrics.IncAPIError(kind)
		log.Warn("api error",
			zap.String("kind", kind),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		c.metrics.IncDecodeFailure()
		return fmt.Errorf("pesto: %s: %w: %w", op, ErrDecode, err)
	}

	c.metrics.IncSuccess(op)
	return nil
}

// parseObject parses a body as a JSON object. Anything that is not an
// object, including an empty body, is an error.
func parseObject(body []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("body is null")
	}
	return obj, nil
}

// snippetLen bounds the raw body kept on a ResponseError.
const snippetLen = 256

func snippet(body []byte) string {
	if len(body) > snippetLen {
		return string(body[:snippetLen]) + "..."
	}
	return string(body)
}
