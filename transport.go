package pesto

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teknologi-umum/pesto/iox"
)

// MaxResponseBytes caps how much of a response body is read. Execution
// output is bounded by the API, so anything larger is treated as malformed.
const MaxResponseBytes = 32 << 20

// Request is one HTTP exchange as the client sees it.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Body is nil for GET requests.
	Body []byte
}

// Response is the status code and raw body returned by a Transport.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends requests to the API. Implementations must be safe for
// concurrent use and must return an error, not a Response, when no HTTP
// response was received. Timeouts and cancellation belong to the transport.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport is the default Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport. A nil client gets a fresh
// *http.Client with the given timeout; a non-nil client is used as-is.
func NewHTTPTransport(client *http.Client, timeout time.Duration) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPTransport{client: client}
}

// Send performs a single HTTP request and reads the whole body.
// Non-2xx statuses are not errors here; they belong to the classifier.
func (t *HTTPTransport) Send(ctx context.Context, r *Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	data, err := iox.ReadAllLimit(resp.Body, MaxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// CloseIdleConnections releases pooled connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

// Verify HTTPTransport implements the Transport interface.
var _ Transport = (*HTTPTransport)(nil)
