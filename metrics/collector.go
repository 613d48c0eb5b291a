// Package metrics provides per-client request metrics.
//
// The Collector accumulates counters for one pesto.Client. It is a leaf
// package with no internal dependencies: operations and error kinds are
// plain strings so the SDK can label them without an import cycle.
package metrics

import (
	"sync"
	"time"
)

// Snapshot is an immutable point-in-time view of all metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Requests sent, per operation (ping, list_runtimes, execute).
	Requests map[string]int64
	// Successful responses, per operation.
	Successes map[string]int64

	// APIErrors counts classified API errors per kind label.
	APIErrors map[string]int64
	// TransportFailures counts requests that got no HTTP response.
	TransportFailures int64
	// MalformedResponses counts bodies that were not JSON objects.
	MalformedResponses int64
	// DecodeFailures counts success bodies with an unexpected shape.
	DecodeFailures int64

	// Latency is the cumulative time spent in the transport.
	Latency time.Duration

	// BaseURL is informational, set at construction.
	BaseURL string
}

// TotalRequests sums Requests over all operations.
func (s Snapshot) TotalRequests() int64 {
	var n int64
	for _, v := range s.Requests {
		n += v
	}
	return n
}

// Collector accumulates metrics for a client.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	requests  map[string]int64
	successes map[string]int64
	apiErrors map[string]int64

	transportFailures  int64
	malformedResponses int64
	decodeFailures     int64

	latency time.Duration

	baseURL string
}

// NewCollector creates a Collector. baseURL is an informational dimension.
func NewCollector(baseURL string) *Collector {
	return &Collector{
		requests:  make(map[string]int64),
		successes: make(map[string]int64),
		apiErrors: make(map[string]int64),
		baseURL:   baseURL,
	}
}

// IncRequest records a request for op.
func (c *Collector) IncRequest(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.requests[op]++
	c.mu.Unlock()
}

// IncSuccess records a decoded success response for op.
func (c *Collector) IncSuccess(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.successes[op]++
	c.mu.Unlock()
}

// IncAPIError records a classified API error of the given kind.
func (c *Collector) IncAPIError(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.apiErrors[kind]++
	c.mu.Unlock()
}

// IncTransportFailure records a request that got no response.
func (c *Collector) IncTransportFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.transportFailures++
	c.mu.Unlock()
}

// IncMalformedResponse records a body that could not be parsed.
func (c *Collector) IncMalformedResponse() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.malformedResponses++
	c.mu.Unlock()
}

// IncDecodeFailure records a success body with an unexpected shape.
func (c *Collector) IncDecodeFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.decodeFailures++
	c.mu.Unlock()
}

// ObserveLatency adds d to the cumulative transport latency.
func (c *Collector) ObserveLatency(d time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.latency += d
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Requests:           copyCounts(c.requests),
		Successes:          copyCounts(c.successes),
		APIErrors:          copyCounts(c.apiErrors),
		TransportFailures:  c.transportFailures,
		MalformedResponses: c.malformedResponses,
		DecodeFailures:     c.decodeFailures,
		Latency:            c.latency,
		BaseURL:            c.baseURL,
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
