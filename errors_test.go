package pesto

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestAPIError_IsMatchesOnlyItsKind(t *testing.T) {
	err := error(&APIError{Kind: ErrTokenRevoked, StatusCode: 401})
	wrapped := fmt.Errorf("pesto: execute: %w", err)

	if !errors.Is(wrapped, ErrTokenRevoked) {
		t.Error("errors.Is(wrapped, ErrTokenRevoked) = false, want true")
	}
	if errors.Is(wrapped, ErrTokenNotRegistered) {
		t.Error("errors.Is(wrapped, ErrTokenNotRegistered) = true, want false")
	}
	if errors.Is(wrapped, ErrTransport) {
		t.Error("API error matched ErrTransport")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"internal", &APIError{Kind: ErrInternalServerError}, true},
		{"rate limited", &APIError{Kind: ErrServerRateLimited}, true},
		{"wrapped rate limited", fmt.Errorf("x: %w", &APIError{Kind: ErrServerRateLimited}), true},
		{"monthly", &APIError{Kind: ErrMonthlyLimitExceeded}, false},
		{"revoked", &APIError{Kind: ErrTokenRevoked}, false},
		{"transport", &TransportError{Op: OpPing, Err: errors.New("refused")}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&APIError{Kind: ErrMonthlyLimitExceeded}, "monthly_limit_exceeded"},
		{&APIError{Kind: ErrUnclassified}, "unclassified"},
		{&APIError{Kind: errors.New("new kind")}, "unknown"},
		{&TransportError{Err: errors.New("refused")}, "transport"},
		{&ResponseError{Err: errors.New("bad json")}, "malformed_response"},
		{fmt.Errorf("pesto: ping: %w", ErrDecode), "decode"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		if got := KindName(tt.err); got != tt.want {
			t.Errorf("KindName(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestKindName_CoversEverySentinel(t *testing.T) {
	for _, kind := range []error{
		ErrMissingToken, ErrTokenNotRegistered, ErrTokenRevoked,
		ErrMonthlyLimitExceeded, ErrServerRateLimited, ErrRuntimeNotFound,
		ErrMissingParameters, ErrMaximumEntrypointsExceeded,
		ErrInternalServerError, ErrPathNotFound, ErrUnclassified, ErrUnknownStatus,
	} {
		if got := KindName(&APIError{Kind: kind}); got == "unknown" {
			t.Errorf("KindName(%v) = unknown", kind)
		}
	}
}

func TestTransportError(t *testing.T) {
	cause := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	err := error(&TransportError{Op: OpExecute, URL: "http://x/api/execute", Err: cause})

	if !errors.Is(err, ErrTransport) {
		t.Error("errors.Is(err, ErrTransport) = false")
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		t.Error("underlying *net.OpError not reachable")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("transport error matched *APIError")
	}
}

func TestTransportError_Timeout(t *testing.T) {
	deadline := &TransportError{Err: fmt.Errorf("request failed: %w", context.DeadlineExceeded)}
	if !deadline.Timeout() {
		t.Error("Timeout() = false for deadline exceeded")
	}
	refused := &TransportError{Err: errors.New("connection refused")}
	if refused.Timeout() {
		t.Error("Timeout() = true for connection refused")
	}
}

func TestResponseError(t *testing.T) {
	err := error(&ResponseError{Op: OpPing, StatusCode: 502, Body: "<html>", Err: errors.New("invalid character")})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("errors.Is(err, ErrMalformedResponse) = false")
	}
	if errors.Is(err, ErrTransport) {
		t.Error("ResponseError matched ErrTransport")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Error("ResponseError matched *APIError")
	}
}
