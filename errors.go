package pesto

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for API failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions; use errors.As with
// *APIError to read the status code and the message sent by the API.
var (
	// ErrEmptyToken indicates the token was empty during client creation.
	ErrEmptyToken = errors.New("empty token")

	// ErrMissingToken indicates the API did not receive a token.
	ErrMissingToken = errors.New("missing token")

	// ErrTokenNotRegistered indicates the token is unknown to the API.
	ErrTokenNotRegistered = errors.New("token not registered")

	// ErrTokenRevoked indicates the token was valid but has been revoked.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrMonthlyLimitExceeded indicates the token used up its monthly quota.
	ErrMonthlyLimitExceeded = errors.New("monthly limit exceeded")

	// ErrServerRateLimited indicates burst or concurrency throttling. It is
	// distinct from the monthly quota; callers that send parallel requests
	// should bound their own concurrency.
	ErrServerRateLimited = errors.New("server rate limited")

	// ErrRuntimeNotFound indicates the language/version pair is not offered.
	ErrRuntimeNotFound = errors.New("runtime not found")

	// ErrMissingParameters indicates required submission fields were absent.
	// The APIError message lists which ones.
	ErrMissingParameters = errors.New("missing parameters")

	// ErrMaximumEntrypointsExceeded indicates more files were flagged as
	// entrypoint than the runtime accepts.
	ErrMaximumEntrypointsExceeded = errors.New("maximum allowed entrypoints exceeded")

	// ErrInternalServerError indicates a failure inside the API. The request
	// may be retried after a few seconds.
	ErrInternalServerError = errors.New("internal server error")

	// ErrPathNotFound indicates the request hit a route the API does not
	// serve. This is an SDK bug and is not retryable.
	ErrPathNotFound = errors.New("api path not found")

	// ErrUnclassified indicates a 400 response whose message matches no known
	// case, most likely a version mismatch between the SDK and the API.
	ErrUnclassified = errors.New("unclassified api error")

	// ErrUnknownStatus indicates a status code the SDK does not handle.
	ErrUnknownStatus = errors.New("unknown status")
)

// Transport-tier sentinels. These never come from the classifier.
var (
	// ErrTransport indicates the request did not complete (connection refused,
	// DNS, TLS, timeout).
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse indicates a response body that is not a JSON object.
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrDecode indicates a success body that does not match the expected shape.
	ErrDecode = errors.New("cannot decode response")
)

// mismatchNote is appended to errors that suggest the SDK and the API disagree
// on the protocol.
const mismatchNote = "this is probably a problem with the SDK, please submit an issue on our GitHub repository"

// APIError is a failure reported by the API. Kind is one of the sentinels
// above and is matched by errors.Is.
type APIError struct {
	// Kind is the sentinel error for classification (e.g., ErrTokenRevoked).
	Kind error
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Message is body.message, verbatim. Empty when HasMessage is false.
	Message string
	// HasMessage reports whether the body carried a string message.
	HasMessage bool
}

func (e *APIError) Error() string {
	switch e.Kind {
	case ErrUnclassified:
		return fmt.Sprintf("%s (%s)", e.Message, mismatchNote)
	case ErrUnknownStatus:
		if e.HasMessage {
			return fmt.Sprintf("received code %d: %s (%s)", e.StatusCode, e.Message, mismatchNote)
		}
		return fmt.Sprintf("received code %d (%s)", e.StatusCode, mismatchNote)
	case ErrMissingParameters, ErrMaximumEntrypointsExceeded, ErrInternalServerError:
		if e.Message != "" {
			return fmt.Sprintf("%v: %s", e.Kind, e.Message)
		}
	}
	return e.Kind.Error()
}

// Is reports whether the error matches the target sentinel.
func (e *APIError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Retryable reports whether sending the same request again may succeed.
func (e *APIError) Retryable() bool {
	return e.Kind == ErrInternalServerError || e.Kind == ErrServerRateLimited
}

// IsRetryable reports whether err is an APIError worth retrying.
// Transport failures return false: the SDK does not know whether the API saw
// the request, and execute is not idempotent.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// kindNames are stable labels for metrics, logs and CLI output.
var kindNames = map[error]string{
	ErrMissingToken:               "missing_token",
	ErrTokenNotRegistered:         "token_not_registered",
	ErrTokenRevoked:               "token_revoked",
	ErrMonthlyLimitExceeded:       "monthly_limit_exceeded",
	ErrServerRateLimited:          "server_rate_limited",
	ErrRuntimeNotFound:            "runtime_not_found",
	ErrMissingParameters:          "missing_parameters",
	ErrMaximumEntrypointsExceeded: "maximum_entrypoints_exceeded",
	ErrInternalServerError:        "internal_server_error",
	ErrPathNotFound:               "path_not_found",
	ErrUnclassified:               "unclassified",
	ErrUnknownStatus:              "unknown_status",
}

// KindName returns the label of the APIError kind in err's chain,
// "transport" or "malformed_response" for transport-tier errors, and
// "unknown" otherwise.
func KindName(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if name, ok := kindNames[apiErr.Kind]; ok {
			return name
		}
		return "unknown"
	}
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrDecode):
		return "decode"
	}
	return "unknown"
}

// TransportError wraps a failure from the Transport. It preserves the
// original error in the chain for inspection via errors.As.
type TransportError struct {
	// Op is the client operation (ping, list_runtimes, execute).
	Op string
	// URL is the request URL.
	URL string
	// Err is the underlying error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.URL, ErrTransport, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Timeout reports whether the failure was a deadline or client timeout.
func (e *TransportError) Timeout() bool {
	var timeoutErr interface{ Timeout() bool }
	if errors.As(e.Err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ResponseError reports a response whose body could not be parsed as a JSON
// object. It never reaches the classifier.
type ResponseError struct {
	// Op is the client operation.
	Op string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body is the beginning of the raw body, for diagnostics.
	Body string
	// Err is the parse error.
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %v (status %d): %v", e.Op, ErrMalformedResponse, e.StatusCode, e.Err)
}

// Unwrap returns the parse error.
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedResponse.
func (e *ResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
