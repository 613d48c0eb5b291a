// Package pesto is a client for the Pesto remote code execution API.
//
// A Client exposes three blocking operations: Ping, ListRuntimes and
// Execute. Each sends one HTTP request through a Transport, parses the
// response body, classifies non-success responses into an *APIError and
// decodes success bodies into the types package.
//
// Errors come in two tiers. Transport-tier errors (*TransportError,
// *ResponseError, ErrDecode) mean no usable response was obtained.
// API-tier errors (*APIError) carry a Kind sentinel:
//
//	res, err := client.Execute(ctx, sub)
//	if errors.Is(err, pesto.ErrMonthlyLimitExceeded) {
//		// quota exhausted
//	}
//
// The client never retries. IsRetryable reports which API errors are worth
// sending again.
package pesto
