package pesto

import (
	"net/http"
	"strings"
)

// matchMode selects how a messageRule compares body.message.
type matchMode int

const (
	matchExact matchMode = iota
	matchPrefix
)

// messageRule maps a body.message pattern to an error kind.
type messageRule struct {
	mode    matchMode
	pattern string
	kind    error
}

func (r messageRule) matches(msg string) bool {
	if r.mode == matchPrefix {
		return strings.HasPrefix(msg, r.pattern)
	}
	return msg == r.pattern
}

// statusRule is the decision for one status code. Rules are evaluated in
// order and the first match wins; fallback applies when none match or the
// message is absent.
type statusRule struct {
	rules    []messageRule
	fallback error
	// ignoreMessage drops body.message from the resulting error.
	ignoreMessage bool
	// keepMessage copies body.message into errors produced by rules.
	keepMessage bool
}

// statusRules is the whole status/message protocol of the API. Any status
// not listed here is ErrUnknownStatus.
var statusRules = map[int]statusRule{
	http.StatusNotFound: {
		fallback:      ErrPathNotFound,
		ignoreMessage: true,
	},
	http.StatusInternalServerError: {
		fallback: ErrInternalServerError,
	},
	http.StatusUnauthorized: {
		rules: []messageRule{
			{matchExact, "Token must be supplied", ErrMissingToken},
			{matchExact, "Token not registered", ErrTokenNotRegistered},
			{matchExact, "Token has been revoked", ErrTokenRevoked},
		},
		fallback: ErrUnknownStatus,
	},
	http.StatusTooManyRequests: {
		rules: []messageRule{
			{matchExact, "Monthly limit exceeded", ErrMonthlyLimitExceeded},
		},
		fallback: ErrServerRateLimited,
	},
	http.StatusBadRequest: {
		rules: []messageRule{
			{matchExact, "Runtime not found", ErrRuntimeNotFound},
			{matchPrefix, "Missing parameters", ErrMissingParameters},
			{matchPrefix, "Maximum allowed entrypoint exceeded", ErrMaximumEntrypointsExceeded},
		},
		fallback:    ErrUnclassified,
		keepMessage: true,
	},
}

// Classify maps an API response to nil (success) or exactly one *APIError.
//
// body is the parsed JSON object and may be nil or lack a message. Only a
// string-valued "message" counts as present. Classify is pure and total:
// every (status, body) pair yields a deterministic result.
func Classify(status int, body map[string]any) error {
	if status == http.StatusOK {
		return nil
	}

	msg, hasMsg := body["message"].(string)

	rule, known := statusRules[status]
	if !known {
		return newAPIError(ErrUnknownStatus, status, msg, hasMsg)
	}
	if rule.ignoreMessage {
		return newAPIError(rule.fallback, status, "", false)
	}

	if hasMsg {
		for _, r := range rule.rules {
			if !r.matches(msg) {
				continue
			}
			if rule.keepMessage {
				return newAPIError(r.kind, status, msg, true)
			}
			return newAPIError(r.kind, status, "", false)
		}
	}

	return newAPIError(rule.fallback, status, msg, hasMsg)
}

func newAPIError(kind error, status int, msg string, hasMsg bool) *APIError {
	return &APIError{
		Kind:       kind,
		StatusCode: status,
		Message:    msg,
		HasMessage: hasMsg,
	}
}
