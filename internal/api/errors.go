// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for the outcomes the client distinguishes.
var (
	// ErrNotConfigured indicates no server URL is set.
	ErrNotConfigured = errors.New("server URL not configured")

	// ErrAuthExpired indicates the session is missing or expired (HTTP 401).
	ErrAuthExpired = errors.New("authentication required")

	// ErrPaywallRequired indicates the feature needs a paid plan.
	ErrPaywallRequired = errors.New("payment required")

	// ErrInvalidCredentials indicates a wrong password at login.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnknownAccount indicates no account exists for the email at login.
	ErrUnknownAccount = errors.New("no account found")

	// ErrNotFound indicates the requested thread does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates the request never produced a usable response.
	ErrNetwork = errors.New("network error")
)

// APIError is an error response from the backend.
type APIError struct {
	// Status is the HTTP status code. 200 is used for bodies that report
	// success=false with a 2xx status.
	Status int

	// Message is the server-provided "error" text, possibly empty.
	Message string

	// NeedsSignup is set on login responses for accounts that exist
	// upstream but have no password yet.
	NeedsSignup bool

	// Paywall is set when the server gates the feature behind payment.
	Paywall bool

	// kind is the sentinel this error maps onto, or nil for plain
	// application errors.
	kind error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	prefix := "T2T error"
	if e.kind != nil {
		prefix = e.kind.Error()
	}
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", prefix, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (HTTP %d)", prefix, e.Status)
}

// Unwrap exposes the sentinel so errors.Is works.
func (e *APIError) Unwrap() error {
	return e.kind
}

// errorBody is the shape of every error the backend returns.
type errorBody struct {
	Success      *bool  `json:"success"`
	Error        string `json:"error"`
	AuthRequired bool   `json:"auth_required"`
	NeedsSignup  bool   `json:"needs_signup"`
	Paywall      bool   `json:"paywall"`
}

// handleErrorResponse converts an HTTP error response to an error.
func handleErrorResponse(statusCode int, body []byte) error {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Non-JSON error pages (proxies, 502s) still carry a status.
		parsed.Error = strings.TrimSpace(string(body))
		if len(parsed.Error) > 200 {
			parsed.Error = ""
		}
	}

	apiErr := &APIError{
		Status:      statusCode,
		Message:     parsed.Error,
		NeedsSignup: parsed.NeedsSignup,
		Paywall:     parsed.Paywall,
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		apiErr.kind = ErrAuthExpired
	case statusCode == http.StatusForbidden && parsed.Paywall:
		apiErr.kind = ErrPaywallRequired
	case statusCode == http.StatusNotFound:
		apiErr.kind = ErrNotFound
	}
	return apiErr
}

// applicationError builds an error for a 2xx body that reported failure.
func applicationError(status int, message string) error {
	return &APIError{Status: status, Message: message}
}

// ErrorMessage returns the server-provided message for err, or fallback
// when there is none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsAuthExpired reports whether err means the session is gone.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// isRetryable determines if an error should trigger a retry. Only
// idempotent requests are ever retried.
func isRetryable(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return !isContextError(err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600 || apiErr.Status == http.StatusTooManyRequests
	}
	return false
}
