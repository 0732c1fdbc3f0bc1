package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is an HTTP-level rejection from the admin API. Message carries the
// server's error payload when one was present.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 rejection.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Message extracts the server-supplied message from err, falling back to the
// given text for transport failures and payloads without one. Stores use it
// to surface human-readable errors without leaking wire details.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorPayload is the error body shape used across the admin API.
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// extractMessage pulls a human-readable message out of an error response
// body. Non-JSON bodies yield an empty message rather than raw bytes.
func extractMessage(body []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
