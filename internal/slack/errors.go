package slack

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common errors returned by the Slack client.
var (
	// ErrNotFound indicates a target could not be resolved to an entity.
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates a network-level failure after retries.
	ErrNetwork = errors.New("network error calling Slack API")

	// ErrInvalidResponse indicates a 2xx response whose body was not valid JSON.
	ErrInvalidResponse = errors.New("invalid response from Slack API")
)

// APIError represents a well-formed Slack response with ok=false.
// The transport succeeded; the operation did not.
type APIError struct {
	Method  string
	Code    string // Error code from Slack (e.g. "channel_not_found")
	Payload json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Slack API error for %s: %s", e.Method, e.Code)
}

// HTTPError represents a non-2xx HTTP status that was not retried
// or survived all retries.
type HTTPError struct {
	Method     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Slack HTTP error for %s: %d", e.Method, e.StatusCode)
}

// Candidate is one entry in an ambiguous-target candidate list.
type Candidate struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// AmbiguousTargetError is returned when a name matches more than one
// entity. Candidates carries at most eight summaries for the caller to
// present; the resolver never silently picks one.
type AmbiguousTargetError struct {
	Kind       string // "conversation" or "user"
	Target     string
	Candidates []Candidate
}

func (e *AmbiguousTargetError) Error() string {
	return fmt.Sprintf("multiple %ss match %q; use a %s ID", e.Kind, e.Target, e.Kind)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "channel_not_found", "user_not_found", "thread_not_found":
			return true
		}
	}
	return false
}

// IsAmbiguous returns true if the error carries an ambiguous candidate list.
func IsAmbiguous(err error) bool {
	var ambiguous *AmbiguousTargetError
	return errors.As(err, &ambiguous)
}

// IsAuthError returns true if the error indicates bad or expired credentials.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "invalid_auth", "not_authed", "account_inactive", "token_revoked", "token_expired":
			return true
		}
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == 401 || httpErr.StatusCode == 403
	}
	return false
}
