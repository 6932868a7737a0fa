package envelope

import (
	"errors"
	"fmt"
)

// ErrPayloadExists is returned when a second payload block is added to a
// request.
var ErrPayloadExists = errors.New("envelope: request already has a payload block")

// MalformedResponseError indicates response text that is not an OPS document.
type MalformedResponseError struct {
	// Reason describes which check failed.
	Reason string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("envelope: malformed response: %s: %v", e.Reason, e.Err)
	}
	return "envelope: malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// APIError is a well-formed response that reports failure.
type APIError struct {
	// Code is the response_code item, 0 if absent or not numeric.
	Code int

	// Text is the response_text item.
	Text string
}

func (e *APIError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("opensrs: request failed (code %d)", e.Code)
	}
	return fmt.Sprintf("opensrs: request failed (code %d): %s", e.Code, e.Text)
}
