package protocol

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrIdentifierHeaderNotFound = errors.New("identifier header not found")
	ErrHeaderNotFound           = errors.New("header not found")
	ErrMalformedHeader          = errors.New("malformed header")
)

// StatusError reports a non-success response status.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %d - %s", e.StatusCode, e.Reason)
}

// NewStatusError builds a StatusError from a response, falling back to the
// standard reason phrase when the response carries none.
func NewStatusError(resp *http.Response) *StatusError {
	// resp.Status looks like "404 Not Found"
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, Reason: reason}
}

// ProtocolError reports a successful status with unusable headers.
type ProtocolError struct {
	Op     string
	Header string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Header == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Header, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
