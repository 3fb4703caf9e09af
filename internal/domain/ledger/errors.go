package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownReportKind is returned for a report the builder cannot request
	ErrUnknownReportKind = errors.New("unknown report kind")

	// ErrEmptyCompany is returned when no company name is given
	ErrEmptyCompany = errors.New("company name is required")
)

// NetworkError reports an unreachable ledger endpoint or a non-success status.
// StatusCode is zero when no response was received.
type NetworkError struct {
	Endpoint   string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ledger request to %s failed with status %d after %d attempt(s)", e.Endpoint, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("ledger request to %s failed after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not well-formed markup
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse ledger response at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err wraps a *NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err wraps a *ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
