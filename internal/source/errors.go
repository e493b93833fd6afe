package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a failed Fetch.
type ErrorCode string

const (
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeUnreachable ErrorCode = "unreachable"
	ErrCodeStatus      ErrorCode = "bad_status"
	ErrCodeDecode      ErrorCode = "decode"
	ErrCodeIO          ErrorCode = "io"
)

// FetchError is returned by every Source when records cannot be produced.
type FetchError struct {
	Code    ErrorCode
	Source  string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s source: %s: %s", e.Source, e.Code, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsCode reports whether err is a FetchError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Code == code
}

// statusError represents a non-2xx HTTP response.
type statusError struct {
	StatusCode int
	Status     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// mapHTTPError translates transport and status errors into FetchError values.
func mapHTTPError(name string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &FetchError{Code: ErrCodeTimeout, Source: name, Message: "request timed out or cancelled", Err: err}
	}

	var se *statusError
	if errors.As(err, &se) {
		return &FetchError{Code: ErrCodeStatus, Source: name, Message: se.Error(), Err: err}
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") {
		return &FetchError{Code: ErrCodeUnreachable, Source: name, Message: "server unreachable", Err: err}
	}
	if strings.Contains(msg, "Client.Timeout") {
		return &FetchError{Code: ErrCodeTimeout, Source: name, Message: "request timed out", Err: err}
	}

	return &FetchError{Code: ErrCodeIO, Source: name, Message: "request failed", Err: err}
}
