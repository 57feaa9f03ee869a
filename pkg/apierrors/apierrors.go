// Package apierrors carries HTTP status information across the gateway so
// that downstream failures map onto the responses the gateway returns.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions re-exported for call sites that already import
// this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Error is an application error with an HTTP status code.
type Error struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// New creates an Error with an explicit status code.
func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

// Newf creates an Error with a formatted detail message.
func Newf(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Detail: fmt.Sprintf(format, args...)}
}

// Convenience constructors for the statuses the gateway produces itself.

func Internal(detail string) *Error   { return New(http.StatusInternalServerError, detail) }
func BadGateway(detail string) *Error { return New(http.StatusBadGateway, detail) }

// StatusOf returns the HTTP status carried by err, or 500 when err carries
// none.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
