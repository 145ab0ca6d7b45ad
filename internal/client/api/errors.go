package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("server unavailable")
	ErrServer       = errors.New("server error")
)

// Error is the uniform failure shape produced by the executor.
type Error struct {
	// Message is human-readable and suitable for display.
	Message string
	// HTTPStatus is 0 for transport failures.
	HTTPStatus int
	// RawPayload is the response body as received, if any.
	RawPayload []byte

	kind  error
	cause error
}

func (e *Error) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.HTTPStatus)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// Kind returns the sentinel this error unwraps to.
func (e *Error) Kind() error { return e.kind }

// NewError builds an *Error of the given kind. Fakes and tests use it to
// produce the same shape the executor does.
func NewError(kind error, status int, message string) *Error {
	return &Error{Message: message, HTTPStatus: status, kind: kind}
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable,
		status == http.StatusGatewayTimeout:
		return ErrUnavailable
	case status >= 500:
		return ErrServer
	default:
		return ErrValidation
	}
}

func newHTTPError(status int, body []byte) *Error {
	return &Error{
		Message:    extractMessage(status, body),
		HTTPStatus: status,
		RawPayload: body,
		kind:       kindForStatus(status),
	}
}

func newTransportError(err error) *Error {
	return &Error{Message: err.Error(), kind: ErrUnavailable, cause: err}
}

// extractMessage prefers the body's "message", then its "error" field, then
// the status text.
func extractMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && m.String() != "" {
			return m.String()
		}
		e := gjson.GetBytes(body, "error")
		if e.Type == gjson.String && e.String() != "" {
			return e.String()
		}
		if m := e.Get("message"); m.Type == gjson.String && m.String() != "" {
			return m.String()
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// Message returns the display message of err: the *Error message when err
// carries one, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus
	}
	return 0
}
