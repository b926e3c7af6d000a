// Package classify maps failed network attempts to stable, user-presentable
// error categories.
package classify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// Category is a stable failure class.
type Category string

const (
	Network            Category = "network"
	Timeout            Category = "timeout"
	Auth               Category = "auth"
	RateLimit          Category = "rate_limit"
	ServerError        Category = "server_error"
	ServiceUnavailable Category = "service_unavailable"
	ValidationError    Category = "validation_error"
	Unknown            Category = "unknown"
)

// Categories lists every category.
var Categories = []Category{
	Network, Timeout, Auth, RateLimit, ServerError, ServiceUnavailable, ValidationError, Unknown,
}

// User-facing messages.
const (
	MsgTimeout            = "Request timeout. Please check your internet connection and try again."
	MsgUnreachable        = "Unable to connect to server. Please check your internet connection."
	MsgNetwork            = "Network error. Please try again later."
	MsgCancelled          = "Request was cancelled."
	MsgBadRequest         = "Invalid request. Please check your input."
	MsgSessionExpired     = "Session expired. Please login again."
	MsgForbidden          = "You do not have permission to perform this action."
	MsgNotFound           = "The requested resource was not found."
	MsgConflict           = "This resource already exists."
	MsgUnprocessable      = "Validation error. Please check your input."
	MsgRateLimited        = "Too many requests. Please wait a moment and try again."
	MsgServerError        = "Server error. Our team has been notified."
	MsgServiceUnavailable = "Service temporarily unavailable. Please try again in a few moments."
	MsgUnexpected         = "An unexpected error occurred. Please try again."
	MsgInvalidFields      = "Please correct the highlighted fields."
)

// StatusCoder is implemented by failures that carry an HTTP response status.
type StatusCoder interface {
	StatusCode() int
}

// ServerMessager is implemented by failures that carry the server's message.
type ServerMessager interface {
	ServerMessage() string
}

// ErrUnreachable marks failures where no connection could be made at all.
var ErrUnreachable = errors.New("server unreachable")

// Error is a classified failure.
type Error struct {
	Category    Category          `json:"category"`
	UserMessage string            `json:"message"`
	Retryable   bool              `json:"retryable"`
	Status      int               `json:"status,omitempty"` // 0 when no response was received
	FieldErrors map[string]string `json:"errors,omitempty"`
	Err         error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.UserMessage, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.UserMessage)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps err to a classified error. It returns nil for a nil error and
// returns an already classified error unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	var sc StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() > 0 {
		var msg string
		var sm ServerMessager
		if errors.As(err, &sm) {
			msg = strings.TrimSpace(sm.ServerMessage())
		}
		return FromStatus(sc.StatusCode(), msg, err)
	}

	return fromTransport(err)
}

// FromStatus maps an HTTP status and optional server message.
func FromStatus(status int, serverMsg string, err error) *Error {
	e := &Error{Status: status, Err: err}
	or := func(def string) string {
		if serverMsg != "" {
			return serverMsg
		}
		return def
	}

	switch status {
	case http.StatusBadRequest:
		e.Category, e.UserMessage = ValidationError, or(MsgBadRequest)
	case http.StatusUnauthorized:
		e.Category, e.UserMessage = Auth, MsgSessionExpired
	case http.StatusForbidden:
		e.Category, e.UserMessage = Auth, MsgForbidden
	case http.StatusNotFound:
		e.Category, e.UserMessage = Unknown, MsgNotFound
	case http.StatusConflict:
		e.Category, e.UserMessage = ValidationError, or(MsgConflict)
	case http.StatusUnprocessableEntity:
		e.Category, e.UserMessage = ValidationError, or(MsgUnprocessable)
	case http.StatusTooManyRequests:
		e.Category, e.UserMessage, e.Retryable = RateLimit, MsgRateLimited, true
	case http.StatusInternalServerError:
		e.Category, e.UserMessage, e.Retryable = ServerError, MsgServerError, true
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.Category, e.UserMessage, e.Retryable = ServiceUnavailable, MsgServiceUnavailable, true
	default:
		e.Category, e.UserMessage = Unknown, or(MsgUnexpected)
	}
	return e
}

func fromTransport(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Category: Network, UserMessage: MsgCancelled, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Category: Timeout, UserMessage: MsgTimeout, Retryable: true, Err: err}
	}

	if unreachable(err) {
		return &Error{Category: Network, UserMessage: MsgUnreachable, Retryable: true, Err: err}
	}
	return &Error{Category: Network, UserMessage: MsgNetwork, Retryable: true, Err: err}
}

func unreachable(err error) bool {
	if errors.Is(err, ErrUnreachable) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// Validation builds a ValidationError from field-level errors.
func Validation(fieldErrors map[string]string) *Error {
	return &Error{
		Category:    ValidationError,
		UserMessage: MsgInvalidFields,
		Status:      http.StatusBadRequest,
		FieldErrors: fieldErrors,
	}
}

// HTTPStatus returns the response status a server should use for a failure
// of category c observed on an upstream dependency.
func HTTPStatus(c Category) int {
	switch c {
	case ValidationError:
		return http.StatusBadRequest
	case Auth:
		return http.StatusBadGateway
	case RateLimit:
		return http.StatusTooManyRequests
	case Timeout:
		return http.StatusGatewayTimeout
	case Network, ServiceUnavailable:
		return http.StatusServiceUnavailable
	case ServerError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
