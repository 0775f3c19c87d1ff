package client

import (
	"errors"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Kind classifies a failed API call.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a 4xx rejection other than 401/403/404, or a request
	// that failed local validation before being sent.
	KindValidation
	// KindAuth is a 401 or 403.
	KindAuth
	// KindNotFound is a 404.
	KindNotFound
	// KindTransport means no usable response: the network failed or the body
	// could not be decoded.
	KindTransport
	// KindServer is a 5xx.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against an *Error.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("auth error")
	ErrNotFound   = errors.New("not found")
	ErrTransport  = errors.New("transport error")
	ErrServer     = errors.New("server error")
)

const (
	// MessageNetworkError is surfaced when no response was received.
	MessageNetworkError = "Network error occurred"
	// MessageMalformedResponse is surfaced when a response could not be decoded.
	MessageMalformedResponse = "Malformed response from server"
)

// Error is returned by every API operation. Error() yields the message
// only, so callers can display it verbatim.
type Error struct {
	Kind       Kind
	Operation  string
	StatusCode int
	Message    string
	// Fields holds per-field messages from a validation rejection, when present.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// KindForStatus maps a non-2xx HTTP status to a Kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindTransport
	}
}

// statusMessage is the fallback message when a rejection carries none.
func statusMessage(status int) string {
	text := http.StatusText(status)
	if text == "" {
		text = "unexpected status"
	}
	return "API Error: " + text
}

func transportError(op string, err error) *Error {
	return &Error{
		Kind:      KindTransport,
		Operation: op,
		Message:   MessageNetworkError,
		Err:       err,
	}
}

func malformedError(op string, status int, err error) *Error {
	return &Error{
		Kind:       KindTransport,
		Operation:  op,
		StatusCode: status,
		Message:    MessageMalformedResponse,
		Err:        err,
	}
}

// joinFields renders a field error map in a stable order.
func joinFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
