package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any APIError carrying a 401 status.
var ErrUnauthorized = errors.New("upstream: unauthorized")

// APIError is a non-2xx response from an upstream service.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TransportError means no usable response was received: the request could not
// be built or sent, or the response body could not be decoded.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind is the error class a caller surfaces to the user.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindServer
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by Client to its Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrUnauthorized) {
		return KindUnauthorized
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindServer
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return KindTransport
	}
	return KindUnknown
}

// Detail returns the server-supplied detail of an APIError, or "".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
