package bmsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind buckets every failure a backend call can produce. Each kind maps
// to exactly one user-facing message; nothing propagates past the caller as
// an unclassified error.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindTimeout
	KindNetwork
	KindHTTPStatus
	KindAppError
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindAppError:
		return "app_error"
	}
	return "none"
}

// StatusError reports a non-2xx HTTP response. Body holds a truncated copy of
// the response text for log context.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("backend returned status %d", e.Code)
}

// APIError reports a 200 response whose payload carried an error field.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: %s", e.Message)
}

// Classify maps an error from any backend call into its taxonomy bucket.
// Deadline expiry is checked before generic net.Error so a context timeout is
// never misreported as a network failure.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var se *StatusError
	if errors.As(err, &se) {
		return KindHTTPStatus
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return KindAppError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	// url.Error wrapping without a typed net error still means we never got a
	// usable response.
	if strings.Contains(strings.ToLower(err.Error()), "context deadline exceeded") {
		return KindTimeout
	}
	return KindNetwork
}

// UserMessage converts a classified failure into the single line shown to the
// user. The vehicle-type validation path produces its own message upstream.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindTimeout:
		return "The request timed out. The server may be starting up, please try again in a minute."
	case KindNetwork:
		return "Cannot reach the prediction server. Check your connection and try again."
	case KindHTTPStatus:
		var se *StatusError
		if errors.As(err, &se) && se.Body != "" {
			return fmt.Sprintf("The server rejected the request (HTTP %d): %s", se.Code, se.Body)
		}
		return "The server rejected the request. Please try again."
	case KindAppError:
		var ae *APIError
		if errors.As(err, &ae) {
			return fmt.Sprintf("Prediction failed: %s", ae.Message)
		}
		return "Prediction failed."
	}
	return "Unexpected error. Please try again."
}
