package fetch

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
)

// Kind classifies a fetch failure.
type Kind int

// Failure kinds. KindHTTPStatus carries the response status code.
const (
	KindNetwork Kind = iota
	KindTimeout
	KindHTTPStatus
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http-status"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure.
type Error struct {
	Kind       Kind
	StatusCode int
	URL        string
	cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: http-status:%d", e.URL, e.StatusCode)
	}
	if e.cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the failure class is worth another attempt:
// connectivity problems, timeouts, 5xx responses, and 429. Other 4xx
// responses are terminal for the task.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindHTTPStatus:
		return e.StatusCode >= http.StatusInternalServerError ||
			e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// Classify wraps err into an *Error for the given URL. A non-2xx status code
// takes precedence over the transport error colly reports alongside it.
func Classify(rawURL string, statusCode int, err error) *Error {
	if statusCode != 0 && (statusCode < 200 || statusCode > 299) {
		return &Error{Kind: KindHTTPStatus, StatusCode: statusCode, URL: rawURL, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: rawURL, cause: err}
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: rawURL, cause: err}
	}
	return &Error{Kind: KindNetwork, URL: rawURL, cause: err}
}
