package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a gateway failure.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindTimeout
	KindStatus
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails.
type Error struct {
	Op         string
	Endpoint   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("gateway %s %s: unexpected status code: %d", e.Op, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("gateway %s %s: %s: %v", e.Op, e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed: network errors,
// timeouts, 429 and 5xx responses.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

// IsRetryable is the RetryConfig predicate for gateway errors.
func IsRetryable(err error) bool {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Retryable()
	}
	return false
}
