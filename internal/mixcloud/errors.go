package mixcloud

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed search
type Kind int

const (
	KindFailed Kind = iota
	KindRateLimited
	KindUnavailable
	KindNotFound
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindNotFound:
		return "not_found"
	case KindUnexpected:
		return "unexpected"
	default:
		return "failed"
	}
}

// User-facing messages
const (
	MsgNetwork     = "Network error. Please check your internet connection and try again."
	MsgRateLimited = "Too many requests. Please wait a moment and try again."
	MsgUnavailable = "Mixcloud service is temporarily unavailable. Please try again later."
	MsgNotFound    = "Search service not found. Please check your connection."
	MsgUnexpected  = "An unexpected error occurred. Please try again."
)

// APIError is returned when the endpoint answers but the search did not succeed
type APIError struct {
	StatusCode int
	Kind       Kind
	Err        error // set for KindUnexpected
}

func newAPIError(status int) *APIError {
	kind := KindFailed
	switch {
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status >= 500:
		kind = KindUnavailable
	case status == http.StatusNotFound:
		kind = KindNotFound
	}
	return &APIError{StatusCode: status, Kind: kind}
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mixcloud: %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mixcloud: %s (status %d)", e.Kind, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// NetworkError wraps transport failures: DNS, refused connections, timeouts
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("mixcloud: network: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the transport gave up waiting
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	if errors.As(e.Err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// UserMessage maps err to the message shown next to the retry affordance
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return MsgNetwork
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindRateLimited:
			return MsgRateLimited
		case KindUnavailable:
			return MsgUnavailable
		case KindNotFound:
			return MsgNotFound
		case KindFailed:
			return fmt.Sprintf("Search failed. Please try again. (Error: %d)", apiErr.StatusCode)
		}
	}
	return MsgUnexpected
}
