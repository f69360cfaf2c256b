package client

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownProviderType is returned by the factory when a provider's type
// tag has no registered client implementation.
var ErrUnknownProviderType = errors.New("unknown provider type")

// AuthError indicates a bad or expired credential. It aborts the run and is
// surfaced on the provider record.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// RateLimitedError indicates the vendor throttled the request. The next
// scheduled or manual trigger is the retry; RetryAfter is the vendor's
// backoff hint when available (zero otherwise).
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by vendor, retry after %s", e.RetryAfter)
	}
	return "rate limited by vendor"
}

// TransientNetworkError indicates a failure that is safe to retry on the
// next trigger, including exceeded timeouts.
type TransientNetworkError struct {
	Cause error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("transient network error: %v", e.Cause)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Cause
}

// ProtocolError indicates an unexpected vendor response shape. It is not
// retried and surfaces as a run failure.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected vendor response: %s", e.Detail)
}
