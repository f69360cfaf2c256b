package client

import (
	"context"
	"time"
)

// ExternalEvent is one event instance as reported by a vendor, already
// translated into the internal contract. Revenue figures are the vendor's
// current authoritative totals in cents; they can decrease between fetches.
type ExternalEvent struct {
	// GroupID identifies the vendor's event group (their notion of a
	// production or series).
	GroupID   string    `json:"group_id"`
	GroupName string    `json:"group_name"`
	// EventID identifies the individual event instance within the group.
	EventID           string    `json:"event_id"`
	EventName         string    `json:"event_name"`
	OccursAt          time.Time `json:"occurs_at"`
	TicketsSold       int       `json:"tickets_sold"`
	GrossRevenueCents int64     `json:"gross_revenue_cents"`
	NetRevenueCents   int64     `json:"net_revenue_cents"`
}

// TestResult is the outcome of a connection probe. Failures are captured in
// the result, never raised to the caller.
type TestResult struct {
	Success     bool   `json:"success"`
	AccountName string `json:"account_name,omitempty"`
	EventCount  int    `json:"event_count,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Client is the uniform capability set every vendor adapter satisfies.
// Implementations perform no I/O at construction time.
type Client interface {
	// TestConnection probes the vendor with the configured credential.
	// It must not mutate any stored state and is subject to the bounded
	// timeout carried by ctx.
	TestConnection(ctx context.Context) TestResult

	// FetchEvents returns the vendor's current events. A nil since requests
	// a full refresh. The returned slice is finite and restartable; errors
	// follow the package taxonomy (AuthError, RateLimitedError,
	// TransientNetworkError, ProtocolError).
	FetchEvents(ctx context.Context, since *time.Time) ([]ExternalEvent, error)
}
