package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stagesync/feature/ticketing/models"
)

// TypeREST is the type tag for the generic REST vendor adapter.
const TypeREST = "rest"

// restClient speaks to vendors exposing the documented JSON endpoints:
// GET /account for the connection probe and GET /events for event data.
// It translates transport failures into the package error taxonomy; raw
// vendor errors never cross this boundary.
type restClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newRESTClient(p *models.Provider, timeout time.Duration) Client {
	return &restClient{
		baseURL: strings.TrimRight(p.APIBaseURL, "/"),
		apiKey:  p.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type restAccount struct {
	AccountName string `json:"account_name"`
	EventCount  int    `json:"event_count"`
}

type restEvent struct {
	GroupID           string `json:"group_id"`
	GroupName         string `json:"group_name"`
	EventID           string `json:"event_id"`
	EventName         string `json:"event_name"`
	OccursAt          string `json:"occurs_at"`
	TicketsSold       int    `json:"tickets_sold"`
	GrossRevenueCents int64  `json:"gross_revenue_cents"`
	NetRevenueCents   int64  `json:"net_revenue_cents"`
}

type restEventList struct {
	Events []restEvent `json:"events"`
}

// TestConnection probes GET /account. Failures of any kind are captured in
// the result.
func (c *restClient) TestConnection(ctx context.Context) TestResult {
	var account restAccount
	if err := c.get(ctx, "/account", nil, &account); err != nil {
		return TestResult{Success: false, Error: err.Error()}
	}
	return TestResult{
		Success:     true,
		AccountName: account.AccountName,
		EventCount:  account.EventCount,
	}
}

// FetchEvents requests GET /events, optionally bounded by since.
func (c *restClient) FetchEvents(ctx context.Context, since *time.Time) ([]ExternalEvent, error) {
	query := map[string]string{}
	if since != nil {
		query["since"] = since.UTC().Format(time.RFC3339)
	}

	var list restEventList
	if err := c.get(ctx, "/events", query, &list); err != nil {
		return nil, err
	}

	events := make([]ExternalEvent, 0, len(list.Events))
	for _, e := range list.Events {
		occursAt, err := time.Parse(time.RFC3339, e.OccursAt)
		if err != nil {
			return nil, &ProtocolError{Detail: fmt.Sprintf("event %s has invalid occurs_at %q", e.EventID, e.OccursAt)}
		}
		events = append(events, ExternalEvent{
			GroupID:           e.GroupID,
			GroupName:         e.GroupName,
			EventID:           e.EventID,
			EventName:         e.EventName,
			OccursAt:          occursAt,
			TicketsSold:       e.TicketsSold,
			GrossRevenueCents: e.GrossRevenueCents,
			NetRevenueCents:   e.NetRevenueCents,
		})
	}
	return events, nil
}

// get issues an authenticated GET and decodes the JSON body into out,
// classifying every failure mode into the package taxonomy.
func (c *restClient) get(ctx context.Context, path string, query map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &ProtocolError{Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and connection failures are retryable on the next run.
		return &TransientNetworkError{Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Reason: "vendor rejected the configured credential"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return &TransientNetworkError{Cause: fmt.Errorf("vendor returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return &ProtocolError{Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientNetworkError{Cause: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProtocolError{Detail: "response body is not valid JSON"}
	}
	return nil
}

// retryAfter parses the vendor's Retry-After header when present.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// IsRetryable reports whether the error may succeed on a later trigger.
func IsRetryable(err error) bool {
	var rl *RateLimitedError
	var tn *TransientNetworkError
	return errors.As(err, &rl) || errors.As(err, &tn)
}
