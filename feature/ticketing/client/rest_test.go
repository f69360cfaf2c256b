package client_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRESTClient(t *testing.T, baseURL string) client.Client {
	t.Helper()
	factory := client.NewFactory(5 * time.Second)
	cl, err := factory.Build(&models.Provider{
		ProviderType: client.TypeREST,
		APIKey:       "secret-token",
		APIBaseURL:   baseURL,
	})
	require.NoError(t, err)
	return cl
}

func TestRESTTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"account_name": "Majestic Theatre", "event_count": 12}`)
	}))
	defer srv.Close()

	result := newRESTClient(t, srv.URL).TestConnection(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, "Majestic Theatre", result.AccountName)
	assert.Equal(t, 12, result.EventCount)
}

func TestRESTFetchEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "2026-03-01T00:00:00Z", r.URL.Query().Get("since"))
		fmt.Fprint(w, `{"events": [
			{"group_id": "grp-1", "group_name": "Hamlet Tour", "event_id": "ev-1",
			 "event_name": "Evening", "occurs_at": "2026-03-14T19:30:00Z",
			 "tickets_sold": 100, "gross_revenue_cents": 350000, "net_revenue_cents": 315000}
		]}`)
	}))
	defer srv.Close()

	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events, err := newRESTClient(t, srv.URL).FetchEvents(context.Background(), &since)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "grp-1", events[0].GroupID)
	assert.Equal(t, "ev-1", events[0].EventID)
	assert.True(t, events[0].OccursAt.Equal(time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)))
	assert.Equal(t, 100, events[0].TicketsSold)
	assert.EqualValues(t, 350000, events[0].GrossRevenueCents)
	assert.EqualValues(t, 315000, events[0].NetRevenueCents)
}

func TestRESTErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    http.Header
		body      string
		check     func(t *testing.T, err error)
		retryable bool
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var e *client.AuthError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var e *client.AuthError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "rate limited with hint",
			status: http.StatusTooManyRequests,
			header: http.Header{"Retry-After": []string{"30"}},
			check: func(t *testing.T, err error) {
				var e *client.RateLimitedError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, 30*time.Second, e.RetryAfter)
			},
			retryable: true,
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				var e *client.TransientNetworkError
				assert.ErrorAs(t, err, &e)
			},
			retryable: true,
		},
		{
			name:   "unexpected status",
			status: http.StatusTeapot,
			check: func(t *testing.T, err error) {
				var e *client.ProtocolError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"events": [`,
			check: func(t *testing.T, err error) {
				var e *client.ProtocolError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name:   "invalid timestamp",
			status: http.StatusOK,
			body:   `{"events": [{"group_id": "g", "event_id": "e", "occurs_at": "next friday"}]}`,
			check: func(t *testing.T, err error) {
				var e *client.ProtocolError
				assert.ErrorAs(t, err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, vs := range tt.header {
					for _, v := range vs {
						w.Header().Set(k, v)
					}
				}
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			events, err := newRESTClient(t, srv.URL).FetchEvents(context.Background(), nil)
			assert.Nil(t, events)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, tt.retryable, client.IsRetryable(err))
		})
	}
}

func TestRESTConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Shut down before use

	_, err := newRESTClient(t, srv.URL).FetchEvents(context.Background(), nil)
	require.Error(t, err)
	var e *client.TransientNetworkError
	assert.ErrorAs(t, err, &e)
	assert.True(t, client.IsRetryable(err))
}
