// Package client defines the vendor capability set and its implementations.
//
// Every ticketing vendor is represented by a Client that can probe the
// account (TestConnection) and enumerate current events (FetchEvents). The
// Factory resolves a provider's type tag to its implementation; construction
// never performs I/O.
//
// # Error taxonomy
//
// FetchEvents failures are classified so the coordinator and scheduler can
// make retry decisions without inspecting vendor specifics:
//
//   - *AuthError: bad or expired credential, aborts the run
//   - *RateLimitedError: vendor throttling, retry on the next trigger
//   - *TransientNetworkError: connection failures and timeouts, retryable
//   - *ProtocolError: unexpected response shape, not retried
//
// TestConnection never returns an error; failures are folded into the
// TestResult so the admin "Test" button always has a reason string.
package client
