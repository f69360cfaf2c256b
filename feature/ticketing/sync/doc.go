// Package sync implements the synchronization coordinator.
//
// One RunSync call reconciles a provider's vendor events into the link
// store:
//
//  1. Open a running sync log.
//  2. Resolve the vendor client via the factory.
//  3. Fetch events under a bounded timeout.
//  4. Reconcile each event independently: resolve or create its production
//     link, skip events of unmapped groups, and overwrite the show link's
//     cached metrics with the vendor's current totals.
//  5. Finalize the log (success, partial_failure, or failure) and update the
//     provider's health fields.
//
// Fetch-level failures (auth, rate limit, network, protocol) finalize the
// log without touching link data. Per-event failures are counted and never
// abort the remaining events. The coordinator performs no retries; the next
// scheduled or manual trigger is the retry.
package sync
