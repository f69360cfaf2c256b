// Package scheduler runs synchronizations asynchronously.
//
// Triggers (manual or interval-based) enqueue a provider id into a worker
// pool and return an acknowledgment immediately, never the sync outcome.
// A per-provider in-flight marker, checked-and-set atomically before the
// work is queued, guarantees at most one run per provider at any time; a
// duplicate trigger is a no-op. The marker is released only after the
// coordinator returns, and the lock is never held across network calls.
package scheduler
