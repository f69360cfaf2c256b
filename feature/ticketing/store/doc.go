// Package store persists the ticketing link model: providers, production
// links, show links, and sync logs.
//
// # Keys and overwrite policy
//
// Production links are keyed by (provider, external group id); show links by
// (production link, external event id). Both keys carry unique indexes so
// repeated reconciliation is idempotent at the storage layer. Show link
// metric fields (tickets sold, gross/net revenue) are overwritten with the
// vendor's current totals on every sync, never accumulated, so refunds are
// reflected verbatim.
//
// Every upsert runs as its own transaction. A failure partway through a sync
// run therefore never rolls back earlier successful upserts; the coordinator
// counts per-event failures instead.
package store
