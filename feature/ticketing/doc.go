// Package ticketing implements synchronization with external ticketing
// platforms.
//
// Locally tracked productions and shows are reconciled against the event
// and sales data held by third-party vendors. Each configured provider
// carries an opaque credential and a type tag resolved by the client
// factory to a vendor adapter; the coordinator runs the synchronization and
// the scheduler triggers it, on demand or on a per-provider interval, with
// single-flight protection.
//
// # Components
//
//   - client: vendor capability set, error taxonomy, and the factory
//   - store: providers, production links, show links, sync logs, stats
//   - sync: the coordinator and the optional report archive
//   - scheduler: worker pool and auto-sync ticker
//   - reconcile: read-only drift reports
//   - Service/Handler: the boundary consumed by the admin layer
//
// # HTTP Endpoints
//
// All routes live under /ticketing; see RegisterRoutes for the full list.
// Sales figures travel as integer cents end to end.
package ticketing
