// Package reconcile builds read-only drift reports.
//
// A plan compares a fresh vendor fetch against the stored links of one
// provider and lists the actions a real sync run (or an operator) would
// take: unseen groups, unmapped groups, metric drift, unattached shows, and
// orphaned show links. Nothing is written; the report backs the reconcile
// CLI command and the drift endpoint.
package reconcile
