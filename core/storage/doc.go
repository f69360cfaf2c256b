// Package storage provides the object storage client used to archive
// synchronization run reports.
//
// SyncLog rows stay in the database for the admin audit view; the archive
// keeps a long-term JSON copy of each finished run (including per-event
// outcomes) in an S3-compatible bucket. The archive is optional and the
// application runs without it.
package storage
