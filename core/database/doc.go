// Package database provides the GORM connection layer.
//
// Connect opens a MySQL connection with sane pool defaults and verifies it
// with a ping before returning. The sqlite driver is supported for local
// development and for tests, which use an in-memory database.
package database
