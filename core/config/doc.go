// Package config assembles the application configuration.
//
// The root Config is composed of partial configs owned by the packages they
// configure (server, database, logger, storage, sync). Defaults come from
// struct 'default' tags, bound into Viper via reflection, and every key can
// be overridden through environment variables (SERVER_PORT -> server.port).
// A .env file is loaded when present.
package config
