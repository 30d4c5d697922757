// Package database manages the SQLite connection for Folium Core.
//
// It wraps database/sql with WAL-mode configuration, a minimal single-writer
// connection pool, health checks, and an embedded-migration runner. Migration
// files are .up.sql/.down.sql pairs compiled into the binary via go:embed and
// applied one transaction each.
package database
