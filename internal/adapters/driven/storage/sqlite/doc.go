// Package sqlite provides the SQLite-backed implementation of the
// enrichment status store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Queries are built with
// squirrel. Status rows and normalised metadata documents live in separate
// tables so the three write families (correlation ID, status block,
// normalised block) stay independent and individually retryable.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.enricher/data/enrichment.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
