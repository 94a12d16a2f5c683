// Package dashboard provides SQLite-backed storage for dashboards: named
// collections of query panels bound to SPARQL endpoints.
//
// The store replaces the browser-local key-value persistence of earlier
// clients with a durable local database:
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: tolerate lock contention
//   - foreign_keys=ON: panels cascade with their dashboard
//
// Dashboards are addressed by name (unique); IDs are UUIDs minted on
// first save. Saving replaces the panel set atomically in one
// transaction. Panel query text is validated with querytext.Validate
// before anything is written; an invalid panel rejects the whole save.
package dashboard
