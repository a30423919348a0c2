// Package ledger persists processing history backed by SQLite.
//
// Every submitted job gets one row that advances through
// submitted -> processing -> completed/failed as the session runner
// observes backend events. The ledger is strictly a history surface for
// the CLI (jobs listing, re-downloading artifacts by job id); sessions
// themselves are in-memory only and never restored from it.
package ledger
