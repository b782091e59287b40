package textdiff

import "errors"

// Sentinel errors for Client construction and lifecycle.
var (
	// ErrNoDatabase indicates no database option was provided to New.
	ErrNoDatabase = errors.New("textdiff: no database configured (use WithSQLite or WithPostgres)")

	// ErrClientClosed indicates the client has already been closed.
	ErrClientClosed = errors.New("textdiff: client is closed")
)
