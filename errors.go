package rowstream

import "errors"

var (
	// ErrClosed is returned by Next after Close was called on any clone of
	// the stream. The engine is never touched once the handle is closed.
	ErrClosed = errors.New("rowstream: statement handle is closed")

	// ErrBusy is returned when the engine reported contention. The attempt
	// failed; retrying is the caller's policy, not this package's.
	ErrBusy = errors.New("rowstream: database is locked")

	// ErrInterrupted is returned when the engine reported interruption.
	ErrInterrupted = errors.New("rowstream: execution interrupted")

	// ErrColumnName is returned when a name-based lookup finds no column.
	ErrColumnName = errors.New("rowstream: no such column")

	// ErrColumnRange is returned when a positional lookup is out of bounds.
	ErrColumnRange = errors.New("rowstream: column index out of range")

	// ErrConversion is returned when As cannot represent a Value as the
	// requested Go type.
	ErrConversion = errors.New("rowstream: cannot convert value")
)
