// Package rowstream turns a cooperative-stepping query execution engine into
// an asynchronous, row-at-a-time result stream. The engine (see the engine
// package) advances a prepared statement one logical step at a time; Rows
// drives exactly one step per attempt, suspends the calling goroutine when
// the engine reports pending IO, and materializes produced rows into an
// immutable Row with typed values addressable by position or name.
package rowstream

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-row-stream/rowstream/engine"
)

// handle is the shared statement handle. Every clone of a Rows points at the
// same handle, so all clones advance the same cursor. The lock is held for
// one step plus one row/metadata read, never across a suspension.
type handle struct {
	mu     sync.Mutex
	stmt   engine.Statement
	closed bool
}

// Rows is the result stream of a prepared statement. Clones share the
// underlying cursor: concurrent Next calls are memory-safe but race for
// which caller receives which row.
type Rows struct {
	h *handle
}

// New wraps a mid-execution statement in a result stream. The statement is
// referenced, not owned; whoever prepared it controls its lifetime.
func New(stmt engine.Statement) *Rows {
	return &Rows{h: &handle{stmt: stmt}}
}

// Clone returns a stream sharing the same statement handle and cursor.
func (r *Rows) Clone() *Rows {
	return &Rows{h: r.h}
}

// Close marks the shared handle closed. Every subsequent Next on any clone
// fails with ErrClosed without touching the engine. It does not finalize the
// statement; that belongs to whoever prepared it.
func (r *Rows) Close() error {
	r.h.mu.Lock()
	defer r.h.mu.Unlock()
	r.h.closed = true
	return nil
}

// Next fetches the next row of the result set. It returns (nil, nil) once
// the statement is exhausted, and keeps doing so on further calls for as
// long as the engine keeps reporting completion.
//
// Each call drives the engine one step at a time. When the engine reports
// pending IO, Next services one unit of it and suspends until the engine's
// wake callback fires or ctx is done; this is the only suspension point.
// Engine contention (ErrBusy) and interruption (ErrInterrupted) fail the
// attempt immediately; the stream itself stays usable.
//
// Abandoning a call via ctx is safe: the step already taken leaves the
// engine in a well-defined state and no partial row is observed.
func (r *Rows) Next(ctx context.Context) (*Row, error) {
	for {
		// Buffered so a wake fired synchronously from inside RunOnce,
		// while the lock is still held, is not lost.
		wake := make(chan struct{}, 1)
		row, pending, err := r.step(func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		if err != nil {
			return nil, err
		}
		if !pending {
			return row, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// step performs one locked engine step. pending reports that the engine
// asked for IO: one unit was serviced and the caller should suspend before
// retrying. The lock is released before any suspension happens.
func (r *Rows) step(wake func()) (row *Row, pending bool, err error) {
	h := r.h
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false, ErrClosed
	}

	res, err := h.stmt.Step(wake)
	if err != nil {
		return nil, false, err
	}
	switch res {
	case engine.StepRow:
		return readRow(h.stmt), false, nil
	case engine.StepDone:
		return nil, false, nil
	case engine.StepIO:
		if err := h.stmt.RunOnce(); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	case engine.StepBusy:
		return nil, false, ErrBusy
	case engine.StepInterrupt:
		return nil, false, ErrInterrupted
	default:
		return nil, false, fmt.Errorf("rowstream: engine reported unknown step result %d", res)
	}
}

// readRow materializes the engine's current row while the handle lock is
// held. Values are deep-copied so the Row outlives the engine's read cursor.
func readRow(stmt engine.Statement) *Row {
	native := stmt.Row()
	values := make([]Value, len(native))
	for i, v := range native {
		values[i] = fromEngine(v)
	}
	names := make([]string, stmt.ColumnCount())
	for i := range names {
		names[i] = stmt.ColumnName(i)
	}
	return &Row{values: values, names: names}
}
