// Package engine defines the boundary contract between rowstream and a
// cooperative-stepping query execution engine. The engine advances a prepared
// statement one logical step at a time; each step either produces a row,
// finishes execution, asks for IO to be serviced before progress is possible,
// or reports contention/interruption. rowstream consumes this contract, it
// never implements the engine itself.
package engine

// StepResult is what one call to Statement.Step reported.
type StepResult int

const (
	// StepRow means the statement produced a row; it can be read with
	// Statement.Row until the next call to Step.
	StepRow StepResult = iota
	// StepDone means execution finished and no more rows will be produced.
	StepDone
	// StepIO means the statement cannot progress until one unit of pending
	// IO is serviced with Statement.RunOnce. Step must be safe to call again
	// once that happened.
	StepIO
	// StepBusy means the underlying resource is locked by someone else.
	StepBusy
	// StepInterrupt means execution was interrupted.
	StepInterrupt
)

func (r StepResult) String() string {
	switch r {
	case StepRow:
		return "row"
	case StepDone:
		return "done"
	case StepIO:
		return "io"
	case StepBusy:
		return "busy"
	case StepInterrupt:
		return "interrupt"
	}
	return "unknown"
}

// Statement is one prepared statement mid-execution. Implementations are not
// required to be safe for concurrent use; rowstream serializes every call
// through its own handle lock.
type Statement interface {
	// Step advances execution by exactly one logical step. The engine may
	// retain wake and invoke it (from any goroutine) when work it reported
	// as pending has completed, so that a suspended caller retries.
	Step(wake func()) (StepResult, error)

	// RunOnce makes one unit of forward progress on pending IO. It is only
	// meaningful after Step returned StepIO.
	RunOnce() error

	// Row returns the values of the current row. Valid only immediately
	// after Step returned StepRow; the returned slice may alias engine
	// internals and must not be retained across the next Step.
	Row() []Value

	// ColumnCount and ColumnName describe the statement's result columns.
	// They are static for a given execution.
	ColumnCount() int
	ColumnName(i int) string
}
