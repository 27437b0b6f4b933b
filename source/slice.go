// Package source adapts external data sources to the engine.Statement
// stepping contract, so they can be streamed through rowstream. Adapters
// exist for in-memory slices, database/sql result sets, Hive cursors and
// Redis key scans.
package source

import (
	"fmt"

	"github.com/go-row-stream/rowstream/engine"
)

// sliceStatement steps over a slice of rows held in memory. Useful for tests
// and small fixed data sets. It never reports pending IO.
type sliceStatement struct {
	columns []string
	rows    [][]any
	cursor  int
	current []engine.Value
}

// FromData builds a statement from a 2D slice; each inner slice is one row.
// When columns is nil, names are inferred as column_0..column_N from the
// first row. Rows whose length differs from the first row's fail the step
// that reaches them.
func FromData(columns []string, rows [][]any) engine.Statement {
	if columns == nil && len(rows) > 0 {
		columns = make([]string, len(rows[0]))
		for i := range columns {
			columns[i] = fmt.Sprintf("column_%d", i)
		}
	}
	return &sliceStatement{columns: columns, rows: rows}
}

func (s *sliceStatement) Step(func()) (engine.StepResult, error) {
	if s.cursor >= len(s.rows) {
		return engine.StepDone, nil
	}
	row := s.rows[s.cursor]
	if len(row) != len(s.columns) {
		return engine.StepDone, fmt.Errorf("source: length of row %d != length of the first row: %d != %d",
			s.cursor+1, len(row), len(s.columns))
	}
	values, err := toValues(row)
	if err != nil {
		return engine.StepDone, err
	}
	s.current = values
	s.cursor++
	return engine.StepRow, nil
}

func (s *sliceStatement) RunOnce() error { return nil }

func (s *sliceStatement) Row() []engine.Value { return s.current }

func (s *sliceStatement) ColumnCount() int { return len(s.columns) }

func (s *sliceStatement) ColumnName(i int) string { return s.columns[i] }
