package source

import (
	"database/sql"

	"github.com/go-row-stream/rowstream/engine"
)

// sqlStatement adapts a *sql.Rows to the stepping contract. database/sql
// drivers block inside Next/Scan, so this source never reports pending IO;
// each step either produces a row or finishes.
type sqlStatement struct {
	rows *sql.Rows

	columns        []string
	current        []engine.Value
	currentRow     []any
	currentRowPtrs []any
}

// FromSQL wraps an already-executed database/sql result set.
func FromSQL(rows *sql.Rows) (engine.Statement, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return &sqlStatement{rows: rows, columns: columns}, nil
}

func (s *sqlStatement) Step(func()) (engine.StepResult, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return engine.StepDone, err
		}
		return engine.StepDone, nil
	}
	values, err := s.scanRow()
	if err != nil {
		return engine.StepDone, err
	}
	s.current = values
	return engine.StepRow, nil
}

// scanRow reads the current row through pointer indirection into a reused
// []any, then converts to engine values.
func (s *sqlStatement) scanRow() ([]engine.Value, error) {
	if s.currentRow == nil {
		s.currentRow = make([]any, len(s.columns))
		s.currentRowPtrs = make([]any, len(s.columns))
	}
	for i := range s.columns {
		s.currentRowPtrs[i] = &s.currentRow[i]
	}
	if err := s.rows.Scan(s.currentRowPtrs...); err != nil {
		return nil, err
	}
	return toValues(s.currentRow)
}

func (s *sqlStatement) RunOnce() error { return nil }

func (s *sqlStatement) Row() []engine.Value { return s.current }

func (s *sqlStatement) ColumnCount() int { return len(s.columns) }

func (s *sqlStatement) ColumnName(i int) string { return s.columns[i] }
