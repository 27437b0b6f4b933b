package source

import (
	"context"
	"strings"

	"github.com/beltran/gohive"

	"github.com/go-row-stream/rowstream/engine"
)

// hiveStatement adapts a gohive cursor to the stepping contract. The cursor
// API blocks inside HasMore/FetchOne, so this source never reports pending
// IO.
type hiveStatement struct {
	cursor *gohive.Cursor
	ctx    context.Context

	columns        []string
	current        []engine.Value
	currentRow     []any
	currentRowPtrs []any
}

// FromHive wraps an already-executed Hive cursor. Column names are taken
// from the cursor description with the table qualifier stripped, the way
// Hive reports them ("t.col" becomes "col").
func FromHive(ctx context.Context, cursor *gohive.Cursor) engine.Statement {
	var columns []string
	for _, c := range cursor.Description() {
		if len(c) == 0 {
			continue
		}
		name := c[0]
		if _, short, ok := strings.Cut(name, "."); ok {
			name = short
		}
		columns = append(columns, name)
	}
	return &hiveStatement{cursor: cursor, ctx: ctx, columns: columns}
}

func (h *hiveStatement) Step(func()) (engine.StepResult, error) {
	if !h.cursor.HasMore(h.ctx) {
		if err := h.cursor.Error(); err != nil {
			return engine.StepDone, err
		}
		return engine.StepDone, nil
	}
	if h.currentRow == nil {
		h.currentRow = make([]any, len(h.columns))
		h.currentRowPtrs = make([]any, len(h.columns))
	}
	for i := range h.columns {
		h.currentRowPtrs[i] = &h.currentRow[i]
	}
	h.cursor.FetchOne(h.ctx, h.currentRowPtrs...)
	if h.cursor.Err != nil {
		return engine.StepDone, h.cursor.Err
	}
	values, err := toValues(h.currentRow)
	if err != nil {
		return engine.StepDone, err
	}
	h.current = values
	return engine.StepRow, nil
}

func (h *hiveStatement) RunOnce() error { return nil }

func (h *hiveStatement) Row() []engine.Value { return h.current }

func (h *hiveStatement) ColumnCount() int { return len(h.columns) }

func (h *hiveStatement) ColumnName(i int) string { return h.columns[i] }
