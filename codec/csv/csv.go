// Package csvcodec writes a result stream as CSV.
package csvcodec

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/go-row-stream/rowstream"
	"github.com/go-row-stream/rowstream/tostring"
)

type csvCodec struct {
	formatters       map[rowstream.ValueKind]func(rowstream.Value) string
	preProcessorFunc func(row []string) ([]string, bool)
	delimiter        rune
	useCRLF          bool
	writeHeader      bool
	customHeader     []string
	nullValue        string
}

type Option func(*csvCodec)

func New(opts ...Option) *csvCodec {
	cw := &csvCodec{
		formatters:  make(map[rowstream.ValueKind]func(rowstream.Value) string),
		delimiter:   ',',
		writeHeader: true,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// WithFormatter overrides how values of one kind are rendered.
func WithFormatter(kind rowstream.ValueKind, fn func(rowstream.Value) string) Option {
	return func(cw *csvCodec) {
		cw.formatters[kind] = fn
	}
}

func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *csvCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithCustomDelimiter(delimiter rune) Option {
	return func(cw *csvCodec) {
		cw.delimiter = delimiter
	}
}

func WithCRLF(useCRLF bool) Option {
	return func(cw *csvCodec) {
		cw.useCRLF = useCRLF
	}
}

func WithHeader(writeHeader bool) Option {
	return func(cw *csvCodec) {
		cw.writeHeader = writeHeader
	}
}

func WithCustomHeader(customHeader []string) Option {
	return func(cw *csvCodec) {
		cw.customHeader = customHeader
	}
}

// WithCustomNULL sets the placeholder written for NULL values.
func WithCustomNULL(nullValue string) Option {
	return func(cw *csvCodec) {
		cw.nullValue = nullValue
	}
}

func (cs *csvCodec) Write(ctx context.Context, rows *rowstream.Rows, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if cs.delimiter != 0 {
		w.Comma = cs.delimiter
	}
	w.UseCRLF = cs.useCRLF
	defer w.Flush()

	headerWritten := false
	for {
		r, err := rows.Next(ctx)
		if err != nil {
			return err
		}
		if r == nil {
			return w.Error()
		}
		if !headerWritten {
			if err := cs.writeHeaderRow(w, r); err != nil {
				return err
			}
			headerWritten = true
		}
		row := make([]string, r.ColumnCount())
		for i := range row {
			v, err := r.Value(rowstream.Index(i))
			if err != nil {
				return err
			}
			row[i] = cs.render(v)
		}
		writeRow := true
		if cs.preProcessorFunc != nil {
			row, writeRow = cs.preProcessorFunc(row)
		}
		if writeRow {
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
}

// writeHeaderRow emits the header once, from the custom header when set and
// the first row's column names otherwise.
func (cs *csvCodec) writeHeaderRow(w *csv.Writer, r *rowstream.Row) error {
	if !cs.writeHeader {
		return nil
	}
	header := r.Columns()
	if cs.customHeader != nil {
		if len(cs.customHeader) != r.ColumnCount() {
			return errors.New("csvcodec: invalid header length")
		}
		header = cs.customHeader
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	return nil
}

func (cs *csvCodec) render(v rowstream.Value) string {
	if fn, ok := cs.formatters[v.Kind()]; ok {
		return fn(v)
	}
	s := tostring.ToString(v)
	if s.IsNULL {
		return cs.nullValue
	}
	return s.String
}
