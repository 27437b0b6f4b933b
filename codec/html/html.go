// Package htmlcodec writes a result stream as an HTML table.
package htmlcodec

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-row-stream/rowstream"
	"github.com/go-row-stream/rowstream/tostring"
)

type htmlCodec struct {
	formatters       map[rowstream.ValueKind]func(rowstream.Value) tostring.String
	preProcessorFunc func(row []string) ([]string, bool)
	writeHeader      bool
	nullValue        string
}

type Option func(*htmlCodec)

func New(opts ...Option) *htmlCodec {
	cw := &htmlCodec{
		formatters:  make(map[rowstream.ValueKind]func(rowstream.Value) tostring.String),
		writeHeader: true,
		nullValue:   `<span style="color:#aaaaaa;">[NULL]</span>`,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// WithFormatter overrides how values of one kind are rendered.
func WithFormatter(kind rowstream.ValueKind, fn func(rowstream.Value) tostring.String) Option {
	return func(cw *htmlCodec) {
		cw.formatters[kind] = fn
	}
}

func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *htmlCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithHeader(writeHeader bool) Option {
	return func(cw *htmlCodec) {
		cw.writeHeader = writeHeader
	}
}

// WithCustomNULL sets the raw HTML emitted for NULL values.
func WithCustomNULL(nullValue string) Option {
	return func(cw *htmlCodec) {
		cw.nullValue = nullValue
	}
}

func (cw *htmlCodec) Write(ctx context.Context, rows *rowstream.Rows, writer io.Writer) error {
	var b strings.Builder
	b.WriteString("<table>\n")
	headerWritten := false
	for {
		r, err := rows.Next(ctx)
		if err != nil {
			return err
		}
		if r == nil {
			break
		}
		if !headerWritten && cw.writeHeader {
			b.WriteString("<tr>")
			for _, name := range r.Columns() {
				fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(name))
			}
			b.WriteString("</tr>\n")
			headerWritten = true
		}
		row := make([]string, r.ColumnCount())
		for i := range row {
			v, err := r.Value(rowstream.Index(i))
			if err != nil {
				return err
			}
			row[i] = cw.render(v)
		}
		writeRow := true
		if cw.preProcessorFunc != nil {
			row, writeRow = cw.preProcessorFunc(row)
		}
		if !writeRow {
			continue
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
	_, err := io.WriteString(writer, b.String())
	return err
}

// render escapes real values and passes the NULL placeholder through as raw
// HTML, so a styled marker stays styled.
func (cw *htmlCodec) render(v rowstream.Value) string {
	if fn, ok := cw.formatters[v.Kind()]; ok {
		s := fn(v)
		if s.IsNULL {
			return cw.nullValue
		}
		return html.EscapeString(s.String)
	}
	s := tostring.ToString(v)
	if s.IsNULL {
		return cw.nullValue
	}
	return html.EscapeString(s.String)
}
