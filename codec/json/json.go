// Package jsoncodec writes a result stream as a JSON array of objects, or as
// newline-delimited JSON, one object per row keyed by column name.
package jsoncodec

import (
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-row-stream/rowstream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Option func(*jsonCodec)

type jsonCodec struct {
	formatters       map[rowstream.ValueKind]func(rowstream.Value) any
	preProcessorFunc func(rowID int, row map[string]any) (map[string]any, bool)
	newlineDelimited bool
	limit            int
}

func New(opts ...Option) *jsonCodec {
	c := &jsonCodec{
		formatters: make(map[rowstream.ValueKind]func(rowstream.Value) any),
		limit:      -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPreProcessorFunc sets a function that may rewrite or drop each row
// object before it is written.
func WithPreProcessorFunc(fn func(rowID int, row map[string]any) (map[string]any, bool)) Option {
	return func(c *jsonCodec) {
		c.preProcessorFunc = fn
	}
}

// WithNewlineDelimited switches output from a JSON array to one object per
// line.
func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(c *jsonCodec) {
		c.newlineDelimited = isNewlineDelimited
	}
}

// WithFormatter overrides how values of one kind are represented in the
// output. The returned value is marshaled as-is.
func WithFormatter(kind rowstream.ValueKind, fn func(rowstream.Value) any) Option {
	return func(c *jsonCodec) {
		c.formatters[kind] = fn
	}
}

// WithLimit caps the number of rows written. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(c *jsonCodec) {
		c.limit = limit
	}
}

func (c *jsonCodec) Write(ctx context.Context, rows *rowstream.Rows, writer io.Writer) error {
	if c.limit == 0 {
		return nil
	}
	rowID := 1
	defer func() {
		if !c.newlineDelimited && rowID != 1 {
			writer.Write([]byte("\n]\n"))
		}
	}()
	for {
		r, err := rows.Next(ctx)
		if err != nil {
			return err
		}
		if r == nil {
			return nil
		}
		names := columnNames(r)
		row := make(map[string]any, r.ColumnCount())
		for i, name := range names {
			v, err := r.Value(rowstream.Index(i))
			if err != nil {
				return err
			}
			row[name] = c.represent(v)
		}

		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID, row)
		}
		if !writeRow {
			continue
		}

		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if !c.newlineDelimited {
			if rowID == 1 {
				writer.Write([]byte("["))
			} else {
				writer.Write([]byte(","))
			}
			writer.Write([]byte("\n"))
			writer.Write(data)
		} else {
			writer.Write(data)
			writer.Write([]byte("\n"))
		}
		if c.limit >= 0 && rowID >= c.limit {
			return nil
		}
		rowID++
	}
}

// represent maps a value to what jsoniter should marshal for it. Blobs come
// out base64-encoded, matching encoding/json's []byte behavior.
func (c *jsonCodec) represent(v rowstream.Value) any {
	if fn, ok := c.formatters[v.Kind()]; ok {
		return fn(v)
	}
	switch v.Kind() {
	case rowstream.KindInteger:
		return v.Int64()
	case rowstream.KindReal:
		return v.Float64()
	case rowstream.KindText:
		return v.Text()
	case rowstream.KindBlob:
		return v.Blob()
	default:
		return nil
	}
}

// columnNames falls back to positional names for rows built without a name
// list.
func columnNames(r *rowstream.Row) []string {
	names := r.Columns()
	if len(names) == r.ColumnCount() {
		return names
	}
	names = make([]string, r.ColumnCount())
	for i := range names {
		names[i] = fmt.Sprintf("column_%d", i)
	}
	return names
}
