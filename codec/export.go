package codec

import (
	"context"
	"io"
	"os"

	"github.com/go-row-stream/rowstream"
)

// Exporter pairs a result stream with a codec.
type Exporter struct {
	rows  *rowstream.Rows
	codec Codec
}

func NewExporter(rows *rowstream.Rows, codec Codec) *Exporter {
	return &Exporter{
		rows:  rows,
		codec: codec,
	}
}

// Write drains the stream through the codec into writer.
func (e *Exporter) Write(ctx context.Context, writer io.Writer) error {
	return e.codec.Write(ctx, e.rows, writer)
}

// WriteFile drains the stream into a freshly created file.
func (e *Exporter) WriteFile(ctx context.Context, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := e.Write(ctx, f); err != nil {
		return err
	}
	return f.Close()
}
