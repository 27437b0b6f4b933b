// Package codec serializes rowstream result streams into textual formats.
// Codecs drain the stream through its public surface only; they apply no
// buffering beyond the row in hand.
package codec

import (
	"context"
	"io"

	csvcodec "github.com/go-row-stream/rowstream/codec/csv"
	htmlcodec "github.com/go-row-stream/rowstream/codec/html"
	jsoncodec "github.com/go-row-stream/rowstream/codec/json"

	"github.com/go-row-stream/rowstream"
)

// Codec writes every remaining row of the stream to writer.
type Codec interface {
	Write(ctx context.Context, rows *rowstream.Rows, writer io.Writer) error
}

func JSON(opts ...jsoncodec.Option) Codec {
	return jsoncodec.New(opts...)
}

func CSV(opts ...csvcodec.Option) Codec {
	return csvcodec.New(opts...)
}

func HTML(opts ...htmlcodec.Option) Codec {
	return htmlcodec.New(opts...)
}
