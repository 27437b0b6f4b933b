// Package tostring renders rowstream values as display strings while keeping
// track of NULL-ness, for codecs that serialize rows into textual table
// formats.
package tostring

import (
	"encoding/hex"
	"strconv"

	"github.com/go-row-stream/rowstream"
)

// String is a rendered value along with a flag indicating whether it was
// NULL. If IsNULL is true the codec decides how to represent the absence
// (empty cell, placeholder, styled marker).
type String struct {
	String string
	IsNULL bool
}

// ToString renders a value by kind: integers in base 10, reals in their
// shortest round-tripping form, text verbatim, blobs hex-encoded.
func ToString(v rowstream.Value) String {
	switch v.Kind() {
	case rowstream.KindNull:
		return String{"", true}
	case rowstream.KindInteger:
		return String{strconv.FormatInt(v.Int64(), 10), false}
	case rowstream.KindReal:
		return String{strconv.FormatFloat(v.Float64(), 'g', -1, 64), false}
	case rowstream.KindText:
		return String{v.Text(), false}
	case rowstream.KindBlob:
		return String{hex.EncodeToString(v.Blob()), false}
	}
	return String{"", true}
}
