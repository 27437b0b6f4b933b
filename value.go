package rowstream

import (
	"fmt"

	"github.com/go-row-stream/rowstream/engine"
)

// ValueKind discriminates the kinds a column value can hold.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	}
	return "unknown"
}

// Value is one decoded column value. It is immutable, owns its payload
// (blob bytes are copied out of the engine when the Row is built) and stays
// valid after the statement has advanced further.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    []byte
}

func Null() Value           { return Value{kind: KindNull} }
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }
func Real(f float64) Value  { return Value{kind: KindReal, f: f} }
func Text(s string) Value   { return Value{kind: KindText, s: s} }

// Blob copies b into the new Value.
func Blob(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBlob, b: cp}
}

// fromEngine deep-copies an engine-native value so the result does not alias
// engine-internal buffers.
func fromEngine(v engine.Value) Value {
	switch v.Kind() {
	case engine.KindInteger:
		return Integer(v.Int64())
	case engine.KindReal:
		return Real(v.Float64())
	case engine.KindText:
		return Text(v.Text())
	case engine.KindBlob:
		return Blob(v.Blob())
	default:
		return Null()
	}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

// Exact-kind accessors. Asking for the wrong kind returns the zero value;
// use As for checked conversion.
func (v Value) Int64() int64     { return v.i }
func (v Value) Float64() float64 { return v.f }
func (v Value) Text() string     { return v.s }

// Blob returns a copy of the payload so the Value stays immutable.
func (v Value) Blob() []byte {
	if v.b == nil {
		return nil
	}
	cp := make([]byte, len(v.b))
	copy(cp, v.b)
	return cp
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindReal:
		return fmt.Sprintf("%g", v.f)
	case KindText:
		return v.s
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.b)
	}
	return "unknown"
}

// As converts a Value to the Go type T. It is the only coercion path: the
// stored kind must match the requested type exactly (Integer for int64/int,
// Real for float64, Text for string, Blob for []byte), otherwise it fails
// with ErrConversion. It never truncates or defaults.
func As[T any](v Value) (T, error) {
	var zero T
	switch out := any(&zero).(type) {
	case *int64:
		if v.kind != KindInteger {
			return zero, conversionError(v.kind, "int64")
		}
		*out = v.i
	case *int:
		if v.kind != KindInteger {
			return zero, conversionError(v.kind, "int")
		}
		*out = int(v.i)
	case *float64:
		if v.kind != KindReal {
			return zero, conversionError(v.kind, "float64")
		}
		*out = v.f
	case *string:
		if v.kind != KindText {
			return zero, conversionError(v.kind, "string")
		}
		*out = v.s
	case *[]byte:
		if v.kind != KindBlob {
			return zero, conversionError(v.kind, "[]byte")
		}
		*out = v.Blob()
	case *Value:
		*out = v
	default:
		return zero, fmt.Errorf("%w: unsupported target type %T", ErrConversion, zero)
	}
	return zero, nil
}

func conversionError(from ValueKind, to string) error {
	return fmt.Errorf("%w: %s as %s", ErrConversion, from, to)
}
