package engine

// ValueKind discriminates the engine-native value representations.
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

// Value is an engine-native tagged value. The zero Value is Null. Accessors
// are exact-kind: asking an Integer for its Float64 returns the zero value,
// coercion lives above this boundary.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
	b    []byte
}

func Null() Value                { return Value{kind: KindNull} }
func Integer(i int64) Value      { return Value{kind: KindInteger, i: i} }
func Real(f float64) Value       { return Value{kind: KindReal, f: f} }
func Text(s string) Value        { return Value{kind: KindText, s: s} }
func Blob(b []byte) Value        { return Value{kind: KindBlob, b: b} }
func (v Value) Kind() ValueKind  { return v.kind }
func (v Value) Int64() int64     { return v.i }
func (v Value) Float64() float64 { return v.f }
func (v Value) Text() string     { return v.s }

// Blob returns the blob payload without copying. Callers that outlive the
// engine's read cursor must copy it themselves (rowstream does).
func (v Value) Blob() []byte { return v.b }
