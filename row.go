package rowstream

import "fmt"

// Row is an immutable, fully materialized snapshot of one produced row. It
// stays valid after the statement has advanced further.
type Row struct {
	values []Value
	names  []string
}

// RowFromValues builds a Row for value-only contexts. Rows built this way
// carry no column names: positional addressing works as usual, name-based
// addressing fails with ErrColumnName.
func RowFromValues(values ...Value) *Row {
	vals := make([]Value, len(values))
	copy(vals, values)
	return &Row{values: vals}
}

// RowIndex addresses a column either by zero-based position (Index) or by
// name (Name). The set of implementations is closed.
type RowIndex interface {
	resolve(r *Row) (int, error)
}

// Index addresses a column by zero-based position.
type Index int

func (i Index) resolve(r *Row) (int, error) {
	if i < 0 || int(i) >= r.ColumnCount() {
		return 0, fmt.Errorf("%w: %d of %d", ErrColumnRange, int(i), r.ColumnCount())
	}
	return int(i), nil
}

// Name addresses a column by name. The first matching name wins when the
// result set contains duplicates.
type Name string

func (n Name) resolve(r *Row) (int, error) {
	return r.ColumnIndex(string(n))
}

// Value returns the value at idx.
func (r *Row) Value(idx RowIndex) (Value, error) {
	i, err := idx.resolve(r)
	if err != nil {
		return Value{}, err
	}
	return r.values[i], nil
}

// Get resolves idx and converts the value found there to T.
func Get[T any](r *Row, idx RowIndex) (T, error) {
	v, err := r.Value(idx)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](v)
}

// ColumnCount returns the number of values in the row.
func (r *Row) ColumnCount() int { return len(r.values) }

// ColumnIndex returns the position of the first column named name. The
// position is re-checked against ColumnCount so a malformed name list fails
// closed with ErrColumnRange instead of panicking later.
func (r *Row) ColumnIndex(name string) (int, error) {
	for i, n := range r.names {
		if n == name {
			if i >= r.ColumnCount() {
				return 0, fmt.Errorf("%w: %d of %d", ErrColumnRange, i, r.ColumnCount())
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrColumnName, name)
}

// Columns returns a copy of the column name list. It is empty for rows built
// with RowFromValues.
func (r *Row) Columns() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
