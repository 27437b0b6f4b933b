package source

import (
	"fmt"
	"time"

	"github.com/go-row-stream/rowstream/engine"
)

// toValue converts a native Go value coming out of a driver into an
// engine-native value. The mapping is deliberately closed: anything outside
// it is an error, never a silent stringification.
func toValue(v any) (engine.Value, error) {
	switch v := v.(type) {
	case nil:
		return engine.Null(), nil
	case engine.Value:
		return v, nil
	case bool:
		if v {
			return engine.Integer(1), nil
		}
		return engine.Integer(0), nil
	case int:
		return engine.Integer(int64(v)), nil
	case int8:
		return engine.Integer(int64(v)), nil
	case int16:
		return engine.Integer(int64(v)), nil
	case int32:
		return engine.Integer(int64(v)), nil
	case int64:
		return engine.Integer(v), nil
	case uint:
		return engine.Integer(int64(v)), nil
	case uint8:
		return engine.Integer(int64(v)), nil
	case uint16:
		return engine.Integer(int64(v)), nil
	case uint32:
		return engine.Integer(int64(v)), nil
	case uint64:
		if v > 1<<63-1 {
			return engine.Value{}, fmt.Errorf("source: uint64 value %d overflows integer", v)
		}
		return engine.Integer(int64(v)), nil
	case float32:
		return engine.Real(float64(v)), nil
	case float64:
		return engine.Real(v), nil
	case string:
		return engine.Text(v), nil
	case []byte:
		return engine.Blob(v), nil
	case time.Time:
		return engine.Text(v.Format(time.RFC3339Nano)), nil
	}
	return engine.Value{}, fmt.Errorf("source: unsupported value type %T", v)
}

// toValues converts one row of driver values.
func toValues(row []any) ([]engine.Value, error) {
	out := make([]engine.Value, len(row))
	for i, v := range row {
		val, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}
