package logrecord

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Capture packs one value per field into the record's raw container bytes,
// the way the generated capture function fills its struct from va_args.
// Integer values must fit the field; %f fields accept any numeric value.
func (r *Record) Capture(args ...any) ([]byte, error) {
	if len(args) != len(r.Layout.Fields) {
		return nil, errors.Newf("log point %s takes %d arguments, got %d",
			r.Name, len(r.Layout.Fields), len(args))
	}

	raw := make([]byte, r.Layout.Size)
	for i, f := range r.Layout.Fields {
		dst := raw[f.Offset : f.Offset+f.Size]
		switch {
		case f.Type == Double:
			v, ok := toFloat(args[i])
			if !ok {
				return nil, errors.Newf("log point %s: %s: cannot use %T as double", r.Name, f.Name, args[i])
			}
			r.abi.ByteOrder.PutUint64(dst, math.Float64bits(v))

		case f.Type.Signed():
			v, ok := toInt(args[i])
			if !ok {
				return nil, errors.Newf("log point %s: %s: cannot use %T as %s", r.Name, f.Name, args[i], f.Type)
			}
			lo, hi := int64(math.MinInt32), int64(math.MaxInt32)
			if f.Size == 8 {
				lo, hi = math.MinInt64, math.MaxInt64
			}
			if v < lo || v > hi {
				return nil, errors.Newf("log point %s: %s: %d overflows %s", r.Name, f.Name, v, f.Type)
			}
			r.putUint(dst, uint64(v))

		default:
			v, ok := toUint(args[i])
			if !ok {
				return nil, errors.Newf("log point %s: %s: cannot use %v (%T) as %s", r.Name, f.Name, args[i], args[i], f.Type)
			}
			if f.Size == 4 && v > math.MaxUint32 {
				return nil, errors.Newf("log point %s: %s: %d overflows %s", r.Name, f.Name, v, f.Type)
			}
			r.putUint(dst, v)
		}
	}
	return raw, nil
}

func (r *Record) putUint(dst []byte, v uint64) {
	if len(dst) == 8 {
		r.abi.ByteOrder.PutUint64(dst, v)
		return
	}
	r.abi.ByteOrder.PutUint32(dst, uint32(v))
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}

func toUint(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	default:
		i, ok := toInt(v)
		if !ok || i < 0 {
			return 0, false
		}
		return uint64(i), true
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		if i, ok := toInt(v); ok {
			return float64(i), true
		}
		if u, ok := toUint(v); ok {
			return float64(u), true
		}
		return 0, false
	}
}
