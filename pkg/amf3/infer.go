package amf3

import (
	"math"
	"sort"
	"time"
)

// infer maps a host Go value to an AMF3 Value per spec §4.3. Values that
// already implement Value pass through unchanged — this is how callers hand
// the encoder anything the inference rules below can't reach on their own,
// such as Object, the Vector kinds, or Dictionary.
func infer(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case ForcedType:
		return inferForced(x.Value, x.Wire)
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []byte:
		return &ByteArray{Bytes: append([]byte(nil), x...)}, nil
	case time.Time:
		return &Date{Millis: millis(x)}, nil
	case []interface{}:
		out := make([]Value, len(x))
		for i, el := range x {
			iv, err := infer(el)
			if err != nil {
				return nil, err
			}
			out[i] = iv
		}
		return &DenseArray{Elements: out}, nil
	case map[string]interface{}:
		return inferMap(x)
	}

	if n, ok := asNumber(v); ok {
		return inferNumber(n), nil
	}

	return nil, ErrUnsupportedValue
}

// inferMap builds an AssocArray from a host map, sorting keys for a
// deterministic encoding since Go map iteration order is randomized and the
// wire format otherwise has no notion of a canonical order for this input
// shape.
func inferMap(m map[string]interface{}) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Fields, 0, len(keys))
	for _, k := range keys {
		fv, err := infer(m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: k, Value: fv})
	}
	return &AssocArray{Fields: out}, nil
}

// asNumber extracts a float64 from any Go numeric kind infer() accepts.
func asNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// inferNumber implements spec §4.3 rule 6: finite, integral values within
// the 29-bit signed range become Integer; everything else becomes Double.
func inferNumber(n float64) Value {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return Double(n)
	}
	if n == math.Trunc(n) && n >= int28Min && n <= int28Max {
		return Integer(int32(n))
	}
	return Double(n)
}

// inferForced builds a value of wire's type directly for the primitive and
// date tags. For the composite tags it re-runs inference (so their elements
// are inferred too) and accepts the result only if inference already
// produced wire's type; it does not convert between composite kinds.
// Coverage matches the referencable wire types this decoder can round-trip
// (see SPEC_FULL.md §12 "ForcedType coverage gap").
func inferForced(v interface{}, wire Tag) (Value, error) {
	switch wire {
	case TagUndefined:
		return Undefined{}, nil
	case TagNull:
		return Null{}, nil
	case TagFalse:
		return Bool(false), nil
	case TagTrue:
		return Bool(true), nil
	case TagInteger:
		n, ok := asNumber(v)
		if !ok {
			return nil, ErrUnsupportedValue
		}
		return Integer(int32(n)), nil
	case TagDouble:
		n, ok := asNumber(v)
		if !ok {
			return nil, ErrUnsupportedValue
		}
		return Double(n), nil
	case TagString:
		s, ok := v.(string)
		if !ok {
			return nil, ErrUnsupportedValue
		}
		return String(s), nil
	case TagDate:
		switch x := v.(type) {
		case time.Time:
			return &Date{Millis: millis(x)}, nil
		default:
			n, ok := asNumber(v)
			if !ok {
				return nil, ErrUnsupportedValue
			}
			return &Date{Millis: n}, nil
		}
	case TagArray, TagObject, TagByteArray, TagVectorInt, TagVectorUInt,
		TagVectorDouble, TagVectorObject, TagDictionary:
		iv, err := infer(v)
		if err != nil {
			return nil, err
		}
		if iv.Tag() != wire {
			return nil, ErrUnsupportedValue
		}
		return iv, nil
	default:
		return nil, ErrUnsupportedType
	}
}

func millis(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e6
}
