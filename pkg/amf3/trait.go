package amf3

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldFilter selects which fields of an object participate in
// serialization. It is consulted in addition to, not instead of, the "__"
// prefix rule: names beginning with "__" are always excluded from object
// and associative array bodies, regardless of what a filter returns
// (spec §4.2).
type FieldFilter func(name string) bool

// defaultFilter accepts every field name.
func defaultFilter(string) bool { return true }

// isHidden reports whether name is excluded by the unconditional "__"
// prefix rule.
func isHidden(name string) bool {
	return strings.HasPrefix(name, "__")
}

// filterFields applies the "__" exclusion and then f, preserving order.
func filterFields(fields Fields, f FieldFilter) Fields {
	if f == nil {
		f = defaultFilter
	}
	out := make(Fields, 0, len(fields))
	for _, field := range fields {
		if isHidden(field.Name) {
			continue
		}
		if !f(field.Name) {
			continue
		}
		out = append(out, field)
	}
	return out
}

// ForcedType wraps a host value to override type inference (spec §4.3 rule
// 3). It is transparent after inference: the underlying value is encoded
// using Wire's body grammar rather than whatever inference would otherwise
// have picked. For the primitive and date tags the value is converted; for
// the array, object, byte-array, vector and dictionary tags it is not, and
// Encode fails with ErrUnsupportedValue unless Value already infers to
// Wire's type. ForcedType is consumed only by Encoder.Encode; it never
// appears as a decoded Value.
type ForcedType struct {
	Value interface{}
	Wire  Tag
}

// stringifyKey renders a Value as a string for use as a Dictionary map key,
// per the documented (lossy) AMF3 behavior of stringifying non-string
// dictionary keys with JSON-like rendering (spec §9).
func stringifyKey(v Value) string {
	switch x := v.(type) {
	case String:
		return string(x)
	case Integer:
		return strconv.FormatInt(int64(x), 10)
	case Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(x))
	case Null:
		return "null"
	case Undefined:
		return "undefined"
	case *Date:
		return strconv.FormatFloat(x.Millis, 'g', -1, 64)
	case *ByteArray:
		return fmt.Sprintf("%x", x.Bytes)
	case *DenseArray:
		parts := make([]string, len(x.Elements))
		for i, el := range x.Elements {
			parts[i] = stringifyKey(el)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *AssocArray:
		keys := make([]string, 0, len(x.Fields))
		m := make(map[string]string, len(x.Fields))
		for _, f := range x.Fields {
			keys = append(keys, f.Name)
			m[f.Name] = stringifyKey(f.Value)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q:%s", k, m[k])
		}
		return "{" + strings.Join(parts, ",") + "}"
	case *Object:
		return fmt.Sprintf("[object %s]", x.ClassName)
	default:
		return fmt.Sprintf("%v", v)
	}
}
