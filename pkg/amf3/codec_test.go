package amf3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v interface{}) Value {
	enc := NewEncoder()
	require.NoError(t, enc.Encode(v))
	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, 0, dec.Remaining())
	return out
}

func TestPrimitiveRoundTrip(t *testing.T) {
	require.Equal(t, Null{}, roundTrip(t, nil))
	require.Equal(t, Bool(true), roundTrip(t, true))
	require.Equal(t, Bool(false), roundTrip(t, false))
	require.Equal(t, Integer(42), roundTrip(t, 42))
	require.Equal(t, Integer(int28Min), roundTrip(t, int28Min))
	require.Equal(t, Integer(int28Max), roundTrip(t, int28Max))
	require.Equal(t, Double(1.5), roundTrip(t, 1.5))
	require.Equal(t, Double(float64(int28Max)+1), roundTrip(t, float64(int28Max)+1))
	require.Equal(t, String("hello"), roundTrip(t, "hello"))
	require.Equal(t, String(""), roundTrip(t, ""))
}

func TestDateRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	out := roundTrip(t, now)
	d, ok := out.(*Date)
	require.True(t, ok)
	require.Equal(t, millis(now), d.Millis)
}

func TestByteArrayRoundTrip(t *testing.T) {
	out := roundTrip(t, []byte{1, 2, 3, 4})
	b, ok := out.(*ByteArray)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4}, b.Bytes)
}

func TestDenseArrayRoundTrip(t *testing.T) {
	out := roundTrip(t, []interface{}{1, "two", 3.5, nil})
	arr, ok := out.(*DenseArray)
	require.True(t, ok)
	require.Len(t, arr.Elements, 4)
	require.Equal(t, Integer(1), arr.Elements[0])
	require.Equal(t, String("two"), arr.Elements[1])
	require.Equal(t, Double(3.5), arr.Elements[2])
	require.Equal(t, Null{}, arr.Elements[3])
}

func TestAssocArrayRoundTrip(t *testing.T) {
	out := roundTrip(t, map[string]interface{}{"b": 2, "a": 1})
	assoc, ok := out.(*AssocArray)
	require.True(t, ok)
	require.Len(t, assoc.Fields, 2)
	require.Equal(t, "a", assoc.Fields[0].Name)
	require.Equal(t, "b", assoc.Fields[1].Name)
}

func TestStringReferenceSharing(t *testing.T) {
	enc := NewEncoder()
	arr := &DenseArray{Elements: []Value{String("repeat"), String("repeat"), String("repeat")}}
	require.NoError(t, enc.Encode(arr))
	require.Len(t, enc.stringRefs, 1)

	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	got := out.(*DenseArray)
	require.Equal(t, String("repeat"), got.Elements[0])
	require.Equal(t, String("repeat"), got.Elements[1])
	require.Equal(t, String("repeat"), got.Elements[2])
}

func TestEmptyStringNeverReferenced(t *testing.T) {
	enc := NewEncoder()
	arr := &DenseArray{Elements: []Value{String(""), String("")}}
	require.NoError(t, enc.Encode(arr))
	// Both empty strings take the 2-byte inline form; neither costs a
	// reference byte, so the output is exactly tag + header + empty
	// associative terminator + 2*(tag+header) = 7 bytes.
	require.Len(t, enc.Bytes(), 7)
	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	got := out.(*DenseArray)
	require.Equal(t, String(""), got.Elements[0])
	require.Equal(t, String(""), got.Elements[1])
}

func TestObjectReferenceSharing(t *testing.T) {
	inner := &Object{Dynamic: true, DynamicFields: Fields{{Name: "x", Value: Integer(1)}}}
	outer := &DenseArray{Elements: []Value{inner, inner}}

	enc := NewEncoder()
	require.NoError(t, enc.Encode(outer))
	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	got := out.(*DenseArray)
	require.Same(t, got.Elements[0].(*Object), got.Elements[1].(*Object))
}

func TestTraitReferenceSharing(t *testing.T) {
	a := &Object{ClassName: "Point", StaticFields: Fields{{Name: "x", Value: Integer(1)}, {Name: "y", Value: Integer(2)}}}
	b := &Object{ClassName: "Point", StaticFields: Fields{{Name: "x", Value: Integer(3)}, {Name: "y", Value: Integer(4)}}}

	enc := NewEncoder()
	require.NoError(t, enc.Encode(&DenseArray{Elements: []Value{a, b}}))
	require.Len(t, enc.traitRefs, 1)

	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	got := out.(*DenseArray)
	oa := got.Elements[0].(*Object)
	ob := got.Elements[1].(*Object)
	require.Equal(t, Integer(1), oa.StaticFields[0].Value)
	require.Equal(t, Integer(3), ob.StaticFields[0].Value)
}

func TestCyclicObjectRoundTrip(t *testing.T) {
	o := &Object{Dynamic: true}
	o.DynamicFields = Fields{{Name: "self", Value: o}}

	enc := NewEncoder()
	require.NoError(t, enc.Encode(o))
	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)

	decoded := out.(*Object)
	self, ok := decoded.DynamicFields.Get("self")
	require.True(t, ok)
	require.Same(t, decoded, self.(*Object))
}

func TestDunderFieldsExcludedOnEncode(t *testing.T) {
	o := &Object{Dynamic: true, DynamicFields: Fields{
		{Name: "__hidden", Value: Integer(1)},
		{Name: "visible", Value: Integer(2)},
	}}
	enc := NewEncoder()
	require.NoError(t, enc.Encode(o))
	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	decoded := out.(*Object)
	require.Len(t, decoded.DynamicFields, 1)
	require.Equal(t, "visible", decoded.DynamicFields[0].Name)
}

func TestForcedTypeOverridesInference(t *testing.T) {
	out := roundTrip(t, ForcedType{Value: 7, Wire: TagDouble})
	require.Equal(t, Double(7), out)
}

func TestVectorIntRoundTrip(t *testing.T) {
	v := &VectorInt{Values: []int32{1, -2, 3}, Fixed: true}
	out := roundTrip(t, v)
	got := out.(*VectorInt)
	require.Equal(t, []int32{1, -2, 3}, got.Values)
	require.True(t, got.Fixed)
}

func TestDictionaryRoundTrip(t *testing.T) {
	d := &Dictionary{Entries: []DictEntry{
		{Key: String("a"), Value: Integer(1)},
		{Key: Integer(9), Value: String("nine")},
	}}
	out := roundTrip(t, d)
	got := out.(*Dictionary)
	require.Len(t, got.Entries, 2)
	m := got.Map()
	require.Equal(t, Integer(1), m["a"])
	require.Equal(t, String("nine"), m["9"])
}

func TestExternalizableRoundTrip(t *testing.T) {
	const className = "test.Point"
	Register(className, func(dec *Decoder) (Value, error) {
		x, err := dec.Decode()
		if err != nil {
			return nil, err
		}
		y, err := dec.Decode()
		if err != nil {
			return nil, err
		}
		return &Object{
			ClassName:      className,
			Externalizable: true,
			StaticFields:   Fields{{Name: "x", Value: x}, {Name: "y", Value: y}},
		}, nil
	})

	o := &Object{
		ClassName:      className,
		Externalizable: true,
		Write: func(enc *Encoder) error {
			if err := enc.Encode(Integer(3)); err != nil {
				return err
			}
			return enc.Encode(Integer(4))
		},
	}

	enc := NewEncoder()
	require.NoError(t, enc.Encode(o))
	dec := NewDecoder(enc.Bytes())
	out, err := dec.Decode()
	require.NoError(t, err)
	got := out.(*Object)
	require.Equal(t, Integer(3), got.StaticFields[0].Value)
	require.Equal(t, Integer(4), got.StaticFields[1].Value)
}

// TestTypedObjectNeverEmitsDynamicFields pins the asymmetry spec §9
// "Dynamic fields after static" and SPEC_FULL.md §12 document as binding:
// a typed (named-class) object's dynamic fields are silently dropped on
// encode, even when Dynamic is set and DynamicFields is populated. Only
// the anonymous object path can carry dynamic fields on the wire.
func TestTypedObjectNeverEmitsDynamicFields(t *testing.T) {
	o := &Object{
		ClassName:     "Point",
		Dynamic:       true,
		StaticFields:  Fields{{Name: "x", Value: Integer(1)}},
		DynamicFields: Fields{{Name: "extra", Value: Integer(2)}},
	}
	out := roundTrip(t, o)
	got := out.(*Object)
	require.Equal(t, "Point", got.ClassName)
	require.False(t, got.Dynamic)
	require.Equal(t, Fields{{Name: "x", Value: Integer(1)}}, got.StaticFields)
	require.Empty(t, got.DynamicFields)
}

func TestUnregisteredExternalizableFails(t *testing.T) {
	o := &Object{
		ClassName:      "not.Registered",
		Externalizable: true,
		Write:          func(enc *Encoder) error { return enc.Encode(Integer(1)) },
	}
	enc := NewEncoder()
	require.NoError(t, enc.Encode(o))
	dec := NewDecoder(enc.Bytes())
	_, err := dec.Decode()
	require.ErrorIs(t, err, ErrUnregisteredExternalizable)
}
