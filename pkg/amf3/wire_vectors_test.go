package amf3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// These pin the literal byte vectors from spec §8 (S1-S6) independently of
// round-trip equality, which would not catch an encoder and decoder that
// agree with each other while both diverge from the documented wire
// grammar.

func TestWireVectorS1SmallInteger(t *testing.T) {
	enc := NewEncoder()
	require.NoError(t, enc.Encode(5))
	require.Equal(t, []byte{0x04, 0x05}, enc.Bytes())

	dec := NewDecoder([]byte{0x04, 0x05})
	v, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, Integer(5), v)
}

func TestWireVectorS2Integer128(t *testing.T) {
	enc := NewEncoder()
	require.NoError(t, enc.Encode(128))
	require.Equal(t, []byte{0x04, 0x81, 0x00}, enc.Bytes())
}

func TestWireVectorS3Double(t *testing.T) {
	enc := NewEncoder()
	require.NoError(t, enc.Encode(1.5))
	require.Equal(t,
		[]byte{0x05, 0x3F, 0xF8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		enc.Bytes())
}

func TestWireVectorS4StringSharing(t *testing.T) {
	enc := NewEncoder()
	require.NoError(t, enc.Encode([]interface{}{"ab", "ab"}))
	require.Equal(t,
		[]byte{0x09, 0x05, 0x01, 0x06, 0x05, 0x61, 0x62, 0x06, 0x00},
		enc.Bytes())
}

func TestWireVectorS5AnonymousDynamicObject(t *testing.T) {
	o := &Object{Dynamic: true, DynamicFields: Fields{{Name: "x", Value: Integer(1)}}}
	enc := NewEncoder()
	require.NoError(t, enc.Encode(o))
	require.Equal(t,
		[]byte{0x0A, 0x0B, 0x01, 0x03, 0x78, 0x04, 0x01, 0x01},
		enc.Bytes())
}

func TestWireVectorS6CyclicObjectReference(t *testing.T) {
	o := &Object{Dynamic: true}
	o.DynamicFields = Fields{{Name: "self", Value: o}}

	enc := NewEncoder()
	require.NoError(t, enc.Encode(o))
	b := enc.Bytes()

	// tag(0A) trait(0B) className("") name("self") then a bare object
	// reference to index 0 (U29 0<<1 = 0x00), then the terminator.
	require.Equal(t, byte(0x0A), b[0])
	require.Equal(t, byte(0x0B), b[1])
	require.Equal(t, byte(0x01), b[2]) // empty class name
	require.Equal(t, byte(0x09), b[3]) // "self" header: len 4 <<1|1
	require.Equal(t, []byte("self"), b[4:8])
	require.Equal(t, byte(0x0A), b[8])  // nested object tag
	require.Equal(t, byte(0x00), b[9])  // reference to object index 0
	require.Equal(t, byte(0x01), b[10]) // terminator
	require.Len(t, b, 11)
}
