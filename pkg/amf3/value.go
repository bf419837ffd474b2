package amf3

// Value is the closed set of AMF3 wire values. Every case below implements
// it; the switch in Encoder.encodeValue and the dispatch table in Decoder.Decode
// are exhaustive over this set.
//
// Leaf cases (Undefined, Null, Bool, Integer, Double, String) are plain
// value types: AMF3 never shares their identity, only their content (and
// only strings get a reference table at all). Composite cases that
// participate in the object reference table — Date, ByteArray, the array
// and vector kinds, Object, and Dictionary — are pointer types, so that
// Go's native identity comparison on the Value interface (a (type,
// pointer) pair) is exactly the "compared by identity" reference-table
// semantics spec invariant 2 calls for, including cyclic self-reference.
type Value interface {
	Tag() Tag
}

// Undefined is AMF3's "undefined" value, distinct from Null.
type Undefined struct{}

func (Undefined) Tag() Tag { return TagUndefined }

// Null is AMF3's "null" value.
type Null struct{}

func (Null) Tag() Tag { return TagNull }

// Bool is an AMF3 boolean. It has no body; the tag byte alone (TagTrue or
// TagFalse) carries the value.
type Bool bool

func (b Bool) Tag() Tag {
	if b {
		return TagTrue
	}
	return TagFalse
}

// Integer is a 29-bit signed integer, valid in [-2^28, 2^28-1].
type Integer int32

func (Integer) Tag() Tag { return TagInteger }

// Double is an IEEE-754 double. Integers outside the 29-bit range and all
// non-integral numbers are represented this way.
type Double float64

func (Double) Tag() Tag { return TagDouble }

// String is a UTF-8 string. The empty string is never entered into the
// string reference table (spec invariant 5).
type String string

func (String) Tag() Tag { return TagString }

// Date holds milliseconds since the Unix epoch.
type Date struct {
	Millis float64
}

func (*Date) Tag() Tag { return TagDate }

// ByteArray is an opaque byte buffer.
type ByteArray struct {
	Bytes []byte
}

func (*ByteArray) Tag() Tag { return TagByteArray }

// Field is one ordered (name, Value) pair, used for the associative part of
// arrays and for object fields. AMF3 field names are never duplicated
// within one body, but this codec does not enforce that; on lookup via
// Fields.Get the first entry wins and later duplicates are shadowed.
type Field struct {
	Name  string
	Value Value
}

// Fields is an ordered sequence of name/Value pairs, preserving the stream
// or host insertion order that spec invariant 1 relies on for string
// sharing.
type Fields []Field

// Get returns the value of the first field named name, scanning in order.
func (fs Fields) Get(name string) (Value, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// DenseArray is a numerically indexed sequence, encoded with a zero-length
// associative part.
type DenseArray struct {
	Elements []Value
}

func (*DenseArray) Tag() Tag { return TagArray }

// AssocArray is a named-field map encoded in array form with a zero dense
// length (spec §4.4 "Associative array body"). Field order is the order
// fields were inserted by the host, or the order they were read off the
// wire on decode.
type AssocArray struct {
	Fields Fields
}

func (*AssocArray) Tag() Tag { return TagArray }

// Trait describes an object's class surface. Traits are values, not
// identities (spec invariant 3 note): two Traits with identical contents
// may still occupy distinct reference slots, because reference slots are
// assigned by stream position, not by structural equality. This encoder
// deduplicates inline traits by content (see Encoder.traitIndex) — spec §9
// "Trait identity on encode" permits this as long as decoding of a
// resulting trait reference stays correct, which it does.
type Trait struct {
	ClassName      string
	Dynamic        bool
	Externalizable bool
	StaticFields   []string
}

// traitKey makes Trait usable as a map key despite its slice field.
type traitKey struct {
	className      string
	dynamic        bool
	externalizable bool
	fields         string
}

func (t Trait) key() traitKey {
	joined := ""
	for i, f := range t.StaticFields {
		if i > 0 {
			joined += "\x00"
		}
		joined += f
	}
	return traitKey{t.ClassName, t.Dynamic, t.Externalizable, joined}
}

// ExternalWriter is supplied by the host on an Object with Externalizable
// set to write that object's externalizable body.
type ExternalWriter func(enc *Encoder) error

// ExternalReader is registered per class name with Register and invoked to
// decode an externalizable object's body.
type ExternalReader func(dec *Decoder) (Value, error)

// Object is both the decoded representation of an AMF3 object and the
// "named-object descriptor" host code uses to produce one: setting
// ClassName and Dynamic explicitly is how a caller forces a specific trait
// shape (spec §4.2). An anonymous dynamic object has an empty ClassName,
// Dynamic set to true, and DynamicFields populated; with Dynamic false an
// anonymous object is encoded with an empty body.
type Object struct {
	ClassName      string
	Dynamic        bool
	Externalizable bool
	StaticFields   Fields
	DynamicFields  Fields

	// Write supplies the externalizable body on encode. Required when
	// Externalizable is true and the object is being passed to Encode;
	// ignored otherwise.
	Write ExternalWriter

	// Filter, if set, further restricts which of this object's fields are
	// encoded; names beginning with "__" are excluded whatever it returns.
	Filter FieldFilter
}

func (*Object) Tag() Tag { return TagObject }

// VectorInt is a vector of signed 32-bit integers.
type VectorInt struct {
	Values []int32
	Fixed  bool
}

func (*VectorInt) Tag() Tag { return TagVectorInt }

// VectorUInt is a vector of unsigned 32-bit integers.
type VectorUInt struct {
	Values []uint32
	Fixed  bool
}

func (*VectorUInt) Tag() Tag { return TagVectorUInt }

// VectorDouble is a vector of doubles.
type VectorDouble struct {
	Values []float64
	Fixed  bool
}

func (*VectorDouble) Tag() Tag { return TagVectorDouble }

// VectorObject is a vector of arbitrary AMF3 values.
type VectorObject struct {
	Values []Value
	Fixed  bool
}

func (*VectorObject) Tag() Tag { return TagVectorObject }

// DictEntry is one key/value pair of a Dictionary. Key may be any Value,
// including a composite one; see Dictionary.Map for the lossy string-keyed
// projection spec §9 "Dictionary key coercion" documents.
type DictEntry struct {
	Key   Value
	Value Value
}

// Dictionary is AMF3's key-weak-capable map type. Unlike AssocArray, keys
// are not restricted to strings.
type Dictionary struct {
	Entries  []DictEntry
	WeakKeys bool
}

func (*Dictionary) Tag() Tag { return TagDictionary }

// Map renders Dictionary as a map[string]Value, coercing non-string keys
// with stringifyKey (spec §9 "Dictionary key coercion"). This is a lossy
// convenience projection; Entries retains the original, uncoerced keys.
func (d *Dictionary) Map() map[string]Value {
	out := make(map[string]Value, len(d.Entries))
	for _, e := range d.Entries {
		out[stringifyKey(e.Key)] = e.Value
	}
	return out
}
