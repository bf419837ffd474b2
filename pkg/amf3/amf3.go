// Package amf3 implements a codec for AMF3 (Action Message Format, version
// 3), the binary serialization format Adobe Flash Player and Flex used to
// exchange structured values between a client runtime and a server.
//
// The codec reads a byte sequence into a tree of Value instances and writes
// such a tree back into the wire format. An Encoder and a Decoder each
// maintain their own string, object, and trait reference tables so shared
// substructure is encoded and restored exactly once; the tables belong to
// the Encoder or Decoder and are kept across its Encode/Decode calls
// (Encoder.Reset clears the Encoder's).
package amf3

// Tag is an AMF3 wire type marker: the single byte that precedes every
// encoded value.
type Tag byte

// Wire type tags, as defined by the AMF3 specification.
const (
	TagUndefined    Tag = 0x00
	TagNull         Tag = 0x01
	TagFalse        Tag = 0x02
	TagTrue         Tag = 0x03
	TagInteger      Tag = 0x04
	TagDouble       Tag = 0x05
	TagString       Tag = 0x06
	TagXMLDocument  Tag = 0x07 // reserved; not implemented
	TagDate         Tag = 0x08
	TagArray        Tag = 0x09
	TagObject       Tag = 0x0A
	TagXML          Tag = 0x0B // reserved; not implemented
	TagByteArray    Tag = 0x0C
	TagVectorInt    Tag = 0x0D
	TagVectorUInt   Tag = 0x0E
	TagVectorDouble Tag = 0x0F
	TagVectorObject Tag = 0x10
	TagDictionary   Tag = 0x11
)

// Bit layout constants used by the trait header and the U29 codec (spec
// §4.1, §4.4 "Object body"). utf8Empty is the one-byte U29 header of the
// empty inline string: length 0 with the definition bit set.
const (
	u29Max = 0x1FFFFFFF
	int28Max = 1<<28 - 1
	int28Min = -(1 << 28)

	utf8Empty      = 0x01 // U29((0<<1)|1): empty inline string
	anonymousTrait = 0x0B // inline trait, dynamic, 0 static fields
)

func (t Tag) String() string {
	switch t {
	case TagUndefined:
		return "undefined"
	case TagNull:
		return "null"
	case TagFalse:
		return "false"
	case TagTrue:
		return "true"
	case TagInteger:
		return "integer"
	case TagDouble:
		return "double"
	case TagString:
		return "string"
	case TagDate:
		return "date"
	case TagArray:
		return "array"
	case TagObject:
		return "object"
	case TagByteArray:
		return "bytearray"
	case TagVectorInt:
		return "vector-int"
	case TagVectorUInt:
		return "vector-uint"
	case TagVectorDouble:
		return "vector-double"
	case TagVectorObject:
		return "vector-object"
	case TagDictionary:
		return "dictionary"
	default:
		return "unknown"
	}
}
