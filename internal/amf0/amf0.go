// Package amf0 names AMF0's wire type tags for reference. AMF0 precedes
// AMF3 on the wire in some historical transports (a leading AVM+ marker
// hands off to an AMF3 payload), but this module never encodes or decodes
// an AMF0 value — only the tag table survives, so code that needs to
// recognize an AVM+ switch byte has a name for it.
package amf0

const (
	TypeNumber      = 0x00
	TypeBoolean     = 0x01
	TypeString      = 0x02
	TypeObject      = 0x03
	TypeMovieClip   = 0x04 // reserved, not supported
	TypeNull        = 0x05
	TypeUndefined   = 0x06
	TypeReference   = 0x07
	TypeEcmaArray   = 0x08
	TypeObjectEnd   = 0x09
	TypeStrictArray = 0x0A
	TypeDate        = 0x0B
	TypeLongString  = 0x0C
	TypeUnsupported = 0x0D
	TypeRecordset   = 0x0E // reserved, not supported
	TypeXMLDocument = 0x0F
	TypeTypedObject = 0x10
	TypeAVMPlus     = 0x11 // switch to AMF3
)
