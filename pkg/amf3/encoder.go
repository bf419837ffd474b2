package amf3

// Encoder serializes Value trees to AMF3 bytes. It owns three reference
// tables — strings, objects (by identity), and traits (by content) — that
// are populated as encoding proceeds and kept across Encode calls until
// Reset; a later Encode on the same Encoder emits references to strings,
// objects and traits written by an earlier one.
type Encoder struct {
	w *Writer

	stringRefs map[string]int
	objectRefs map[Value]int
	traitRefs  map[traitKey]int
}

// NewEncoder returns an encoder with empty reference tables.
func NewEncoder() *Encoder {
	return &Encoder{
		w:          NewWriter(),
		stringRefs: make(map[string]int),
		objectRefs: make(map[Value]int),
		traitRefs:  make(map[traitKey]int),
	}
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

// Reset discards written bytes and all three reference tables, returning
// the encoder to its initial state.
func (e *Encoder) Reset() {
	e.w.Reset()
	e.stringRefs = make(map[string]int)
	e.objectRefs = make(map[Value]int)
	e.traitRefs = make(map[traitKey]int)
}

// Encode infers v into a Value (when it isn't one already) and appends its
// wire encoding.
func (e *Encoder) Encode(v interface{}) error {
	val, err := infer(v)
	if err != nil {
		return err
	}
	return e.encodeValue(val)
}

func (e *Encoder) encodeValue(v Value) error {
	if err := e.w.WriteByte(byte(v.Tag())); err != nil {
		return err
	}
	switch x := v.(type) {
	case Undefined, Null:
		return nil
	case Bool:
		return nil
	case Integer:
		return e.w.WriteI29(int32(x))
	case Double:
		return e.w.WriteF64BE(float64(x))
	case String:
		return e.encodeString(string(x))
	case *Date:
		return e.encodeDate(x)
	case *ByteArray:
		return e.encodeByteArray(x)
	case *DenseArray:
		return e.encodeDenseArray(x)
	case *AssocArray:
		return e.encodeAssocArray(x)
	case *Object:
		return e.encodeObject(x)
	case *VectorInt:
		return e.encodeVectorInt(x)
	case *VectorUInt:
		return e.encodeVectorUInt(x)
	case *VectorDouble:
		return e.encodeVectorDouble(x)
	case *VectorObject:
		return e.encodeVectorObject(x)
	case *Dictionary:
		return e.encodeDictionary(x)
	default:
		return ErrUnsupportedValue
	}
}

// encodeString writes a string using the shared reference table. The empty
// string is always encoded inline and is never entered into the table
// (spec invariant 5) — every occurrence of "" costs the same two bytes and
// never pins a reference slot another string could have used.
func (e *Encoder) encodeString(s string) error {
	if s == "" {
		return e.w.WriteU29(utf8Empty)
	}
	if idx, ok := e.stringRefs[s]; ok {
		return e.w.WriteU29(uint32(idx) << 1)
	}
	e.stringRefs[s] = len(e.stringRefs)
	if err := e.w.WriteU29(uint32(len(s))<<1 | 1); err != nil {
		return err
	}
	return e.w.WriteUTF8(s)
}

// encodeRawString writes s without consulting or populating the string
// reference table. Vector-object element type names use this: AMF3 gives
// them their own length-prefixed slot, disjoint from the shared string
// table (spec §4.4 "Vector body").
func (e *Encoder) encodeRawString(s string) error {
	if err := e.w.WriteU29(uint32(len(s))<<1 | 1); err != nil {
		return err
	}
	return e.w.WriteUTF8(s)
}

// refOrDefine checks v against the object reference table. If already
// present it writes a reference header and reports handled=true; otherwise
// it records v at the next slot and reports handled=false so the caller
// proceeds to write the inline definition.
func (e *Encoder) refOrDefine(v Value) (handled bool, err error) {
	if idx, ok := e.objectRefs[v]; ok {
		return true, e.w.WriteU29(uint32(idx) << 1)
	}
	e.objectRefs[v] = len(e.objectRefs)
	return false, nil
}

func (e *Encoder) encodeDate(d *Date) error {
	handled, err := e.refOrDefine(d)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(1); err != nil {
		return err
	}
	return e.w.WriteF64BE(d.Millis)
}

func (e *Encoder) encodeByteArray(b *ByteArray) error {
	handled, err := e.refOrDefine(b)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(b.Bytes))<<1 | 1); err != nil {
		return err
	}
	return e.w.WriteBytes(b.Bytes)
}

func (e *Encoder) encodeDenseArray(a *DenseArray) error {
	handled, err := e.refOrDefine(a)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(a.Elements))<<1 | 1); err != nil {
		return err
	}
	// No associative part: the terminator is written immediately, per the
	// dense/associative asymmetry this encoder always honors on encode.
	if err := e.w.WriteU29(utf8Empty); err != nil {
		return err
	}
	for _, el := range a.Elements {
		if err := e.encodeValue(el); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeAssocArray(a *AssocArray) error {
	handled, err := e.refOrDefine(a)
	if err != nil || handled {
		return err
	}
	// Dense length is always zero: every field goes through the named
	// part, even ones with numeric-looking names. Names beginning with
	// "__" are skipped.
	if err := e.w.WriteU29(0<<1 | 1); err != nil {
		return err
	}
	for _, f := range filterFields(a.Fields, nil) {
		if err := e.encodeString(f.Name); err != nil {
			return err
		}
		if err := e.encodeValue(f.Value); err != nil {
			return err
		}
	}
	return e.w.WriteU29(utf8Empty)
}

// traitIndex returns the reference index for t, registering it if this is
// the first time an object with this exact shape has been encoded. Traits
// are deduplicated by content rather than by the identity of any Go value,
// which spec §9 "Trait identity on encode" permits.
func (e *Encoder) traitIndex(t Trait) (idx int, isNew bool) {
	k := t.key()
	if idx, ok := e.traitRefs[k]; ok {
		return idx, false
	}
	idx = len(e.traitRefs)
	e.traitRefs[k] = idx
	return idx, true
}

func (e *Encoder) encodeObject(o *Object) error {
	handled, err := e.refOrDefine(o)
	if err != nil || handled {
		return err
	}
	if o.ClassName == "" && !o.Externalizable {
		if o.Dynamic {
			return e.encodeAnonymousDynamic(o)
		}
		return e.encodeAnonymousStatic()
	}
	return e.encodeTypedObject(o)
}

// encodeAnonymousDynamic implements spec §4.4's fixed anonymous-object
// form: trait marker 0x0B (inline trait, dynamic, zero static fields),
// empty class name, then dynamic field pairs terminated by an empty
// string. Static fields are not representable on this path.
func (e *Encoder) encodeAnonymousDynamic(o *Object) error {
	trait := Trait{Dynamic: true}
	idx, isNew := e.traitIndex(trait)
	if !isNew {
		if err := e.w.WriteU29(uint32(idx)<<2 | 0b01); err != nil {
			return err
		}
	} else {
		if err := e.w.WriteU29(anonymousTrait); err != nil {
			return err
		}
		if err := e.encodeString(""); err != nil {
			return err
		}
	}
	for _, f := range filterFields(o.DynamicFields, o.Filter) {
		if err := e.encodeString(f.Name); err != nil {
			return err
		}
		if err := e.encodeValue(f.Value); err != nil {
			return err
		}
	}
	return e.w.WriteU29(utf8Empty)
}

// encodeAnonymousStatic implements the named-object descriptor's
// dynamic=false override on an otherwise anonymous object: trait marker
// 0x03 (inline trait, non-dynamic, zero static fields), empty class name,
// empty body (spec §4.2 "Named-object descriptor").
func (e *Encoder) encodeAnonymousStatic() error {
	trait := Trait{}
	idx, isNew := e.traitIndex(trait)
	if !isNew {
		return e.w.WriteU29(uint32(idx)<<2 | 0b01)
	}
	if err := e.w.WriteU29(0x03); err != nil {
		return err
	}
	return e.encodeString("")
}

// encodeTypedObject implements spec §4.4's "Typed" object body. The trait
// header formula has no dynamic bit at all, and — per the asymmetry
// recorded in SPEC_FULL.md §12 and spec §9 "Dynamic fields after static"
// — dynamic fields are never emitted for a typed object, even when
// o.Dynamic is true; only the anonymous path can carry dynamic fields on
// encode.
func (e *Encoder) encodeTypedObject(o *Object) error {
	static := filterFields(o.StaticFields, o.Filter)
	names := make([]string, len(static))
	for i, f := range static {
		names[i] = f.Name
	}
	trait := Trait{
		ClassName:      o.ClassName,
		Externalizable: o.Externalizable,
		StaticFields:   names,
	}
	idx, isNew := e.traitIndex(trait)

	if !isNew {
		if err := e.w.WriteU29(uint32(idx)<<2 | 0b01); err != nil {
			return err
		}
	} else {
		handle := uint32(len(static))<<4 | boolBit(o.Externalizable)<<2 | 0b11
		if err := e.w.WriteU29(handle); err != nil {
			return err
		}
		if err := e.encodeString(o.ClassName); err != nil {
			return err
		}
		for _, name := range names {
			if err := e.encodeString(name); err != nil {
				return err
			}
		}
	}

	if o.Externalizable {
		if o.Write == nil {
			return ErrUnsupportedValue
		}
		return o.Write(e)
	}

	for _, f := range static {
		if err := e.encodeValue(f.Value); err != nil {
			return err
		}
	}
	return nil
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (e *Encoder) encodeVectorInt(v *VectorInt) error {
	handled, err := e.refOrDefine(v)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(v.Values))<<1 | 1); err != nil {
		return err
	}
	if err := e.w.WriteByte(boolByte(v.Fixed)); err != nil {
		return err
	}
	for _, n := range v.Values {
		if err := e.w.WriteI32BE(n); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeVectorUInt(v *VectorUInt) error {
	handled, err := e.refOrDefine(v)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(v.Values))<<1 | 1); err != nil {
		return err
	}
	if err := e.w.WriteByte(boolByte(v.Fixed)); err != nil {
		return err
	}
	for _, n := range v.Values {
		if err := e.w.WriteU32BE(n); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeVectorDouble(v *VectorDouble) error {
	handled, err := e.refOrDefine(v)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(v.Values))<<1 | 1); err != nil {
		return err
	}
	if err := e.w.WriteByte(boolByte(v.Fixed)); err != nil {
		return err
	}
	for _, n := range v.Values {
		if err := e.w.WriteF64BE(n); err != nil {
			return err
		}
	}
	return nil
}

// vectorObjectTypeName is the object-type-name this encoder always writes
// for VectorObject: "*" marks an untyped, heterogeneous vector. AMF3 allows
// a specific class name here to constrain element type, but nothing in
// this codec's Value model tracks a vector's declared element class.
const vectorObjectTypeName = "*"

func (e *Encoder) encodeVectorObject(v *VectorObject) error {
	handled, err := e.refOrDefine(v)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(v.Values))<<1 | 1); err != nil {
		return err
	}
	if err := e.w.WriteByte(boolByte(v.Fixed)); err != nil {
		return err
	}
	if err := e.encodeRawString(vectorObjectTypeName); err != nil {
		return err
	}
	for _, el := range v.Values {
		if err := e.encodeValue(el); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeDictionary(d *Dictionary) error {
	handled, err := e.refOrDefine(d)
	if err != nil || handled {
		return err
	}
	if err := e.w.WriteU29(uint32(len(d.Entries))<<1 | 1); err != nil {
		return err
	}
	if err := e.w.WriteByte(boolByte(d.WeakKeys)); err != nil {
		return err
	}
	for _, ent := range d.Entries {
		if err := e.encodeValue(ent.Key); err != nil {
			return err
		}
		if err := e.encodeValue(ent.Value); err != nil {
			return err
		}
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
