package amf3

// Decoder parses AMF3 bytes into a Value tree. Like Encoder, it owns three
// reference tables; they belong to the Decoder and are kept across its
// Decode calls, so a later Decode on the same Decoder can resolve
// references to values read by an earlier one. Composite values register
// themselves in the object table before their body is parsed, so a value
// can legally contain a reference back to itself.
type Decoder struct {
	r *Reader

	stringRefs []string
	objectRefs []Value
	traitRefs  []Trait
}

// NewDecoder wraps buf for decoding, starting at position 0.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{r: NewReader(buf)}
}

// Position returns the current byte offset.
func (d *Decoder) Position() int { return d.r.Position() }

// SetPosition moves the cursor to an arbitrary offset.
func (d *Decoder) SetPosition(n int) { d.r.SetPosition(n) }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return d.r.Remaining() }

// Decode reads one tagged value and everything it owns.
func (d *Decoder) Decode() (Value, error) {
	start := d.r.Position()
	tagByte, err := d.r.U8()
	if err != nil {
		return nil, err
	}
	switch Tag(tagByte) {
	case TagUndefined:
		return Undefined{}, nil
	case TagNull:
		return Null{}, nil
	case TagFalse:
		return Bool(false), nil
	case TagTrue:
		return Bool(true), nil
	case TagInteger:
		n, err := d.r.I29()
		if err != nil {
			return nil, err
		}
		return Integer(n), nil
	case TagDouble:
		f, err := d.r.F64BE()
		if err != nil {
			return nil, err
		}
		return Double(f), nil
	case TagString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TagDate:
		return d.decodeDate()
	case TagArray:
		return d.decodeArray()
	case TagObject:
		return d.decodeObject()
	case TagByteArray:
		return d.decodeByteArray()
	case TagVectorInt:
		return d.decodeVectorInt()
	case TagVectorUInt:
		return d.decodeVectorUInt()
	case TagVectorDouble:
		return d.decodeVectorDouble()
	case TagVectorObject:
		return d.decodeVectorObject()
	case TagDictionary:
		return d.decodeDictionary()
	default:
		return nil, atPos(ErrUnsupportedType, start)
	}
}

// readString reads a string using the shared reference table, mirroring
// Encoder.encodeString. The empty string is always inline and is never
// entered into the table.
func (d *Decoder) readString() (string, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return "", err
	}
	if !h.IsDef {
		idx := int(h.Value)
		if idx < 0 || idx >= len(d.stringRefs) {
			return "", atPos(ErrInvalidReference, d.r.Position())
		}
		return d.stringRefs[idx], nil
	}
	n := int(h.Value)
	if n == 0 {
		return "", nil
	}
	s, err := d.r.UTF8(n)
	if err != nil {
		return "", err
	}
	d.stringRefs = append(d.stringRefs, s)
	return s, nil
}

// readRawString reads a length-prefixed string that does not participate
// in the shared string table, matching Encoder.encodeRawString.
func (d *Decoder) readRawString() (string, error) {
	h, err := d.r.U29()
	if err != nil {
		return "", err
	}
	n := h >> 1
	if n == 0 {
		return "", nil
	}
	return d.r.UTF8(int(n))
}

// objectRef checks h against the object reference table. If h is a
// reference, it returns the referenced value and handled=true.
func (d *Decoder) objectRef(h AMFHeader) (v Value, handled bool, err error) {
	if h.IsDef {
		return nil, false, nil
	}
	idx := int(h.Value)
	if idx < 0 || idx >= len(d.objectRefs) {
		return nil, true, atPos(ErrInvalidReference, d.r.Position())
	}
	return d.objectRefs[idx], true, nil
}

func (d *Decoder) decodeDate() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	date := &Date{}
	d.objectRefs = append(d.objectRefs, date)
	millis, err := d.r.F64BE()
	if err != nil {
		return nil, err
	}
	date.Millis = millis
	return date, nil
}

func (d *Decoder) decodeByteArray() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	ba := &ByteArray{}
	d.objectRefs = append(d.objectRefs, ba)
	n := int(h.Value)
	b, err := d.r.Bytes(n)
	if err != nil {
		return nil, err
	}
	ba.Bytes = b
	return ba, nil
}

// decodeArray parses the shared array body grammar: a dense-length header,
// then named (associative) entries terminated by an empty-string key, then
// — only if no named entries were read — that many dense elements. Per
// spec §4.5 "Array" and §9 "Associative-array asymmetry", if any named
// field is read the announced dense length is skipped entirely and the
// body decodes as AssocArray; the dense count is never consulted in that
// case, even though it was announced in the header.
func (d *Decoder) decodeArray() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	denseLen := int(h.Value)

	// The slot is taken before the named part is read. It holds the
	// AssocArray until it is known that no named field follows; only then
	// can nothing have referenced it, and the DenseArray takes its place.
	idx := len(d.objectRefs)
	assoc := &AssocArray{}
	d.objectRefs = append(d.objectRefs, assoc)

	var fields Fields
	for {
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		val, err := d.Decode()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: val})
	}

	if len(fields) > 0 {
		assoc.Fields = fields
		return assoc, nil
	}

	dense := &DenseArray{}
	d.objectRefs[idx] = dense
	elements := make([]Value, denseLen)
	for i := 0; i < denseLen; i++ {
		val, err := d.Decode()
		if err != nil {
			return nil, err
		}
		elements[i] = val
	}
	dense.Elements = elements
	return dense, nil
}

func (d *Decoder) decodeObject() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}

	idx := len(d.objectRefs)
	d.objectRefs = append(d.objectRefs, nil)

	var trait Trait
	isTraitRef := h.Value&1 == 0
	if isTraitRef {
		traitIdx := int(h.Value >> 1)
		if traitIdx < 0 || traitIdx >= len(d.traitRefs) {
			return nil, atPos(ErrInvalidReference, d.r.Position())
		}
		trait = d.traitRefs[traitIdx]
	} else {
		externalizable := h.Value&2 != 0
		dynamic := h.Value&4 != 0
		staticCount := int(h.Value >> 3)
		className, err := d.readString()
		if err != nil {
			return nil, err
		}
		names := make([]string, staticCount)
		for i := range names {
			names[i], err = d.readString()
			if err != nil {
				return nil, err
			}
		}
		trait = Trait{
			ClassName:      className,
			Dynamic:        dynamic,
			Externalizable: externalizable,
			StaticFields:   names,
		}
		d.traitRefs = append(d.traitRefs, trait)
	}

	if trait.Externalizable {
		if trait.ClassName == arrayCollectionClassName {
			inner, err := d.Decode()
			if err != nil {
				return nil, err
			}
			d.objectRefs[idx] = inner
			return inner, nil
		}
		reader, ok := lookupExternal(trait.ClassName)
		if !ok {
			return nil, &ClassError{Err: ErrUnregisteredExternalizable, ClassName: trait.ClassName}
		}
		val, err := reader(d)
		if err != nil {
			return nil, err
		}
		d.objectRefs[idx] = val
		return val, nil
	}

	obj := &Object{
		ClassName: trait.ClassName,
		Dynamic:   trait.Dynamic,
	}
	d.objectRefs[idx] = obj

	static := make(Fields, len(trait.StaticFields))
	for i, name := range trait.StaticFields {
		val, err := d.Decode()
		if err != nil {
			return nil, err
		}
		static[i] = Field{Name: name, Value: val}
	}
	obj.StaticFields = static

	if trait.Dynamic {
		var dyn Fields
		for {
			name, err := d.readString()
			if err != nil {
				return nil, err
			}
			if name == "" {
				break
			}
			val, err := d.Decode()
			if err != nil {
				return nil, err
			}
			dyn = append(dyn, Field{Name: name, Value: val})
		}
		obj.DynamicFields = dyn
	}

	return obj, nil
}

func (d *Decoder) decodeVectorInt() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	vec := &VectorInt{}
	d.objectRefs = append(d.objectRefs, vec)
	fixed, err := d.r.U8()
	if err != nil {
		return nil, err
	}
	vec.Fixed = fixed != 0
	n := int(h.Value)
	values := make([]int32, n)
	for i := range values {
		values[i], err = d.r.I32BE()
		if err != nil {
			return nil, err
		}
	}
	vec.Values = values
	return vec, nil
}

func (d *Decoder) decodeVectorUInt() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	vec := &VectorUInt{}
	d.objectRefs = append(d.objectRefs, vec)
	fixed, err := d.r.U8()
	if err != nil {
		return nil, err
	}
	vec.Fixed = fixed != 0
	n := int(h.Value)
	values := make([]uint32, n)
	for i := range values {
		values[i], err = d.r.U32BE()
		if err != nil {
			return nil, err
		}
	}
	vec.Values = values
	return vec, nil
}

func (d *Decoder) decodeVectorDouble() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	vec := &VectorDouble{}
	d.objectRefs = append(d.objectRefs, vec)
	fixed, err := d.r.U8()
	if err != nil {
		return nil, err
	}
	vec.Fixed = fixed != 0
	n := int(h.Value)
	values := make([]float64, n)
	for i := range values {
		values[i], err = d.r.F64BE()
		if err != nil {
			return nil, err
		}
	}
	vec.Values = values
	return vec, nil
}

func (d *Decoder) decodeVectorObject() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	vec := &VectorObject{}
	d.objectRefs = append(d.objectRefs, vec)
	fixed, err := d.r.U8()
	if err != nil {
		return nil, err
	}
	vec.Fixed = fixed != 0
	if _, err := d.readRawString(); err != nil {
		return nil, err
	}
	n := int(h.Value)
	values := make([]Value, n)
	for i := range values {
		values[i], err = d.Decode()
		if err != nil {
			return nil, err
		}
	}
	vec.Values = values
	return vec, nil
}

func (d *Decoder) decodeDictionary() (Value, error) {
	h, err := d.r.AMFHeader()
	if err != nil {
		return nil, err
	}
	if v, handled, err := d.objectRef(h); handled {
		return v, err
	}
	dict := &Dictionary{}
	d.objectRefs = append(d.objectRefs, dict)
	weak, err := d.r.U8()
	if err != nil {
		return nil, err
	}
	dict.WeakKeys = weak != 0
	n := int(h.Value)
	entries := make([]DictEntry, n)
	for i := range entries {
		key, err := d.Decode()
		if err != nil {
			return nil, err
		}
		val, err := d.Decode()
		if err != nil {
			return nil, err
		}
		entries[i] = DictEntry{Key: key, Value: val}
	}
	dict.Entries = entries
	return dict, nil
}
