package amf3

import "math"

// Writer is a growable byte buffer with the same primitive set as Reader,
// mirrored for symmetry. It never fails on append; the only error it can
// return is WriteI29's range check (WriteU29 masks to 29 bits instead).
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes materializes the accumulated bytes. The caller must not mutate the
// returned slice if the writer will be used again.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset discards all written bytes.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// WriteByte appends a single byte. It implements io.ByteWriter.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteU8 appends an unsigned byte.
func (w *Writer) WriteU8(b byte) error { return w.WriteByte(b) }

// WriteI8 appends a signed byte.
func (w *Writer) WriteI8(b int8) error { return w.WriteByte(byte(b)) }

// WriteU16BE appends a big-endian uint16.
func (w *Writer) WriteU16BE(v uint16) error {
	w.buf = append(w.buf, byte(v>>8), byte(v))
	return nil
}

// WriteI16BE appends a big-endian int16.
func (w *Writer) WriteI16BE(v int16) error { return w.WriteU16BE(uint16(v)) }

// WriteU32BE appends a big-endian uint32.
func (w *Writer) WriteU32BE(v uint32) error {
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	return nil
}

// WriteI32BE appends a big-endian int32.
func (w *Writer) WriteI32BE(v int32) error { return w.WriteU32BE(uint32(v)) }

// WriteF64BE appends a big-endian IEEE-754 double.
func (w *Writer) WriteF64BE(v float64) error {
	bits := math.Float64bits(v)
	for i := 7; i >= 0; i-- {
		w.buf = append(w.buf, byte(bits>>(8*i)))
	}
	return nil
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	w.buf = append(w.buf, b...)
	return nil
}

// WriteUTF8 appends the UTF-8 bytes of s with no length prefix; callers
// needing a length-prefixed string use WriteU29 first.
func (w *Writer) WriteUTF8(s string) error {
	w.buf = append(w.buf, s...)
	return nil
}

// WriteU29 encodes value using AMF3's variable-length 29-bit integer
// encoding, picking the smallest form from the table in spec §4.1. The
// caller is responsible for masking signed values before calling this;
// WriteI29 does that for signed payloads.
func (w *Writer) WriteU29(value uint32) error {
	value &= 0x1FFFFFFF
	switch {
	case value < 0x80:
		w.buf = append(w.buf, byte(value))
	case value < 0x4000:
		w.buf = append(w.buf,
			byte(value>>7)|0x80,
			byte(value&0x7F))
	case value < 0x200000:
		w.buf = append(w.buf,
			byte(value>>14)|0x80,
			byte((value>>7)&0x7F)|0x80,
			byte(value&0x7F))
	default:
		w.buf = append(w.buf,
			byte(value>>22)|0x80,
			byte((value>>15)&0x7F)|0x80,
			byte((value>>8)&0x7F)|0x80,
			byte(value))
	}
	return nil
}

// WriteI29 encodes a signed 29-bit integer, masking to 29 bits before
// dispatch. Values outside [-2^28, 2^28-1] fail with ErrOutOfRange.
func (w *Writer) WriteI29(value int32) error {
	if value < -(1<<28) || value > (1<<28)-1 {
		return atPos(ErrOutOfRange, w.Len())
	}
	return w.WriteU29(uint32(value) & 0x1FFFFFFF)
}
