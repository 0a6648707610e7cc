package protocol

import (
	"encoding/binary"
	"unicode/utf16"
)

// Writer accumulates little-endian fields for an outbound packet body.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer with a pre-sized backing array.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

// Bytes returns the accumulated body.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// WriteFixedString16LE writes s as UTF-16LE, null-padded/truncated to
// exactly n code units.
func (w *Writer) WriteFixedString16LE(s string, n int) {
	units := utf16.Encode([]rune(s))
	for i := 0; i < n; i++ {
		if i < len(units) {
			w.WriteUint16(units[i])
		} else {
			w.WriteUint16(0)
		}
	}
}

// WriteFixedStringASCII writes s as raw bytes, null-padded/truncated to
// exactly n bytes.
func (w *Writer) WriteFixedStringASCII(s string, n int) {
	b := []byte(s)
	for i := 0; i < n; i++ {
		if i < len(b) {
			w.WriteByte(b[i])
		} else {
			w.WriteByte(0)
		}
	}
}

// Pad appends zero bytes until Len() is a multiple of word.
func (w *Writer) Pad(word int) {
	n := PadLen(w.Len(), word)
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// FinishWithHeader prepends a header for shape/type/flags sized to the
// current body (including header and padding), returning the full frame.
func (w *Writer) FinishWithHeader(shape HeaderShape, pktType uint16, flags uint32, word int) []byte {
	w.Pad(word)
	hn := minHeaderLen(shape)
	total := hn + len(w.buf)
	if pad := PadLen(total, word); pad > 0 {
		for i := 0; i < pad; i++ {
			w.buf = append(w.buf, 0)
		}
		total += pad
	}

	frame := make([]byte, hn+len(w.buf))
	EncodeHeader(shape, Header{Size: total, Type: pktType, Flags: flags}, frame)
	copy(frame[hn:], w.buf)
	return frame
}
