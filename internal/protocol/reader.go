package protocol

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Reader provides sequential little-endian field reads over a packet body.
// UTF-16LE strings are converted to UTF-8; single-byte string fields
// (ISO-8859-1, Shift-JIS) are returned as their raw bytes, without
// conversion to UTF-8. The caller picks the reader per field.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps buf for sequential reads.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Pos returns the current read cursor.
func (r *Reader) Pos() int { return r.pos }

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("protocol: short read (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	return nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadFixedString16LE reads exactly n UTF-16LE code units and converts to
// UTF-8, trimming at the first null terminator if present. Used by PC/GC/BB
// fixed-width name fields.
func (r *Reader) ReadFixedString16LE(n int) (string, error) {
	raw, err := r.ReadBytes(n * 2)
	if err != nil {
		return "", err
	}
	units := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(raw[i*2:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// ReadFixedStringASCII reads exactly n bytes and converts to a string,
// trimming at the first null terminator. Used by DC/Xbox (ISO-8859-1 range)
// and Shift-JIS fields the caller chooses to treat byte-for-byte.
func (r *Reader) ReadFixedStringASCII(n int) (string, error) {
	raw, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	end := n
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end]), nil
}
