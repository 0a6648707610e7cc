package protocol

import (
	"encoding/binary"
	"fmt"
)

// Header is the decoded form of any of the three on-the-wire header
// shapes. Fields not meaningful to a shape are left zero.
type Header struct {
	Size  int   // total packet size including header, before decryption padding
	Type  uint16
	Flags uint32 // 32 bits for ShapeBB; the one-byte flags field for the other two shapes
}

// minHeaderLen returns the header size in bytes for a shape.
func minHeaderLen(shape HeaderShape) int {
	switch shape {
	case ShapeByteType:
		return 4
	case ShapeLELength:
		return 4
	case ShapeBB:
		return 8
	default:
		return 4
	}
}

// DecodeHeader parses a header from buf per shape. It never consumes more
// than minHeaderLen(shape) bytes.
func DecodeHeader(shape HeaderShape, buf []byte) (Header, error) {
	n := minHeaderLen(shape)
	if len(buf) < n {
		return Header{}, fmt.Errorf("decode header: need %d bytes, have %d", n, len(buf))
	}

	switch shape {
	case ShapeByteType:
		// {pkt_type:u8, flags:u8, pkt_len:u16le}
		size := int(binary.LittleEndian.Uint16(buf[2:4]))
		return Header{Size: size, Type: uint16(buf[0]), Flags: uint32(buf[1])}, nil
	case ShapeLELength:
		// {pkt_len:u16le, pkt_type:u8, flags:u8}
		size := int(binary.LittleEndian.Uint16(buf[0:2]))
		return Header{Size: size, Type: uint16(buf[2]), Flags: uint32(buf[3])}, nil
	case ShapeBB:
		// {pkt_len:u16le, pkt_type:u16le, flags:u32le}
		size := int(binary.LittleEndian.Uint16(buf[0:2]))
		typ := binary.LittleEndian.Uint16(buf[2:4])
		flags := binary.LittleEndian.Uint32(buf[4:8])
		return Header{Size: size, Type: typ, Flags: flags}, nil
	default:
		return Header{}, fmt.Errorf("decode header: unknown shape %d", shape)
	}
}

// EncodeHeader writes hdr into buf (which must be at least minHeaderLen(shape)).
func EncodeHeader(shape HeaderShape, hdr Header, buf []byte) int {
	n := minHeaderLen(shape)
	switch shape {
	case ShapeByteType:
		buf[0] = byte(hdr.Type)
		buf[1] = byte(hdr.Flags)
		binary.LittleEndian.PutUint16(buf[2:4], uint16(hdr.Size))
	case ShapeLELength:
		binary.LittleEndian.PutUint16(buf[0:2], uint16(hdr.Size))
		buf[2] = byte(hdr.Type)
		buf[3] = byte(hdr.Flags)
	case ShapeBB:
		binary.LittleEndian.PutUint16(buf[0:2], uint16(hdr.Size))
		binary.LittleEndian.PutUint16(buf[2:4], hdr.Type)
		binary.LittleEndian.PutUint32(buf[4:8], hdr.Flags)
	}
	return n
}

// PadLen returns the number of padding bytes needed to bring n up to the
// next multiple of word.
func PadLen(n, word int) int {
	rem := n % word
	if rem == 0 {
		return 0
	}
	return word - rem
}
