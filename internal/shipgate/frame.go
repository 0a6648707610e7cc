// Package shipgate implements the shipgate RPC link: a TLS-transported,
// length-prefixed request/response protocol connecting a ship to the
// central shipgate, plus the reconnect-with-back-off loop that keeps the
// link up across shipgate restarts.
//
// The frame layout and SHDR_* constants must match the shipgate process on
// the other end of the link byte for byte; treat them as a wire contract,
// not an implementation detail.
package shipgate

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the on-wire size of Header in bytes.
const HeaderSize = 8

// Header is the shipgate frame header, matching shipgate_hdr_t exactly:
// a 16-bit length, 16-bit type, 8-bit protocol version, 8-bit reserved
// byte, and a 16-bit flags word.
type Header struct {
	Len     uint16
	Type    uint16
	Version uint8
	Reserved uint8
	Flags   uint16
}

// ProtoVersion is the shipgate protocol version this client speaks.
const ProtoVersion = 19

// Flag bits from shipgate_hdr_t's flags word.
const (
	FlagResponse Flags = 0x8000
	FlagFailure  Flags = 0x4000
)

// Flags is the shipgate frame flags bitset.
type Flags uint16

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Message types (SHDR_TYPE_*), shared with the shipgate.
const (
	TypeDC      uint16 = 0x0001 // forwarded, decrypted DC client packet
	TypeBB      uint16 = 0x0002
	TypePC      uint16 = 0x0003
	TypeGC      uint16 = 0x0004
	TypeEp3     uint16 = 0x0005
	TypeXbox    uint16 = 0x0006

	TypeLogin   uint16 = 0x0010 // handshake
	TypeCount   uint16 = 0x0011
	TypeSStatus uint16 = 0x0012
	TypePing    uint16 = 0x0013 // heartbeat
	TypeCData   uint16 = 0x0014
	TypeCReq    uint16 = 0x0015
	TypeUsrLogin uint16 = 0x0016 // persistent lookup
	TypeGCBan   uint16 = 0x0017
	TypeIPBan   uint16 = 0x0018
	TypeBlkLogin uint16 = 0x0019
	TypeBlkLogout uint16 = 0x001A
	TypeFrLogin uint16 = 0x001B
	TypeFrLogout uint16 = 0x001C
	TypeAddFriend uint16 = 0x001D
	TypeDelFriend uint16 = 0x001E
	TypeLobbyChg uint16 = 0x001F
	TypeBClients uint16 = 0x0020
	TypeKick    uint16 = 0x0021
	TypeFrList  uint16 = 0x0022
	TypeGlobalMsg uint16 = 0x0023
	TypeUserOpt uint16 = 0x0024
	TypeLogin6  uint16 = 0x0025
	TypeBBOpts  uint16 = 0x0026
	TypeBBOptReq uint16 = 0x0027
	TypeCBkup   uint16 = 0x0028
	TypeMKill   uint16 = 0x0029
	TypeTLogin  uint16 = 0x002A
	TypeSChunk  uint16 = 0x002B // script chunk
	TypeSData   uint16 = 0x002C // script data
	TypeSSet    uint16 = 0x002D // script set
	TypeQFlagSet uint16 = 0x002E
	TypeQFlagGet uint16 = 0x002F
	TypeShipCtl uint16 = 0x0030
	TypeUBlocks uint16 = 0x0031
	TypeUBlAdd  uint16 = 0x0032
)

// EncodeHeader writes h in wire order into dst, which must be at least
// HeaderSize bytes. Little-endian, matching every other wire structure in
// this codebase.
func EncodeHeader(h Header, dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], h.Len)
	binary.LittleEndian.PutUint16(dst[2:4], h.Type)
	dst[4] = h.Version
	dst[5] = h.Reserved
	binary.LittleEndian.PutUint16(dst[6:8], h.Flags)
}

// DecodeHeader reads a Header from the first HeaderSize bytes of src.
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fmt.Errorf("shipgate: short header (%d bytes)", len(src))
	}
	return Header{
		Len:      binary.LittleEndian.Uint16(src[0:2]),
		Type:     binary.LittleEndian.Uint16(src[2:4]),
		Version:  src[4],
		Reserved: src[5],
		Flags:    binary.LittleEndian.Uint16(src[6:8]),
	}, nil
}

// Frame is one full shipgate message: header plus body.
type Frame struct {
	Header Header
	Body   []byte
}

// Encode renders a Frame to wire bytes, computing Header.Len from the body
// length.
func Encode(pktType uint16, flags Flags, body []byte) []byte {
	h := Header{
		Len:     uint16(HeaderSize + len(body)),
		Type:    pktType,
		Version: ProtoVersion,
		Flags:   uint16(flags),
	}
	out := make([]byte, HeaderSize+len(body))
	EncodeHeader(h, out)
	copy(out[HeaderSize:], body)
	return out
}

// Framer extracts complete Frames from a byte stream, buffering partial
// reads the way internal/protocol.Framer does for the client-facing wire.
type Framer struct {
	buf []byte
}

// Feed appends newly read bytes and returns every complete frame now
// available, leaving any partial tail buffered for the next call.
func (f *Framer) Feed(data []byte) ([]Frame, error) {
	f.buf = append(f.buf, data...)

	var out []Frame
	for {
		if len(f.buf) < HeaderSize {
			return out, nil
		}
		h, err := DecodeHeader(f.buf)
		if err != nil {
			return out, err
		}
		if int(h.Len) < HeaderSize {
			return out, fmt.Errorf("shipgate: header declares length %d < header size", h.Len)
		}
		if len(f.buf) < int(h.Len) {
			return out, nil
		}
		body := append([]byte(nil), f.buf[HeaderSize:h.Len]...)
		out = append(out, Frame{Header: h, Body: body})
		f.buf = f.buf[h.Len:]
	}
}
