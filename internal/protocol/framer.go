package protocol

import "fmt"

// Stream is a symmetric encrypt/decrypt keystream, satisfied by
// internal/cipher.PreBBCipher and internal/cipher.BBCipher.
type Stream interface {
	Encrypt([]byte)
	Decrypt([]byte)
}

// Framer accumulates inbound bytes and peels off complete, decrypted
// packets: a whole packet is consumed only when at least pkt_len bytes
// are buffered; otherwise data is left for the next read.
// The cipher is applied to the header first (headers are encrypted exactly
// like the body on every PSO version), so Framer decrypts greedily in
// minHeaderLen-then-remainder steps.
type Framer struct {
	shape  HeaderShape
	word   int
	in     Stream
	buf    []byte
	hdrLen int
	// pendingSize, when >0, is the total size of a header that has already
	// been decrypted and parsed, but whose body bytes haven't all arrived.
	pendingSize int
	pendingType uint16
	pendingFlag uint32
	haveHeader  bool
}

// NewFramer creates a Framer for the given version's header shape, draining
// ciphertext through in.
func NewFramer(shape HeaderShape, word int, in Stream) *Framer {
	return &Framer{shape: shape, word: word, in: in, hdrLen: minHeaderLen(shape)}
}

// Feed appends newly-read ciphertext bytes to the internal buffer.
func (f *Framer) Feed(data []byte) {
	f.buf = append(f.buf, data...)
}

// Next attempts to extract one fully-buffered packet. It returns ok=false
// (no error) when more bytes are needed.
func (f *Framer) Next() (hdr Header, body []byte, ok bool, err error) {
	if !f.haveHeader {
		if len(f.buf) < f.hdrLen {
			return Header{}, nil, false, nil
		}
		f.in.Decrypt(f.buf[:f.hdrLen])
		h, derr := DecodeHeader(f.shape, f.buf[:f.hdrLen])
		if derr != nil {
			return Header{}, nil, false, derr
		}
		if h.Size < f.hdrLen {
			return Header{}, nil, false, fmt.Errorf("protocol: packet size %d smaller than header %d", h.Size, f.hdrLen)
		}
		f.pendingSize = h.Size
		f.pendingType = h.Type
		f.pendingFlag = h.Flags
		f.haveHeader = true
	}

	if len(f.buf) < f.pendingSize {
		return Header{}, nil, false, nil
	}

	bodyLen := f.pendingSize - f.hdrLen
	if bodyLen > 0 {
		f.in.Decrypt(f.buf[f.hdrLen:f.pendingSize])
	}
	body = append([]byte(nil), f.buf[f.hdrLen:f.pendingSize]...)
	hdr = Header{Size: f.pendingSize, Type: f.pendingType, Flags: f.pendingFlag}

	f.buf = append([]byte(nil), f.buf[f.pendingSize:]...)
	f.haveHeader = false
	f.pendingSize = 0

	return hdr, body, true, nil
}
