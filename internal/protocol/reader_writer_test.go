package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(32)
	w.WriteByte(0x7F)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint64(0x0102030405060708)
	w.WriteFixedString16LE("Ringvela", 16)
	w.WriteFixedStringASCII("DCv1", 8)

	r := NewReader(w.Bytes())

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x7F), b)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	name, err := r.ReadFixedString16LE(16)
	require.NoError(t, err)
	require.Equal(t, "Ringvela", name)

	tag, err := r.ReadFixedStringASCII(8)
	require.NoError(t, err)
	require.Equal(t, "DCv1", tag)
}

func TestReaderShortReadError(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint32()
	require.Error(t, err)
}

func TestWriterPadAndHeaderRoundTrip(t *testing.T) {
	w := NewWriter(8)
	w.WriteByte(1)
	w.WriteByte(2)
	w.WriteByte(3)
	frame := w.FinishWithHeader(ShapeByteType, 0x60, 0, 8)

	require.Equal(t, 0, len(frame)%8)

	hdr, err := DecodeHeader(ShapeByteType, frame)
	require.NoError(t, err)
	require.Equal(t, len(frame), hdr.Size)
	require.Equal(t, uint16(0x60), hdr.Type)
}

func TestPadLen(t *testing.T) {
	require.Equal(t, 0, PadLen(8, 8))
	require.Equal(t, 4, PadLen(4, 8))
	require.Equal(t, 7, PadLen(1, 8))
}
