package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sylverant/psoship/internal/cipher"
)

func TestFramerConsumesOnlyWhenFullyBuffered(t *testing.T) {
	sendC := cipher.NewPreBBCipher(1, 2)
	recvC := cipher.NewPreBBCipher(1, 2)

	w := NewWriter(16)
	w.WriteUint16(0x1234)
	frame := w.FinishWithHeader(ShapeByteType, 0x05, 0, 8)
	sendC.Encrypt(frame)

	f := NewFramer(ShapeByteType, 8, recvC)

	// Feed one byte at a time; Next must report "not ok" until the whole
	// frame has arrived.
	for i := 0; i < len(frame)-1; i++ {
		f.Feed(frame[i : i+1])
		_, _, ok, err := f.Next()
		require.NoError(t, err)
		require.False(t, ok, "should not decode a partial frame at byte %d", i)
	}

	f.Feed(frame[len(frame)-1:])
	hdr, body, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint16(0x05), hdr.Type)
	require.True(t, len(body) >= 2)
}

func TestFramerHandlesBackToBackPackets(t *testing.T) {
	sendC := cipher.NewPreBBCipher(42, 99)
	recvC := cipher.NewPreBBCipher(42, 99)

	var all []byte
	for i := 0; i < 3; i++ {
		w := NewWriter(8)
		w.WriteByte(byte(i))
		frame := w.FinishWithHeader(ShapeByteType, uint16(i), 0, 8)
		sendC.Encrypt(frame)
		all = append(all, frame...)
	}

	f := NewFramer(ShapeByteType, 8, recvC)
	f.Feed(all)

	for i := 0; i < 3; i++ {
		hdr, _, ok, err := f.Next()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint16(i), hdr.Type)
	}

	_, _, ok, err := f.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFramerBBShape(t *testing.T) {
	sendC := cipher.NewBBCipher(5, 5)
	recvC := cipher.NewBBCipher(5, 5)

	w := NewWriter(8)
	w.WriteUint32(0xAABBCCDD)
	frame := w.FinishWithHeader(ShapeBB, 0x0102, 0xFF, 4)
	sendC.Encrypt(frame)

	f := NewFramer(ShapeBB, 4, recvC)
	f.Feed(frame)
	hdr, _, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint16(0x0102), hdr.Type)
	require.Equal(t, uint32(0xFF), hdr.Flags)
}
