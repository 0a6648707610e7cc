package shipgate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	h := Header{Len: 42, Type: TypePing, Version: ProtoVersion, Flags: uint16(FlagResponse)}
	buf := make([]byte, HeaderSize)
	EncodeHeader(h, buf)

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestFlagsHas(t *testing.T) {
	f := FlagResponse | FlagFailure
	require.True(t, f.Has(FlagResponse))
	require.True(t, f.Has(FlagFailure))
	require.False(t, (FlagResponse).Has(FlagFailure))
}

func TestFramerFeedSingleCompleteFrame(t *testing.T) {
	body := []byte("hello")
	wire := Encode(TypePing, 0, body)

	var f Framer
	frames, err := f.Feed(wire)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, TypePing, frames[0].Header.Type)
	require.Equal(t, body, frames[0].Body)
}

func TestFramerFeedSplitAcrossCalls(t *testing.T) {
	body := []byte("a longer body than the header")
	wire := Encode(TypeCData, 0, body)

	var f Framer
	frames, err := f.Feed(wire[:3])
	require.NoError(t, err)
	require.Len(t, frames, 0)

	frames, err = f.Feed(wire[3:])
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.Equal(t, body, frames[0].Body)
}

func TestFramerFeedMultipleFramesInOneChunk(t *testing.T) {
	wire := append(Encode(TypePing, 0, nil), Encode(TypeCount, 0, []byte{1, 2, 3, 4})...)

	var f Framer
	frames, err := f.Feed(wire)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, TypePing, frames[0].Header.Type)
	require.Equal(t, TypeCount, frames[1].Header.Type)
}

func TestFramerRejectsUndersizedLength(t *testing.T) {
	bad := make([]byte, HeaderSize)
	EncodeHeader(Header{Len: 2, Type: TypePing}, bad)

	var f Framer
	_, err := f.Feed(bad)
	require.Error(t, err)
}
