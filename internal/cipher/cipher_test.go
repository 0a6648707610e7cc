package cipher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreBBCipherRoundTrip(t *testing.T) {
	plain := []byte("PSO DreamcastNetworkTrialEditionWelcomePacket!!")
	enc := NewPreBBCipher(0xDEADBEEF, 0x12345678)
	dec := NewPreBBCipher(0xDEADBEEF, 0x12345678)

	buf := append([]byte(nil), plain...)
	enc.Encrypt(buf)
	require.NotEqual(t, plain, buf)
	dec.Decrypt(buf)
	require.Equal(t, plain, buf)
}

func TestBBCipherRoundTrip(t *testing.T) {
	plain := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 37) // not a multiple of 4
	enc := NewBBCipher(1, 2)
	dec := NewBBCipher(1, 2)

	buf := append([]byte(nil), plain...)
	enc.Encrypt(buf)
	dec.Decrypt(buf)
	require.Equal(t, plain, buf)
}

func TestDifferentSeedsProduceDifferentKeystreams(t *testing.T) {
	plain := bytes.Repeat([]byte{0xAA}, 64)

	a := NewPreBBCipher(1, 1)
	bufA := append([]byte(nil), plain...)
	a.Encrypt(bufA)

	b := NewPreBBCipher(2, 1)
	bufB := append([]byte(nil), plain...)
	b.Encrypt(bufB)

	require.NotEqual(t, bufA, bufB)
}

func TestStreamContinuesAcrossMultipleCalls(t *testing.T) {
	// Splitting a logical packet stream into two Encrypt calls must behave
	// identically to one call over the concatenation, since the cipher is a
	// pure keystream XOR with state carried in the cursor.
	plain := bytes.Repeat([]byte{0x42}, 40)

	whole := NewPreBBCipher(7, 9)
	wholeBuf := append([]byte(nil), plain...)
	whole.Encrypt(wholeBuf)

	split := NewPreBBCipher(7, 9)
	splitBuf := append([]byte(nil), plain...)
	split.Encrypt(splitBuf[:20])
	split.Encrypt(splitBuf[20:])

	require.Equal(t, wholeBuf, splitBuf)
}

func TestZeroSeedDoesNotDegenerate(t *testing.T) {
	plain := bytes.Repeat([]byte{0x00}, 16)
	c := NewPreBBCipher(0, 0)
	buf := append([]byte(nil), plain...)
	c.Encrypt(buf)
	require.NotEqual(t, plain, buf)
}
