package cipher

// Cipher is the common interface implemented by PreBBCipher and BBCipher,
// letting callers (the client session, the framer) stay version-agnostic
// once the handshake has picked one.
type Cipher interface {
	Encrypt(data []byte)
	Decrypt(data []byte)
}

// Pair holds the two independent keystreams negotiated at handshake: one
// for traffic the server sends, one for traffic the client sends. PSO's
// handshake exchanges a single seed pair and derives both directions from
// it, so the two sides never share cursor state even though
// they're seeded together.
type Pair struct {
	Send Cipher
	Recv Cipher
}

// NewPreBBPair builds a pre-BB Pair from the seed pair exchanged during the
// welcome handshake, one cipher instance per direction so that send/recv
// cursors advance independently.
func NewPreBBPair(seedLo, seedHi uint32) *Pair {
	return &Pair{
		Send: NewPreBBCipher(seedLo, seedHi),
		Recv: NewPreBBCipher(seedLo, seedHi),
	}
}

// NewBBPair builds a Blue Burst Pair the same way, using the 1042-state
// table.
func NewBBPair(seedLo, seedHi uint32) *Pair {
	return &Pair{
		Send: NewBBCipher(seedLo, seedHi),
		Recv: NewBBCipher(seedLo, seedHi),
	}
}
