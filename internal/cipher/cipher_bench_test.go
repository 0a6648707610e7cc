package cipher

import "testing"

func BenchmarkPreBBCipherEncrypt(b *testing.B) {
	c := NewPreBBCipher(0xDEADBEEF, 0x12345678)
	buf := make([]byte, 2048)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Encrypt(buf)
	}
}

func BenchmarkBBCipherEncrypt(b *testing.B) {
	c := NewBBCipher(0xDEADBEEF, 0x12345678)
	buf := make([]byte, 2048)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Encrypt(buf)
	}
}
