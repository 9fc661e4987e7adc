package selector

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// Source draws a uniform value in [0, bound). Production callers should use
// CryptoSource; tests may inject a deterministic source to make specific
// scenarios reproducible, per spec.md §5.
type Source interface {
	Uint64(bound uint64) uint64
}

// CryptoSource draws from crypto/rand. There is no third-party CSPRNG in
// the surrounding stack worth wrapping here — see DESIGN.md — so this
// wraps the standard library directly.
type CryptoSource struct{}

// Uint64 returns a uniform value in [0, bound). Panics if bound is 0; the
// caller (Select) never invokes it that way.
func (CryptoSource) Uint64(bound uint64) uint64 {
	n, err := rand.Int(rand.Reader, new(big.Int).SetUint64(bound))
	if err != nil {
		// crypto/rand.Int failed: fall back to one direct 8-byte read
		// reduced modulo bound (not exactly uniform), and panic if that
		// read fails too.
		var buf [8]byte
		if _, rerr := rand.Read(buf[:]); rerr != nil {
			panic(err)
		}
		return binary.BigEndian.Uint64(buf[:]) % bound
	}
	return n.Uint64()
}
