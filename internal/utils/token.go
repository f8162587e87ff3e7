package utils // package utils provides helpers for password hashing and session tokens

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"strings"
	"sync"
)

// SessionTokenSize is the size of a session token in bytes (128 bits).
const SessionTokenSize = 16

// ErrInvalidSessionToken is returned when a cookie value does not encode an
// unsigned 128-bit integer.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is an opaque 128-bit session credential. The array holds the
// integer in little-endian byte order, which is also its storage form.
type SessionToken [SessionTokenSize]byte

// ParseSessionToken parses the decimal cookie form of a token.
func ParseSessionToken(s string) (SessionToken, error) {
	var t SessionToken
	if s == "" || strings.HasPrefix(s, "-") {
		return t, ErrInvalidSessionToken
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > SessionTokenSize*8 {
		return t, ErrInvalidSessionToken
	}
	var be [SessionTokenSize]byte
	n.FillBytes(be[:])
	for i := range be {
		t[i] = be[SessionTokenSize-1-i]
	}
	return t, nil
}

// String returns the decimal cookie form.
func (t SessionToken) String() string {
	var be [SessionTokenSize]byte
	for i := range t {
		be[SessionTokenSize-1-i] = t[i]
	}
	return new(big.Int).SetBytes(be[:]).String()
}

// Bytes returns the little-endian storage form.
func (t SessionToken) Bytes() []byte {
	b := make([]byte, SessionTokenSize)
	copy(b, t[:])
	return b
}

// TokenGenerator produces session tokens from a ChaCha8 stream seeded by the
// operating system's CSPRNG. It is safe for concurrent use; the lock is held
// only while one token is filled.
type TokenGenerator struct {
	mu  sync.Mutex
	rng *rand.ChaCha8
}

// NewTokenGenerator returns a generator with a fresh random seed.
func NewTokenGenerator() (*TokenGenerator, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("seed token generator: %w", err)
	}
	return NewTokenGeneratorFromSeed(seed), nil
}

// NewTokenGeneratorFromSeed returns a deterministic generator. Tests only.
func NewTokenGeneratorFromSeed(seed [32]byte) *TokenGenerator {
	return &TokenGenerator{rng: rand.NewChaCha8(seed)}
}

// New returns the next session token.
func (g *TokenGenerator) New() SessionToken {
	var t SessionToken
	g.mu.Lock()
	_, _ = g.rng.Read(t[:])
	g.mu.Unlock()
	return t
}
