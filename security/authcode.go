package security

import (
	"math/rand"
	"sync"
	"time"
)

// AuthCodeAlphabet is the fixed 62-symbol alphabet verification codes are
// drawn from. Validation relies on exact match, so the alphabet is part of
// the wire contract with the emailed URLs.
const AuthCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// AuthCodeLength is the number of characters in a verification code.
// 62^12 possible codes combined with a short TTL keeps the collision and
// guessing probability negligible without a check-then-insert round trip.
const AuthCodeLength = 12

// AuthCodeGenerator produces one-time verification codes from an injected
// random source, so tests can pin the output with a seeded source.
type AuthCodeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAuthCodeGenerator returns a generator backed by src, or by a
// time-seeded source when src is nil.
func NewAuthCodeGenerator(src rand.Source) *AuthCodeGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}

	return &AuthCodeGenerator{rng: rand.New(src)}
}

// Generate returns a fresh code of AuthCodeLength characters, each drawn
// independently and uniformly from AuthCodeAlphabet.
func (g *AuthCodeGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, AuthCodeLength)
	for i := range b {
		b[i] = AuthCodeAlphabet[g.rng.Intn(len(AuthCodeAlphabet))]
	}

	return string(b)
}
