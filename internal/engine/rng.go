package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"
)

// NewSeed reads a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRNG returns a generator seeded from crypto/rand, falling back to the
// clock if that fails. The result is not safe for concurrent use.
func NewRNG() *rand.Rand {
	seed, err := NewSeed()
	if err != nil {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
