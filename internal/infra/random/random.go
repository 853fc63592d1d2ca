// Package random provides the unpredictable source behind every
// outcome draw. Seeding from crypto/rand keeps draws non-reproducible
// across restarts; tests inject their own seeded *rand.Rand instead.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a *rand.Rand seeded from crypto/rand.
// The returned source is not safe for concurrent use; callers
// serialize access themselves.
func NewRand() (*rand.Rand, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}

	return rand.New(rand.NewSource(seed)), nil
}
