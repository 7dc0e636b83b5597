package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random root seed using crypto/rand.
//
// This is the only non-deterministic entry point in the package. It runs
// once, when the operator does not supply a world seed; the chosen value is
// recorded in the genesis event so every later derivation stays reproducible.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
