// Package random provides the deterministic pseudo-random streams that feed
// the simulation.
//
// Every stream is derived from a root seed plus a list of purpose tags, so
// independent consumers (one match, one league schedule) never share state.
// No wall clock, host entropy, or map-iteration order reaches any output.
package random

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sort"
)

// Stream is a deterministic pseudo-random stream.
type Stream struct {
	rng *rand.Rand
}

// DeriveSeed hashes (seed, tags...) into the derived stream seed. Exposed so
// callers can record the value (e.g. in a match.started event) alongside the
// stream built from it.
func DeriveSeed(seed int64, tags ...string) int64 {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	for _, tag := range tags {
		h.Write([]byte{0})
		h.Write([]byte(tag))
	}
	sum := h.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// Derive builds a stream keyed by (seed, tags...). The same inputs always
// produce the same stream.
func Derive(seed int64, tags ...string) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(DeriveSeed(seed, tags...)))}
}

// Intn returns a uniform int in [0, n). It panics if n <= 0, matching
// math/rand semantics.
func (s *Stream) Intn(n int) int {
	return s.rng.Intn(n)
}

// IntBetween returns a uniform int in [low, high] inclusive.
func (s *Stream) IntBetween(low, high int) int {
	if high <= low {
		return low
	}
	return low + s.rng.Intn(high-low+1)
}

// Float64 returns a uniform float in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Chance reports true with probability p.
func (s *Stream) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Pick returns a uniformly chosen element. It panics on an empty slice.
func Pick[T any](s *Stream, items []T) T {
	return items[s.rng.Intn(len(items))]
}

// Weighted couples a candidate id with its selection weight.
type Weighted struct {
	ID     string
	Weight float64
}

// WeightedPick selects an id from candidates proportionally to weight.
//
// Candidates are sorted by id before sampling, so ties and the cumulative
// walk are independent of caller ordering; equal-weight candidates resolve
// lexicographically by id. Non-positive weights are treated as a minimal
// epsilon so every candidate stays reachable.
func WeightedPick(s *Stream, candidates []Weighted) string {
	if len(candidates) == 0 {
		return ""
	}
	sorted := make([]Weighted, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	const epsilon = 1e-9
	total := 0.0
	for _, c := range sorted {
		w := c.Weight
		if w <= 0 {
			w = epsilon
		}
		total += w
	}

	target := s.rng.Float64() * total
	cumulative := 0.0
	for _, c := range sorted {
		w := c.Weight
		if w <= 0 {
			w = epsilon
		}
		cumulative += w
		if target < cumulative {
			return c.ID
		}
	}
	return sorted[len(sorted)-1].ID
}
