// Package random provides the move-order sources for simulated games: a
// pluggable integer source and the Fisher-Yates permutation built on it.
package random

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// DefaultSeed is the seed used when none is configured
const DefaultSeed uint64 = 1729163

// ErrUnknownSource is returned for a source kind with no implementation
var ErrUnknownSource = errors.New("unknown random source kind")

// Source draws uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Kind selects a Source implementation
type Kind string

const (
	// KindXorshift is a 32-bit xorshift generator, cheap and reproducible.
	KindXorshift Kind = "xorshift"
	// KindMath wraps math/rand seeded with the configured seed.
	KindMath Kind = "math"
)

// ParseKind converts a configuration string to a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindXorshift, KindMath:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

// NewSource creates a seeded source of the given kind
func NewSource(kind Kind, seed uint64) (Source, error) {
	switch kind {
	case KindXorshift, "":
		return NewXorshift(seed), nil
	case KindMath:
		return rand.New(rand.NewSource(int64(seed))), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, string(kind))
	}
}

// ClockSeed derives a non-reproducible seed from the wall clock
func ClockSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Xorshift is Marsaglia's 32-bit xorshift generator (shifts 13, 17, 5).
// It is not safe for concurrent use; give each worker its own.
type Xorshift struct {
	state uint32
}

// NewXorshift seeds a generator with the low 32 bits of seed. Xorshift never
// leaves the all-zero state, so a zero seed falls back to DefaultSeed.
func NewXorshift(seed uint64) *Xorshift {
	s := uint32(seed)
	if s == 0 {
		s = uint32(DefaultSeed)
	}
	return &Xorshift{state: s}
}

// Uint32 advances the generator and returns the new state
func (x *Xorshift) Uint32() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

// Intn maps the next output onto [0, n) by multiply-shift. It panics if n <= 0.
func (x *Xorshift) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return int((uint64(x.Uint32()) * uint64(n)) >> 32)
}
