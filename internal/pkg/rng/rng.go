// Package rng provides the seeded random streams shared by dungeon generation
// and combat.
//
// A run owns one master Stream. Subsystems never draw from it directly; they
// Fork a labelled child ("layout", "spawns", "combat", "ai") so that adding a
// draw in one subsystem never shifts the numbers another subsystem sees.
package rng

import (
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/cespare/xxhash/v2"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Source is the read side of a stream. Consumers accept a Source so tests can
// substitute fixed sequences.
type Source interface {
	// Next returns a float in [0, 1)
	Next() float64
	// NextInt returns an integer in [lo, hi)
	NextInt(lo, hi int) int
	// Roll and RollN roll dice from the same draws
	dice.Roller
}

// Stream is a deterministic random stream. It is not safe for concurrent use;
// the simulation is single threaded.
type Stream struct {
	seed  uint64
	path  string
	pcg   *rand.PCG
	draws uint64
}

// Ensure Stream can be handed to rpg-toolkit as a dice roller
var _ dice.Roller = (*Stream)(nil)

// New creates the master stream for a seed
func New(seed int64) *Stream {
	return newStream(uint64(seed), "")
}

func newStream(seed uint64, path string) *Stream {
	key := mix(seed ^ xxhash.Sum64String(path))
	return &Stream{
		seed: seed,
		path: path,
		pcg:  rand.NewPCG(key, mix(key)),
	}
}

// Seed returns the master seed this stream descends from
func (s *Stream) Seed() int64 {
	return int64(s.seed)
}

// Label returns the fork path, empty for the master stream
func (s *Stream) Label() string {
	return s.path
}

// Draws returns how many raw values have been consumed
func (s *Stream) Draws() uint64 {
	return s.draws
}

// Next returns a float in [0, 1) built from the top 53 bits of one draw
func (s *Stream) Next() float64 {
	return float64(s.next()>>11) / (1 << 53)
}

// NextInt returns an integer in [lo, hi). An empty range returns lo without
// consuming a draw.
func (s *Stream) NextInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo)
	return lo + int(s.next()%span)
}

// Fork derives an independent stream keyed by label. The child depends only on
// the master seed and the label path, never on how far the parent has advanced.
func (s *Stream) Fork(label string) *Stream {
	path := label
	if s.path != "" {
		path = s.path + "/" + label
	}
	return newStream(s.seed, path)
}

// Int63 returns a non-negative int64, used to derive seeds for child
// generators
func (s *Stream) Int63() int64 {
	return int64(s.next() >> 1)
}

// Chance returns true with probability p
func (s *Stream) Chance(p float64) bool {
	return s.Next() < p
}

// Roll rolls a single die with the given number of sides
func (s *Stream) Roll(size int) (int, error) {
	if size < 1 {
		return 0, errors.InvalidArgumentf("die size must be positive, got %d", size)
	}
	return s.NextInt(1, size+1), nil
}

// RollN rolls count dice of the given size
func (s *Stream) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("dice count must not be negative, got %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Stream) next() uint64 {
	s.draws++
	return s.pcg.Uint64()
}

// mix is the splitmix64 finalizer
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
