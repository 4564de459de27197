package rng

import (
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Fixed replays a fixed list of floats, cycling when exhausted. It exists for
// tests that need to pin variance and crit rolls.
type Fixed struct {
	Values []float64
	pos    int
}

// NewFixed creates a Fixed source
func NewFixed(values ...float64) *Fixed {
	return &Fixed{Values: values}
}

// Next returns the next value in the list, 0 when the list is empty
func (f *Fixed) Next() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.pos%len(f.Values)]
	f.pos++
	return v
}

// NextInt scales the next value into [lo, hi)
func (f *Fixed) NextInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(f.Next()*float64(hi-lo))
	if n >= hi {
		n = hi - 1
	}
	return n
}

// Roll maps the next value onto a die of the given size
func (f *Fixed) Roll(size int) (int, error) {
	if size < 1 {
		return 0, errors.InvalidArgumentf("die size must be positive, got %d", size)
	}
	return f.NextInt(1, size+1), nil
}

// RollN rolls count dice of the given size
func (f *Fixed) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("dice count must not be negative, got %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := f.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
