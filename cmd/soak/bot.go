package main

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/input"
)

var botMoves = []struct {
	keys   input.Keys
	weight int
}{
	{input.Of(input.Left), 6},
	{input.Of(input.Right), 6},
	{input.Of(input.Rotate), 4},
	{input.Of(input.SoftDrop), 3},
	{input.Of(input.HardDrop), 1},
	{0, 4},
}

// bot presses a random action for a few frames, then releases for one frame
// so the next press registers as a new edge. It never pauses.
type bot struct {
	rng   *rand.Rand
	hold  input.Keys
	left  int
	total int
}

func newBot(seed uint64) *bot {
	b := &bot{rng: rand.New(rand.NewPCG(seed, seed+1))}
	for _, m := range botMoves {
		b.total += m.weight
	}
	return b
}

func (b *bot) Keys() input.Keys {
	if b.left > 0 {
		b.left--
		return b.hold
	}
	if b.hold != 0 {
		b.hold = 0
		return 0
	}

	n := b.rng.IntN(b.total)
	for _, m := range botMoves {
		if n < m.weight {
			b.hold = m.keys
			break
		}
		n -= m.weight
	}
	b.left = b.rng.IntN(3)
	return b.hold
}
