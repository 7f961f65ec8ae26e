package tetromino

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/plus3/blockfall/config"
)

// Source produces the type appended to the queue each time its head is
// consumed.
type Source interface {
	Next() Type
}

// RandomSource draws uniformly from the seven types.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource seeds a PCG generator. A zero seed draws one at random.
func NewRandomSource(seed uint64) *RandomSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandomSource) Next() Type {
	return Type(s.rng.IntN(int(TypeCount)))
}

// Sequence repeats a fixed list of types, for tests and replays.
type Sequence struct {
	types []Type
	pos   int
}

// NewSequence cycles through types in order. It panics on an empty list.
func NewSequence(types ...Type) *Sequence {
	if len(types) == 0 {
		panic("tetromino: empty sequence")
	}
	return &Sequence{types: types}
}

func (s *Sequence) Next() Type {
	t := s.types[s.pos]
	s.pos = (s.pos + 1) % len(s.types)
	return t
}

// Queue is the fixed-length FIFO of upcoming types. Its head is the type of
// the active tile and the second entry is the preview.
type Queue struct {
	items  deque.Deque[Type]
	source Source
	size   int
}

// NewQueue fills a queue of cfg.QueueSize entries from src.
func NewQueue(cfg config.Config, src Source) *Queue {
	q := &Queue{
		source: src,
		size:   cfg.QueueSize,
	}
	for q.items.Len() < q.size {
		q.items.PushBack(src.Next())
	}
	return q
}

// Current is the head of the queue.
func (q *Queue) Current() Type {
	return q.items.Front()
}

// Next is the preview entry.
func (q *Queue) Next() Type {
	return q.items.At(1)
}

// Advance drops the head and appends a new type from the source, keeping the
// length constant. It returns the new head.
func (q *Queue) Advance() Type {
	q.items.PopFront()
	q.items.PushBack(q.source.Next())
	return q.Current()
}

func (q *Queue) Len() int {
	return q.items.Len()
}

// Snapshot copies the queue, head first.
func (q *Queue) Snapshot() []Type {
	out := make([]Type, q.items.Len())
	for i := range out {
		out[i] = q.items.At(i)
	}
	return out
}
