// Package event carries game notifications from the core to its consumers
// (audio, UI, metrics). Listeners run synchronously in subscription order.
package event

import (
	"fmt"

	"github.com/kamstrup/intmap"
)

// Kind tags an event.
type Kind uint8

const (
	KindRotation Kind = iota + 1
	KindLinesCompleted
	KindSoftDrop
	KindHardDrop
	KindGamePaused
	KindGameResumed
	KindLevelUp
	KindTileLocked
	KindGameOver
)

var kindNames = map[Kind]string{
	KindRotation:       "rotation",
	KindLinesCompleted: "lines_completed",
	KindSoftDrop:       "soft_drop",
	KindHardDrop:       "hard_drop",
	KindGamePaused:     "game_paused",
	KindGameResumed:    "game_resumed",
	KindLevelUp:        "level_up",
	KindTileLocked:     "tile_locked",
	KindGameOver:       "game_over",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is one of the concrete payload types below.
type Event interface {
	Kind() Kind
}

type Rotation struct{}

type LinesCompleted struct {
	Count int
}

type SoftDrop struct{}

type HardDrop struct {
	Distance int
}

type GamePaused struct{}

type GameResumed struct{}

// LevelUp carries the level just reached.
type LevelUp struct {
	Level int
}

// TileLocked names the tetromino merged into the board ("I", "T", ...).
type TileLocked struct {
	Piece string
}

type GameOver struct {
	Score int
}

func (Rotation) Kind() Kind       { return KindRotation }
func (LinesCompleted) Kind() Kind { return KindLinesCompleted }
func (SoftDrop) Kind() Kind       { return KindSoftDrop }
func (HardDrop) Kind() Kind       { return KindHardDrop }
func (GamePaused) Kind() Kind     { return KindGamePaused }
func (GameResumed) Kind() Kind    { return KindGameResumed }
func (LevelUp) Kind() Kind        { return KindLevelUp }
func (TileLocked) Kind() Kind     { return KindTileLocked }
func (GameOver) Kind() Kind       { return KindGameOver }

// Listener receives events it subscribed to.
type Listener func(Event)

type subscriber struct {
	id uint64
	fn Listener
}

// Bus maps event kinds to ordered listener lists. Listener slices are
// replaced rather than modified, so Emit iterates over a stable snapshot even
// if a listener subscribes or cancels during delivery.
type Bus struct {
	listeners *intmap.Map[Kind, []subscriber]
	nextID    uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: intmap.New[Kind, []subscriber](16),
	}
}

// Subscribe registers fn for kind and returns a function that removes it.
func (b *Bus) Subscribe(kind Kind, fn Listener) (cancel func()) {
	b.nextID++
	id := b.nextID

	current, _ := b.listeners.Get(kind)
	next := make([]subscriber, len(current), len(current)+1)
	copy(next, current)
	next = append(next, subscriber{id: id, fn: fn})
	b.listeners.Put(kind, next)

	return func() {
		b.unsubscribe(kind, id)
	}
}

func (b *Bus) unsubscribe(kind Kind, id uint64) {
	current, ok := b.listeners.Get(kind)
	if !ok {
		return
	}

	next := make([]subscriber, 0, len(current))
	for _, sub := range current {
		if sub.id != id {
			next = append(next, sub)
		}
	}

	if len(next) == 0 {
		b.listeners.Del(kind)
		return
	}
	b.listeners.Put(kind, next)
}

// Emit delivers e to every listener of its kind.
func (b *Bus) Emit(e Event) {
	subs, ok := b.listeners.Get(e.Kind())
	if !ok {
		return
	}
	for _, sub := range subs {
		sub.fn(e)
	}
}

// Count returns the number of listeners for kind.
func (b *Bus) Count(kind Kind) int {
	subs, _ := b.listeners.Get(kind)
	return len(subs)
}
