// Package input defines the logical actions the game reacts to and the
// per-frame snapshot of which of them are held.
package input

import "strings"

// Action is a logical key, independent of the physical binding.
type Action uint8

const (
	Left Action = iota
	Right
	SoftDrop
	Rotate
	HardDrop
	Pause
	actionCount
)

var actionNames = [actionCount]string{
	Left:     "left",
	Right:    "right",
	SoftDrop: "soft_drop",
	Rotate:   "rotate",
	HardDrop: "hard_drop",
	Pause:    "pause",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return "unknown"
}

// Keys is a snapshot of held actions, refreshed once per frame.
type Keys uint8

// Of builds a snapshot with the given actions held.
func Of(actions ...Action) Keys {
	var k Keys
	for _, a := range actions {
		k = k.With(a)
	}
	return k
}

// With returns a copy of k with a held.
func (k Keys) With(a Action) Keys {
	return k | 1<<a
}

// Held reports whether a is held in this snapshot.
func (k Keys) Held(a Action) bool {
	return k&(1<<a) != 0
}

func (k Keys) String() string {
	var held []string
	for a := Action(0); a < actionCount; a++ {
		if k.Held(a) {
			held = append(held, a.String())
		}
	}
	return "[" + strings.Join(held, " ") + "]"
}
