package game

import (
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/tetromino"
)

// kickOffsets are the horizontal shifts, in cells from the starting position,
// tried after an in-place rotation.
var kickOffsets = [...]int{0, +1, -1}

// wallKick turns t counter-clockwise and commits the first candidate position
// that fits. When none does, t is left exactly as it was.
//
// I tiles only try the in-place rotation.
func wallKick(t *tetromino.Tile, b *board.Board) bool {
	origin := t.Position()
	t.Rotate(tetromino.CCW)

	offsets := kickOffsets[:]
	if t.Type() == tetromino.I {
		offsets = offsets[:1]
	}

	for _, dx := range offsets {
		t.MoveTo(origin)
		t.Move(dx, 0)
		if t.Permitted(b) {
			return true
		}
	}

	t.MoveTo(origin)
	t.Rotate(tetromino.CW)
	return false
}
