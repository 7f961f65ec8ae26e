package tetromino

import "github.com/plus3/blockfall/board"

// Contact flags whether the tile touches a wall, the floor or a settled block
// on each side. They are recomputed every frame.
type Contact struct {
	Left, Right, Down bool
}

// Any reports whether any side is in contact.
func (c Contact) Any() bool {
	return c.Left || c.Right || c.Down
}

// DetectContact scans the outermost block of each row (left, right) and the
// lowest block of each column (down). A block sitting on an occupied cell,
// which only happens when a tile spawns into the stack, is in contact on
// every side.
func DetectContact(t *Tile, b *board.Board) Contact {
	m := t.Configuration()
	base := t.Cell()

	for pt := range t.Cells() {
		if pt.Row >= 0 && blocked(b, pt.Row, pt.Col) {
			return Contact{Left: true, Right: true, Down: true}
		}
	}

	var c Contact
	for r := 0; r < 4; r++ {
		row := base.Row + r

		for col := 0; col < 4; col++ {
			if m[r][col] {
				if blocked(b, row, base.Col+col-1) {
					c.Left = true
				}
				break
			}
		}

		for col := 3; col >= 0; col-- {
			if m[r][col] {
				if blocked(b, row, base.Col+col+1) {
					c.Right = true
				}
				break
			}
		}
	}

	for col := 0; col < 4; col++ {
		for r := 3; r >= 0; r-- {
			if m[r][col] {
				if blocked(b, base.Row+r+1, base.Col+col) {
					c.Down = true
				}
				break
			}
		}
	}

	return c
}
