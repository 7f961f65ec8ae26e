// Package tetromino holds the shape table, the active falling tile and the
// queries that test a tile against the board: legality, landing distance and
// contact.
package tetromino

import (
	"image"
	"iter"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/config"
)

// Direction selects which way Rotate turns.
type Direction int

const (
	// CCW advances the rotation index.
	CCW Direction = 1
	// CW retreats the rotation index.
	CW Direction = -1
)

// Tile is the active tetromino. Its position is the pixel coordinate of the
// top-left corner of its 4x4 bounding box.
type Tile struct {
	typ      Type
	rotation int
	pos      image.Point

	origin   image.Point
	cellSize int

	// Falling is set by the gravity tick and consumed by one downward step.
	Falling bool
	// CanSoftDrop is set by the soft-drop tick and consumed by one soft drop.
	CanSoftDrop bool

	rotationAllowed bool
}

// Spawn creates a tile of type typ in rotation state 0, horizontally centred
// and one row above the visible grid.
func Spawn(cfg config.Config, typ Type) *Tile {
	t := &Tile{
		typ:      typ,
		origin:   image.Pt(cfg.OriginX, cfg.OriginY),
		cellSize: cfg.CellSize,
	}

	col := cfg.Cols/2 - 1
	if typ == I || typ == O {
		col = cfg.Cols/2 - 2
	}
	t.pos = image.Pt(cfg.OriginX+col*cfg.CellSize, cfg.OriginY-cfg.CellSize)

	return t
}

func (t *Tile) Type() Type { return t.typ }

func (t *Tile) Rotation() int { return t.rotation }

// Position is the pixel position of the bounding box.
func (t *Tile) Position() image.Point { return t.pos }

// RotationAllowed reports the outcome of the last rotation attempt. It is
// false for a freshly spawned tile.
func (t *Tile) RotationAllowed() bool { return t.rotationAllowed }

// SetRotationAllowed records the outcome of a rotation attempt.
func (t *Tile) SetRotationAllowed(ok bool) { t.rotationAllowed = ok }

// Rotate changes the rotation state only. Legality is the caller's concern.
func (t *Tile) Rotate(dir Direction) {
	t.rotation = mod(t.rotation+int(dir), States)
}

// Configuration is the current rotation state.
func (t *Tile) Configuration() Matrix {
	return Shape(t.typ, t.rotation)
}

// Move shifts the tile by whole cells.
func (t *Tile) Move(dCols, dRows int) {
	t.pos = t.pos.Add(image.Pt(dCols*t.cellSize, dRows*t.cellSize))
}

// MoveTo places the bounding box at a pixel position.
func (t *Tile) MoveTo(p image.Point) {
	t.pos = p
}

// Cell is the board coordinate of the bounding box's top-left corner. It can
// be above the grid (negative row) right after spawning.
func (t *Tile) Cell() board.Point {
	d := t.pos.Sub(t.origin)
	return board.Point{
		Row: floorDiv(d.Y, t.cellSize),
		Col: floorDiv(d.X, t.cellSize),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Cells yields the board coordinates of every block.
func (t *Tile) Cells() iter.Seq[board.Point] {
	return func(yield func(board.Point) bool) {
		m := t.Configuration()
		base := t.Cell()
		for r := range m {
			for c := range m[r] {
				if !m[r][c] {
					continue
				}
				if !yield(board.Point{Row: base.Row + r, Col: base.Col + c}) {
					return
				}
			}
		}
	}
}

// Fill is the value written into the board when the tile locks.
func (t *Tile) Fill() board.Cell {
	return t.typ.Cell()
}

// Permitted reports whether every block is inside the grid and on an empty
// cell.
func (t *Tile) Permitted(b *board.Board) bool {
	for pt := range t.Cells() {
		if !b.InBounds(pt.Row, pt.Col) || b.At(pt.Row, pt.Col) != board.Empty {
			return false
		}
	}
	return true
}

// DropDistance is the number of rows the tile can fall before it rests on the
// stack or the floor: the smallest free run below the lowest block of each
// column.
func (t *Tile) DropDistance(b *board.Board) int {
	m := t.Configuration()
	base := t.Cell()

	best := -1
	for c := 0; c < 4; c++ {
		lowest := -1
		for r := 3; r >= 0; r-- {
			if m[r][c] {
				lowest = r
				break
			}
		}
		if lowest < 0 {
			continue
		}

		col := base.Col + c
		row := base.Row + lowest
		d := 0
		for row+1 < b.Rows() && !blocked(b, row+1, col) {
			d++
			row++
		}

		if best < 0 || d < best {
			best = d
		}
	}

	if best < 0 {
		return 0
	}
	return best
}

// blocked reports whether (row, col) stops a block. Rows above the grid are
// open; everything else outside the grid is a wall.
func blocked(b *board.Board, row, col int) bool {
	if row < 0 && col >= 0 && col < b.Cols() {
		return false
	}
	if !b.InBounds(row, col) {
		return true
	}
	return b.At(row, col) != board.Empty
}
