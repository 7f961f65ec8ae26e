// Package board models the playfield: a fixed grid of settled blocks plus the
// line-clear engine that removes full rows and collapses the stack.
package board

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/plus3/blockfall/config"
)

// Cell is the content of one grid square. The zero value is Empty; any other
// value identifies what occupies the square.
type Cell uint8

// Empty marks an unoccupied cell.
const Empty Cell = 0

// Point addresses a grid cell. Row grows downward.
type Point struct {
	Row, Col int
}

// Piece is anything that can be merged into the board.
type Piece interface {
	// Cells yields the board coordinates of every block of the piece.
	Cells() iter.Seq[Point]
	// Fill is the value written for each block.
	Fill() Cell
}

// Reader is the read-only view handed to renderers.
type Reader interface {
	Rows() int
	Cols() int
	At(row, col int) Cell
}

// Board is the occupancy matrix, stored row-major.
type Board struct {
	rows, cols int
	cells      []Cell
}

// New creates an empty board sized by cfg.
func New(cfg config.Config) *Board {
	return &Board{
		rows:  cfg.Rows,
		cols:  cfg.Cols,
		cells: make([]Cell, cfg.Rows*cfg.Cols),
	}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

func (b *Board) index(row, col int) int {
	if !b.InBounds(row, col) {
		panic(fmt.Sprintf("board: cell (%d, %d) outside %dx%d grid", row, col, b.rows, b.cols))
	}
	return row*b.cols + col
}

// At returns the occupancy of (row, col). Out-of-range indices are a
// programming error and panic.
func (b *Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

// Set writes a single cell.
func (b *Board) Set(row, col int, c Cell) {
	b.cells[b.index(row, col)] = c
}

// Reset empties the whole grid.
func (b *Board) Reset() {
	clear(b.cells)
}

// Lock merges p into the grid. No legality check is done here; the caller must
// already have confirmed the position is permitted.
func (b *Board) Lock(p Piece) {
	fill := p.Fill()
	for pt := range p.Cells() {
		b.Set(pt.Row, pt.Col, fill)
	}
}

// CompletedRows returns the indices of full rows, bottom to top.
func (b *Board) CompletedRows() []int {
	var completed []int
	for row := b.rows - 1; row >= 0; row-- {
		filled := 0
		for col := 0; col < b.cols; col++ {
			if b.At(row, col) == Empty {
				filled = 0
				break
			}
			filled++
		}
		if filled == b.cols {
			completed = append(completed, row)
		}
	}
	return completed
}

// ClearAndCollapse empties the given rows and lets everything above them fall.
// A run of adjacent cleared rows drops the rows above it by the run's length
// in a single move; separate runs accumulate, so a row ends up shifted by the
// number of cleared rows beneath it. Rows vacated at the top become empty.
func (b *Board) ClearAndCollapse(rows []int) {
	if len(rows) == 0 {
		return
	}

	for _, row := range rows {
		for col := 0; col < b.cols; col++ {
			b.Set(row, col, Empty)
		}
	}

	shift := 0
	for row := b.rows - 1; row >= 0; row-- {
		if slices.Contains(rows, row) {
			shift++
			continue
		}
		if shift == 0 {
			continue
		}
		b.moveRow(row, row+shift)
	}

	for row := 0; row < shift; row++ {
		for col := 0; col < b.cols; col++ {
			b.Set(row, col, Empty)
		}
	}
}

func (b *Board) moveRow(from, to int) {
	src := b.cells[b.index(from, 0) : b.index(from, b.cols-1)+1]
	dst := b.cells[b.index(to, 0) : b.index(to, b.cols-1)+1]
	copy(dst, src)
	clear(src)
}

// TopRowOccupied reports whether any cell of row 0 is filled, which ends the
// game.
func (b *Board) TopRowOccupied() bool {
	for col := 0; col < b.cols; col++ {
		if b.At(0, col) != Empty {
			return true
		}
	}
	return false
}

// String renders the grid with '.' for empty and '#' for filled cells.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			if b.At(row, col) == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
