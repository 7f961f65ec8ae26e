package tetromino

import (
	"fmt"
	"image/color"

	"github.com/plus3/blockfall/board"
)

// Type is one of the seven tetrominoes.
type Type uint8

const (
	I Type = iota
	J
	L
	O
	S
	T
	Z
	TypeCount
)

// States is the number of rotation states per type.
const States = 4

// Matrix is one 4x4 rotation state; true marks a block.
type Matrix [4][4]bool

var typeNames = [TypeCount]string{"I", "J", "L", "O", "S", "T", "Z"}

var typeColors = [TypeCount]color.RGBA{
	I: {R: 0, G: 255, B: 255, A: 255},
	J: {R: 0, G: 0, B: 255, A: 255},
	L: {R: 255, G: 127, B: 0, A: 255},
	O: {R: 255, G: 222, B: 33, A: 255},
	S: {R: 0, G: 255, B: 0, A: 255},
	T: {R: 128, G: 0, B: 128, A: 255},
	Z: {R: 255, G: 0, B: 0, A: 255},
}

func (t Type) String() string {
	if t < TypeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Color is the display colour of t.
func (t Type) Color() color.RGBA {
	return typeColors[t]
}

// Cell is the board fill value for t. Fills are offset by one so that no
// type collides with board.Empty.
func (t Type) Cell() board.Cell {
	return board.Cell(t) + 1
}

// CellType maps a board fill back to its type.
func CellType(c board.Cell) (Type, bool) {
	if c == board.Empty || c > board.Cell(TypeCount) {
		return 0, false
	}
	return Type(c - 1), true
}

// ParseType accepts a single letter type name.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("unknown tetromino type %q", s)
}

// Shape returns rotation state idx of t. idx is reduced modulo States.
func Shape(t Type, idx int) Matrix {
	return shapes[t][mod(idx, States)]
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

func matrix(rows ...string) Matrix {
	var m Matrix
	for r, line := range rows {
		for c, ch := range line {
			m[r][c] = ch == 'X'
		}
	}
	return m
}

var shapes = [TypeCount][States]Matrix{
	I: {
		matrix("....", "XXXX", "....", "...."),
		matrix("..X.", "..X.", "..X.", "..X."),
		matrix("....", "XXXX", "....", "...."),
		matrix("..X.", "..X.", "..X.", "..X."),
	},
	J: {
		matrix("....", "XXX.", "..X.", "...."),
		matrix(".XX.", ".X..", ".X..", "...."),
		matrix("....", "X...", "XXX.", "...."),
		matrix(".X..", ".X..", "XX..", "...."),
	},
	L: {
		matrix("....", "XXX.", "X...", "...."),
		matrix(".X..", ".X..", ".XX.", "...."),
		matrix("....", "..X.", "XXX.", "...."),
		matrix("XX..", ".X..", ".X..", "...."),
	},
	O: {
		matrix("....", ".XX.", ".XX.", "...."),
		matrix("....", ".XX.", ".XX.", "...."),
		matrix("....", ".XX.", ".XX.", "...."),
		matrix("....", ".XX.", ".XX.", "...."),
	},
	S: {
		matrix("....", ".XX.", "XX..", "...."),
		matrix("X...", "XX..", ".X..", "...."),
		matrix("....", ".XX.", "XX..", "...."),
		matrix("X...", "XX..", ".X..", "...."),
	},
	T: {
		matrix("....", "XXX.", ".X..", "...."),
		matrix(".X..", ".XX.", ".X..", "...."),
		matrix("....", ".X..", "XXX.", "...."),
		matrix(".X..", "XX..", ".X..", "...."),
	},
	Z: {
		matrix("....", "XX..", ".XX.", "...."),
		matrix("..X.", ".XX.", ".X..", "...."),
		matrix("....", "XX..", ".XX.", "...."),
		matrix("..X.", ".XX.", ".X..", "...."),
	},
}
