package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/tetromino"
)

var hudFont = basicfont.Face7x13

const (
	gridThickness   = 2
	borderThickness = 2
	previewBorder   = 2
	lineHeight      = 20
)

// layout holds the pixel positions derived from the grid geometry.
type layout struct {
	cfg    config.Config
	width  int
	height int
	panelX int
	nextY  int
	statsY int
}

func newLayout(cfg config.Config) layout {
	gridRight := cfg.OriginX + cfg.Cols*cfg.CellSize
	gridBottom := cfg.OriginY + cfg.Rows*cfg.CellSize
	return layout{
		cfg:    cfg,
		width:  gridRight + 8*cfg.CellSize,
		height: gridBottom + cfg.OriginY,
		panelX: gridRight + cfg.CellSize,
		nextY:  cfg.OriginY + 2*lineHeight,
		statsY: cfg.OriginY + 7*cfg.CellSize,
	}
}

func drawBlock(screen *ebiten.Image, x, y, size int, fill, border color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(size), float32(size), fill, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(size), float32(size), borderThickness, border, false)
}

func (l layout) drawGrid(screen *ebiten.Image) {
	cfg := l.cfg
	w := float32(cfg.Cols * cfg.CellSize)
	h := float32(cfg.Rows * cfg.CellSize)
	ox, oy := float32(cfg.OriginX), float32(cfg.OriginY)

	for r := 0; r <= cfg.Rows; r++ {
		y := oy + float32(r*cfg.CellSize)
		vector.StrokeLine(screen, ox, y, ox+w, y, gridThickness, colorGrey, false)
	}
	for c := 0; c <= cfg.Cols; c++ {
		x := ox + float32(c*cfg.CellSize)
		vector.StrokeLine(screen, x, oy, x, oy+h, gridThickness, colorGrey, false)
	}
}

func (l layout) drawBoard(screen *ebiten.Image, b board.Reader) {
	cfg := l.cfg
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			typ, ok := tetromino.CellType(b.At(r, c))
			if !ok {
				continue
			}
			drawBlock(screen,
				cfg.OriginX+c*cfg.CellSize,
				cfg.OriginY+r*cfg.CellSize,
				cfg.CellSize, typ.Color(), colorWhite)
		}
	}
}

// drawMatrix draws a 4x4 shape with its bounding box at pos.
func (l layout) drawMatrix(screen *ebiten.Image, typ tetromino.Type, m tetromino.Matrix, pos image.Point) {
	size := l.cfg.CellSize
	for r := range m {
		for c := range m[r] {
			if !m[r][c] {
				continue
			}
			// Rows still above the grid are hidden.
			if pos.Y+r*size < l.cfg.OriginY {
				continue
			}
			drawBlock(screen, pos.X+c*size, pos.Y+r*size, size, typ.Color(), colorWhite)
		}
	}
}

// drawLanding outlines where the tile would come to rest: every block edge
// that does not touch another block of the same tile.
func (l layout) drawLanding(screen *ebiten.Image, m tetromino.Matrix, pos image.Point, distance int) {
	size := l.cfg.CellSize
	filled := func(r, c int) bool {
		return r >= 0 && r < 4 && c >= 0 && c < 4 && m[r][c]
	}

	for r := range m {
		for c := range m[r] {
			if !m[r][c] {
				continue
			}
			x0 := float32(pos.X + c*size)
			y0 := float32(pos.Y + (r+distance)*size)
			x1, y1 := x0+float32(size), y0+float32(size)

			if !filled(r-1, c) {
				vector.StrokeLine(screen, x0, y0, x1, y0, previewBorder, colorWhite, false)
			}
			if !filled(r, c-1) {
				vector.StrokeLine(screen, x0, y0, x0, y1, previewBorder, colorWhite, false)
			}
			if !filled(r+1, c) {
				vector.StrokeLine(screen, x0, y1, x1, y1, previewBorder, colorWhite, false)
			}
			if !filled(r, c+1) {
				vector.StrokeLine(screen, x1, y0, x1, y1, previewBorder, colorWhite, false)
			}
		}
	}
}

func (l layout) drawNext(screen *ebiten.Image, next tetromino.Type) {
	text.Draw(screen, "Next:", hudFont, l.panelX, l.nextY-8, colorWhite)

	size := l.cfg.CellSize
	vector.StrokeRect(screen, float32(l.panelX), float32(l.nextY),
		float32(4*size), float32(4*size), gridThickness, colorGrey, false)

	m := tetromino.Shape(next, 0)
	for r := range m {
		for c := range m[r] {
			if m[r][c] {
				drawBlock(screen, l.panelX+c*size, l.nextY+r*size, size, next.Color(), colorWhite)
			}
		}
	}
}

func (l layout) drawStats(screen *ebiten.Image, score, level, lines int) {
	y := l.statsY
	for _, line := range []string{
		fmt.Sprintf("Score: %d", score),
		fmt.Sprintf("Level: %d", level),
		fmt.Sprintf("Lines: %d", lines),
	} {
		text.Draw(screen, line, hudFont, l.panelX, y, colorWhite)
		y += lineHeight
	}
}

func (l layout) drawCentered(screen *ebiten.Image, msg string, y int, clr color.Color) {
	bounds := text.BoundString(hudFont, msg)
	text.Draw(screen, msg, hudFont, (l.width-bounds.Dx())/2, y, clr)
}

func (l layout) drawOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(l.width), float32(l.height), colorOverlay, false)
}
