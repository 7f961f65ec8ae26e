package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button is a clickable label. It activates on release over the button.
type Button struct {
	X, Y          int
	Width, Height int
	Text          string
	hovered       bool
	pressed       bool
}

func NewButton(x, y, width, height int, label string) *Button {
	return &Button{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Text:   label,
	}
}

func (b *Button) contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// track feeds one frame of cursor state and reports whether the button was
// activated.
func (b *Button) track(mx, my int, down bool) bool {
	b.hovered = b.contains(mx, my)

	wasPressed := b.pressed
	b.pressed = b.hovered && down

	return wasPressed && !b.pressed && b.hovered
}

func (b *Button) Update() bool {
	mx, my := ebiten.CursorPosition()
	return b.track(mx, my, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := colorWhite
	fg := colorBlack
	switch {
	case b.pressed:
		bg = colorGrey
	case b.hovered:
		bg, fg = colorBlack, colorWhite
	}

	vector.DrawFilledRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		bg, false)

	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		2, colorWhite, false)

	bounds := text.BoundString(hudFont, b.Text)
	textX := b.X + (b.Width-bounds.Dx())/2
	textY := b.Y + (b.Height+bounds.Dy())/2

	text.Draw(screen, b.Text, hudFont, textX, textY, fg)
}

var (
	colorWhite   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorBlack   = color.RGBA{A: 255}
	colorGrey    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	colorRed     = color.RGBA{R: 255, A: 255}
	colorOverlay = color.RGBA{R: 128, G: 128, B: 128, A: 150}
)
