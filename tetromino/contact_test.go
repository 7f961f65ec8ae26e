package tetromino_test

import (
	"testing"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/tetromino"
	"github.com/stretchr/testify/assert"
)

func TestDetectContact(t *testing.T) {
	cfg := config.Default()

	t.Run("free in open space", func(t *testing.T) {
		b := board.New(cfg)
		tile := tetromino.Spawn(cfg, tetromino.T)
		tile.Move(0, 5)
		assert.Equal(t, tetromino.Contact{}, tetromino.DetectContact(tile, b))
		assert.False(t, tetromino.DetectContact(tile, b).Any())
	})

	t.Run("left wall", func(t *testing.T) {
		b := board.New(cfg)
		tile := tetromino.Spawn(cfg, tetromino.T)
		tile.Move(-4, 5) // leftmost block at col 0
		c := tetromino.DetectContact(tile, b)
		assert.True(t, c.Left)
		assert.False(t, c.Right)
		assert.False(t, c.Down)
	})

	t.Run("right wall", func(t *testing.T) {
		b := board.New(cfg)
		tile := tetromino.Spawn(cfg, tetromino.T)
		tile.Move(3, 5) // rightmost block at col 9
		c := tetromino.DetectContact(tile, b)
		assert.False(t, c.Left)
		assert.True(t, c.Right)
	})

	t.Run("floor", func(t *testing.T) {
		b := board.New(cfg)
		tile := tetromino.Spawn(cfg, tetromino.O)
		tile.Move(0, 18)
		assert.True(t, tetromino.DetectContact(tile, b).Down)
	})

	t.Run("settled blocks", func(t *testing.T) {
		b := board.New(cfg)
		tile := tetromino.Spawn(cfg, tetromino.T)
		tile.Move(0, 5) // blocks (5,4) (5,5) (5,6) (6,5)

		b.Set(5, 3, 1)
		b.Set(7, 5, 1)
		c := tetromino.DetectContact(tile, b)
		assert.True(t, c.Left)
		assert.False(t, c.Right)
		assert.True(t, c.Down)

		// a block beside the stem row only matters for that row's outer block
		b = board.New(cfg)
		b.Set(6, 6, 1)
		c = tetromino.DetectContact(tile, b)
		assert.True(t, c.Right)
		assert.True(t, c.Down, "the right arm rests on (6,6)")
	})

	t.Run("overlap counts as contact", func(t *testing.T) {
		b := board.New(cfg)
		for col := 0; col < cfg.Cols; col++ {
			b.Set(0, col, 1)
		}
		tile := tetromino.Spawn(cfg, tetromino.J)
		assert.Equal(t, tetromino.Contact{Left: true, Right: true, Down: true}, tetromino.DetectContact(tile, b))
	})

	t.Run("rows above the grid are open", func(t *testing.T) {
		b := board.New(cfg)
		tile := tetromino.Spawn(cfg, tetromino.S)
		tile.Rotate(tetromino.CCW) // top block on row -1
		assert.False(t, tetromino.DetectContact(tile, b).Any())
	})
}
