package game

import (
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/tetromino"
)

var WallKick = wallKick

func (s *State) MutableBoard() *board.Board { return s.board }

func (s *State) ActiveTile() *tetromino.Tile { return s.tile }

func (s *State) Respawn() { s.spawn(s.bus) }

func (s *State) SetProgress(level, lines int) {
	s.level = level
	s.lines = lines
}
