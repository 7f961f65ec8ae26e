package game

import (
	"go.uber.org/zap"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/event"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetromino"
)

// debounceSystem re-enables one-shot actions once their keys are released, so
// a held key acts once per press rather than once per frame.
type debounceSystem struct {
	state *State
}

func (sys *debounceSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state
	keys := frame.Keys

	if s.lateralDisabled && !keys.Held(input.Left) && !keys.Held(input.Right) {
		s.lateralDisabled = false
	}
	if s.rotationDisabled && !keys.Held(input.Rotate) {
		s.rotationDisabled = false
	}
	if s.hardDropDisabled && !keys.Held(input.HardDrop) {
		s.hardDropDisabled = false
	}
}

type contactSystem struct {
	state *State
}

func (sys *contactSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state
	s.contacts = tetromino.DetectContact(s.tile, s.board)
}

// lateralSystem moves the tile one column when exactly one direction key is
// held and nothing blocks that side.
type lateralSystem struct {
	state *State
}

func (sys *lateralSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state
	if s.lateralDisabled {
		return
	}

	left := frame.Keys.Held(input.Left)
	right := frame.Keys.Held(input.Right)

	switch {
	case left && !right && !s.contacts.Left:
		s.tile.Move(-1, 0)
	case right && !left && !s.contacts.Right:
		s.tile.Move(1, 0)
	default:
		return
	}

	s.lateralDisabled = true
	s.contacts = tetromino.DetectContact(s.tile, s.board)
}

type rotationSystem struct {
	state *State
}

func (sys *rotationSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state
	if s.rotationDisabled || !frame.Keys.Held(input.Rotate) {
		return
	}

	ok := wallKick(s.tile, s.board)
	s.tile.SetRotationAllowed(ok)
	if !ok {
		return
	}

	s.rotationDisabled = true
	s.contacts = tetromino.DetectContact(s.tile, s.board)
	frame.Commands.Emit(event.Rotation{})
}

// verticalSystem moves the tile down (soft drop, hard drop or gravity) while
// it is airborne, and locks it once it has rested on the stack for the lock
// delay.
type verticalSystem struct {
	state *State
}

func (sys *verticalSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state
	keys := frame.Keys

	if !s.contacts.Down {
		s.downContactTimer = 0

		switch {
		case keys.Held(input.SoftDrop):
			if !s.tile.CanSoftDrop {
				return
			}
			s.tile.CanSoftDrop = false
			s.tile.Move(0, 1)
			s.score += s.cfg.SoftDropScore
			frame.Commands.Emit(event.SoftDrop{})

		case keys.Held(input.HardDrop) && !s.hardDropDisabled:
			distance := s.tile.DropDistance(s.board)
			s.tile.Move(0, distance)
			s.hardDropDisabled = true
			s.score += s.cfg.HardDropMultiplier * distance
			frame.Commands.Emit(event.HardDrop{Distance: distance})

		case s.tile.Falling:
			s.tile.Falling = false
			s.tile.Move(0, 1)
		}
		return
	}

	s.downContactTimer += frame.DeltaTime
	if s.downContactTimer < s.cfg.LockDelay {
		return
	}

	s.downContactTimer = 0
	s.board.Lock(s.tile)
	frame.Commands.Emit(event.TileLocked{Piece: s.tile.Type().String()})
	s.logger.Debug("tile locked",
		zap.Stringer("type", s.tile.Type()),
		zap.Int("row", s.tile.Cell().Row),
		zap.Int("col", s.tile.Cell().Col),
	)

	s.queue.Advance()
	s.spawn(frame.Commands)
}

// lineClearSystem removes completed rows and applies scoring and levelling.
type lineClearSystem struct {
	state *State
}

func (sys *lineClearSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state

	rows := s.board.CompletedRows()
	if len(rows) == 0 {
		return
	}

	s.board.ClearAndCollapse(rows)
	s.lines += len(rows)
	s.score += s.cfg.LineClearScore(len(rows)) * s.level
	frame.Commands.Emit(event.LinesCompleted{Count: len(rows)})

	for s.lines >= s.level*s.cfg.LinesPerLevel && s.level < s.cfg.MaxLevel {
		s.level++
		s.fallInterval = max(s.fallInterval-s.cfg.FallIntervalDelta, s.cfg.MinFallInterval)
		s.gravity.Reset(s.fallInterval)
		frame.Commands.Emit(event.LevelUp{Level: s.level})
		s.logger.Info("level up",
			zap.Int("level", s.level),
			zap.Duration("fall_interval", s.fallInterval),
		)
	}
}

type gameOverSystem struct {
	state *State
}

func (sys *gameOverSystem) Execute(frame *engine.UpdateFrame) {
	s := sys.state
	if s.board.TopRowOccupied() {
		s.endGame(frame.Commands, "top row occupied")
	}
}
