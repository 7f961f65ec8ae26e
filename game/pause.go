package game

import (
	"go.uber.org/zap"

	"github.com/plus3/blockfall/event"
	"github.com/plus3/blockfall/input"
)

// updatePause switches between running and paused.
//
// Pausing needs the pause key and more than PauseCooldown since the last
// resume. Resuming needs the resume button, or the pause key pressed again
// after being released while paused.
func (s *State) updatePause() {
	pauseHeld := s.keys.Held(input.Pause)

	if !s.paused && pauseHeld && s.resumeTimer > s.cfg.PauseCooldown {
		s.paused = true
		s.pauseKeyReleased = false
		s.gravity.Stop()
		s.logger.Debug("paused", zap.Int("score", s.score))
		s.bus.Emit(event.GamePaused{})
		return
	}

	if s.paused && (s.resumeRequested || (pauseHeld && s.pauseKeyReleased)) {
		s.paused = false
		s.resumeTimer = 0
		s.gravity.Reset(s.fallInterval)
		s.logger.Debug("resumed", zap.Bool("button", s.resumeRequested))
		s.bus.Emit(event.GameResumed{})
	}
}
