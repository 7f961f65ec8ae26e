package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/blockfall/clock"
	"github.com/plus3/blockfall/input"
)

// RunOption tunes Run.
type RunOption func(*runConfig)

type runConfig struct {
	maxFrames int
	observe   func(update time.Duration)
}

// WithMaxFrames stops Run after n frames even if the game is still going.
func WithMaxFrames(n int) RunOption {
	return func(c *runConfig) {
		c.maxFrames = n
	}
}

// WithFrameObserver is called after every frame with the wall time spent in
// ProcessInput and Update.
func WithFrameObserver(fn func(update time.Duration)) RunOption {
	return func(c *runConfig) {
		c.observe = fn
	}
}

// Run steps the game at the limiter's rate until the game is over, the frame
// limit is hit or ctx is cancelled. keys is polled once per frame. It returns
// the number of frames played.
func (s *State) Run(ctx context.Context, limiter *clock.Limiter, keys func() input.Keys, opts ...RunOption) (int, error) {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}

	frames := 0
	for s.running && (rc.maxFrames <= 0 || frames < rc.maxFrames) {
		select {
		case <-ctx.Done():
			s.logger.Info("run cancelled", zap.Int("frames", frames))
			return frames, ctx.Err()
		default:
		}

		elapsed := limiter.Wait()

		start := time.Now()
		s.ProcessInput(keys(), elapsed)
		s.Update()
		if rc.observe != nil {
			rc.observe(time.Since(start))
		}
		frames++
	}

	s.logger.Info("run finished",
		zap.Int("frames", frames),
		zap.Int("score", s.score),
		zap.Bool("game_over", !s.running))
	return frames, nil
}
