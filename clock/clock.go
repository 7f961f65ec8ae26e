// Package clock provides the frame limiter and the periodic tick timers that
// drive gravity and soft drop.
package clock

import (
	"time"

	benclock "github.com/benbjohnson/clock"
)

// Clock is the time source. Production code uses New; tests use NewMock.
type Clock = benclock.Clock

// Mock is a manually advanced Clock.
type Mock = benclock.Mock

// New returns the wall clock.
func New() Clock {
	return benclock.New()
}

// NewMock returns a clock frozen at the epoch until Add or Set is called.
func NewMock() *Mock {
	return benclock.NewMock()
}

// Limiter blocks until the next frame boundary at a fixed rate.
// A limiter without a clock steps virtual time instead.
type Limiter struct {
	clk    Clock
	period time.Duration
	last   time.Time
}

// NewLimiter paces frames at fps using clk.
func NewLimiter(clk Clock, fps int) *Limiter {
	return &Limiter{
		clk:    clk,
		period: time.Second / time.Duration(fps),
		last:   clk.Now(),
	}
}

// NewStepLimiter returns a limiter that never sleeps: every Wait reports
// exactly one period. It is meant for headless runs in virtual time.
func NewStepLimiter(fps int) *Limiter {
	return &Limiter{period: time.Second / time.Duration(fps)}
}

// Period is the target frame duration.
func (l *Limiter) Period() time.Duration {
	return l.period
}

// Wait sleeps until at least one period has passed since the previous call and
// returns the real time elapsed since then. A late caller does not sleep.
func (l *Limiter) Wait() time.Duration {
	if l.clk == nil {
		return l.period
	}
	if d := l.last.Add(l.period).Sub(l.clk.Now()); d > 0 {
		l.clk.Sleep(d)
	}

	now := l.clk.Now()
	elapsed := now.Sub(l.last)
	l.last = now
	return elapsed
}

// Ticker raises a flag every period of accumulated time. Pending fires do not
// queue: however much time is added, Advance reports at most one.
type Ticker struct {
	period  time.Duration
	elapsed time.Duration
	running bool
}

// NewTicker creates a running ticker.
func NewTicker(period time.Duration) *Ticker {
	return &Ticker{period: period, running: true}
}

// Advance adds d and reports whether the period was reached.
func (t *Ticker) Advance(d time.Duration) bool {
	if !t.running || t.period <= 0 {
		return false
	}

	t.elapsed += d
	if t.elapsed < t.period {
		return false
	}
	t.elapsed %= t.period
	return true
}

// Stop suspends the ticker; time added while stopped is ignored.
func (t *Ticker) Stop() {
	t.running = false
}

// Reset re-arms the ticker with a new period, starting a fresh cycle.
func (t *Ticker) Reset(period time.Duration) {
	t.period = period
	t.elapsed = 0
	t.running = true
}

func (t *Ticker) Period() time.Duration { return t.period }

func (t *Ticker) Running() bool { return t.running }
