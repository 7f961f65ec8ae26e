// Package engine runs an ordered list of systems once per frame and keeps
// per-system timing statistics.
package engine

import (
	"reflect"
	"time"

	"github.com/plus3/blockfall/input"
)

// SchedulerStats is a snapshot of the pipeline's timings.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats is the timing of one system, named after its type.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// slot is a registered system and its running totals.
type slot struct {
	system System
	name   string
	runs   int64
	min    time.Duration
	max    time.Duration
	last   time.Duration
	total  time.Duration
}

func (s *slot) record(d time.Duration) {
	if s.runs == 0 || d < s.min {
		s.min = d
	}
	s.max = max(s.max, d)
	s.last = d
	s.total += d
	s.runs++
}

func (s *slot) stats() SystemStats {
	st := SystemStats{
		Name:           s.name,
		ExecutionCount: s.runs,
		MinDuration:    s.min,
		MaxDuration:    s.max,
		LastDuration:   s.last,
		TotalDuration:  s.total,
	}
	if s.runs > 0 {
		st.AvgDuration = s.total / time.Duration(s.runs)
	}
	return st
}

// Scheduler runs its systems in registration order.
type Scheduler struct {
	emitter  Emitter
	commands Commands
	slots    []*slot
}

// NewScheduler creates a scheduler whose frame events are flushed to emitter.
func NewScheduler(emitter Emitter) *Scheduler {
	return &Scheduler{emitter: emitter}
}

// Register appends a system to the pipeline.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.slots = append(s.slots, &slot{system: system, name: t.Name()})
}

// Once executes all registered systems once, then flushes the frame's
// events.
func (s *Scheduler) Once(dt time.Duration, keys input.Keys) {
	frame := newUpdateFrame(dt, keys, &s.commands)

	for _, sl := range s.slots {
		start := time.Now()
		sl.system.Execute(frame)
		sl.record(time.Since(start))
	}

	s.commands.Flush(s.emitter)
}

// GetStats snapshots the timings. Systems that never ran report zero
// durations.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.slots),
		Systems:     make([]SystemStats, len(s.slots)),
	}
	for i, sl := range s.slots {
		stats.Systems[i] = sl.stats()
		stats.TotalExecutions += sl.runs
	}
	return stats
}
