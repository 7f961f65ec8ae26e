package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plus3/blockfall/engine"
)

type Report struct {
	// Configuration
	Games     int
	MaxFrames int
	Seed      uint64
	Realtime  bool
	Rows      int
	Cols      int

	// Results
	GameResults   []GameResult
	TotalFrames   int64
	TotalTime     time.Duration
	UpdateTime    Stats
	Systems       []engine.SystemStats
	Metrics       []MetricValue
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type GameResult struct {
	Session  string
	Frames   int
	Score    int
	Lines    int
	Level    int
	Finished bool
}

type MetricValue struct {
	Name  string
	Value float64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// BestScore is the highest score across all games.
func (r *Report) BestScore() int {
	best := 0
	for _, g := range r.GameResults {
		best = max(best, g.Score)
	}
	return best
}

func (r *Report) TotalLines() int {
	total := 0
	for _, g := range r.GameResults {
		total += g.Lines
	}
	return total
}

// CollectMetrics sums every sample of each gathered counter and gauge.
func (r *Report) CollectMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	r.Metrics = r.Metrics[:0]
	for _, mf := range families {
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		r.Metrics = append(r.Metrics, MetricValue{Name: mf.GetName(), Value: sum})
	}
	sort.Slice(r.Metrics, func(i, j int) bool { return r.Metrics[i].Name < r.Metrics[j].Name })
	return nil
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Soak Report

## Configuration
- **Games:** {{.Games}}
- **Frame Limit Per Game:** {{.MaxFrames}}
- **Seed:** {{.Seed}}
- **Clock:** {{if .Realtime}}real{{else}}virtual{{end}}
- **Board:** {{.Cols}}x{{.Rows}}

## Games
| Session | Frames | Score | Lines | Level | Finished |
|---------|--------|-------|-------|-------|----------|
{{- range .GameResults}}
| {{.Session}} | {{.Frames}} | {{.Score}} | {{.Lines}} | {{.Level}} | {{.Finished}} |
{{- end}}

- **Best Score:** {{.BestScore}}
- **Total Lines:** {{.TotalLines}}

## Performance Results
- **Total Frames:** {{.TotalFrames}}
- **Total Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{- range .Systems}}
- {{printf "%-16s" .Name}} runs: {{.ExecutionCount}} avg: {{.AvgDuration}} max: {{.MaxDuration}}
{{- end}}

## Metrics
{{- range .Metrics}}
- {{.Name}}: {{printf "%.0f" .Value}}
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
