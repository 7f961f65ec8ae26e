// Package metrics exports gameplay counters to Prometheus. It only listens to
// game events and never reads game state directly.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/plus3/blockfall/event"
)

const namespace = "blockfall"

// Source is anything events can be subscribed on, typically a *game.State.
type Source interface {
	On(kind event.Kind, fn event.Listener) (cancel func())
}

// Collector holds the gameplay metrics.
type Collector struct {
	Rotations        prometheus.Counter
	SoftDrops        prometheus.Counter
	HardDrops        prometheus.Counter
	HardDropDistance prometheus.Histogram
	LineClears       *prometheus.CounterVec
	LinesCleared     prometheus.Counter
	TilesLocked      *prometheus.CounterVec
	Pauses           prometheus.Counter
	Level            prometheus.Gauge
	GamesOver        prometheus.Counter
	FinalScore       prometheus.Gauge
}

// New creates the collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Successful tile rotations.",
		}),
		SoftDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "soft_drops_total",
			Help:      "Cells descended by soft drop.",
		}),
		HardDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hard_drops_total",
			Help:      "Hard drops performed.",
		}),
		HardDropDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hard_drop_distance_cells",
			Help:      "Rows covered by each hard drop.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}),
		LineClears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_clears_total",
			Help:      "Line clear events by number of rows cleared at once.",
		}, []string{"rows"}),
		LinesCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_cleared_total",
			Help:      "Rows cleared.",
		}),
		TilesLocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tiles_locked_total",
			Help:      "Tiles merged into the board, by type.",
		}, []string{"type"}),
		Pauses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pauses_total",
			Help:      "Times the game was paused.",
		}),
		Level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "level",
			Help:      "Current level.",
		}),
		GamesOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Finished games.",
		}),
		FinalScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Score of the most recently finished game.",
		}),
	}
	c.Level.Set(1)

	var err error
	for _, m := range c.collectors() {
		err = multierr.Append(err, reg.Register(m))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.Rotations, c.SoftDrops, c.HardDrops, c.HardDropDistance,
		c.LineClears, c.LinesCleared, c.TilesLocked, c.Pauses,
		c.Level, c.GamesOver, c.FinalScore,
	}
}

// Attach subscribes the collector to src. The returned function detaches it.
func (c *Collector) Attach(src Source) (detach func()) {
	kinds := []event.Kind{
		event.KindRotation,
		event.KindLinesCompleted,
		event.KindSoftDrop,
		event.KindHardDrop,
		event.KindGamePaused,
		event.KindLevelUp,
		event.KindTileLocked,
		event.KindGameOver,
	}

	cancels := make([]func(), 0, len(kinds))
	for _, k := range kinds {
		cancels = append(cancels, src.On(k, c.Observe))
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Observe records a single event.
func (c *Collector) Observe(e event.Event) {
	switch e := e.(type) {
	case event.Rotation:
		c.Rotations.Inc()
	case event.SoftDrop:
		c.SoftDrops.Inc()
	case event.HardDrop:
		c.HardDrops.Inc()
		c.HardDropDistance.Observe(float64(e.Distance))
	case event.LinesCompleted:
		c.LineClears.WithLabelValues(strconv.Itoa(e.Count)).Inc()
		c.LinesCleared.Add(float64(e.Count))
	case event.TileLocked:
		c.TilesLocked.WithLabelValues(e.Piece).Inc()
	case event.GamePaused:
		c.Pauses.Inc()
	case event.LevelUp:
		c.Level.Set(float64(e.Level))
	case event.GameOver:
		c.GamesOver.Inc()
		c.FinalScore.Set(float64(e.Score))
		c.Level.Set(1)
	}
}
