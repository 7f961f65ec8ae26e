// Command soak plays many bot-driven games headlessly and prints a report of
// scores, per-system frame timings and collected metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/plus3/blockfall/clock"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/metrics"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML file overlaid on the default configuration.")
	games := flag.Int("games", 10, "Number of games to play.")
	maxFrames := flag.Int("max-frames", 50000, "Frame limit per game.")
	seed := flag.Uint64("seed", 1, "Seed for tile order and bot input. 0 picks one at random.")
	realtime := flag.Bool("realtime", false, "Pace frames with the wall clock instead of virtual time.")
	timeout := flag.Duration("timeout", 10*time.Minute, "Abort the whole run after this long.")
	debug := flag.Bool("debug", false, "Enable development logging.")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	cfg.Seed = *seed

	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		logger.Fatal("register metrics", zap.Error(err))
	}

	st, err := game.New(cfg, game.WithLogger(logger))
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}
	collector.Attach(st)

	report := &Report{
		Games:     *games,
		MaxFrames: *maxFrames,
		Seed:      *seed,
		Realtime:  *realtime,
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger.Info("starting soak", zap.Int("games", *games), zap.Bool("realtime", *realtime))
	startTime := time.Now()

	for i := 0; i < *games; i++ {
		if i > 0 {
			st.Reset()
		}
		b := newBot(*seed + uint64(i))

		result, err := playGame(ctx, st, b, newLimiter(*realtime, cfg.TargetFPS), *maxFrames, &report.UpdateTime)
		report.GameResults = append(report.GameResults, result)
		report.TotalFrames += int64(result.Frames)
		if err != nil {
			logger.Warn("soak aborted", zap.Error(err))
			break
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Systems = st.Stats().Systems
	if err := report.CollectMetrics(reg); err != nil {
		logger.Error("gather metrics", zap.Error(err))
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func newLimiter(realtime bool, fps int) *clock.Limiter {
	if realtime {
		return clock.NewLimiter(clock.New(), fps)
	}
	return clock.NewStepLimiter(fps)
}

// playGame runs one game until it ends, the frame limit is hit or ctx is
// done. A step limiter advances virtual time by exactly one frame period per
// frame without sleeping.
func playGame(ctx context.Context, st *game.State, b *bot, limiter *clock.Limiter, maxFrames int, updates *Stats) (GameResult, error) {
	frames, err := st.Run(ctx, limiter, b.Keys,
		game.WithMaxFrames(maxFrames),
		game.WithFrameObserver(func(d time.Duration) {
			updates.Samples = append(updates.Samples, d)
		}))

	return GameResult{
		Session:  st.SessionID().String(),
		Frames:   frames,
		Score:    st.Score(),
		Lines:    st.Lines(),
		Level:    st.Level(),
		Finished: !st.Running(),
	}, err
}
