// Command blockfall opens a window and plays the game.
package main

import (
	"errors"
	"flag"
	"log"
	"net/http"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/plus3/blockfall/clock"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/metrics"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML file overlaid on the default configuration.")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	seed := flag.Uint64("seed", 0, "Seed for the tile order. 0 picks one at random.")
	debug := flag.Bool("debug", false, "Enable development logging and the debug overlay.")
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
	if *seed != 0 {
		cfg.Seed = *seed
	}

	opts := []game.Option{game.WithLogger(logger)}
	var overlay *debugOverlay
	if *debug {
		overlay = newDebugOverlay()
		opts = append(opts, game.WithSystem(overlay.system()))
	}

	st, err := game.New(cfg, opts...)
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}

	if *metricsAddr != "" {
		serveMetrics(*metricsAddr, st, logger)
	}

	f := newFrontend(st, logger, clock.New())
	if overlay != nil {
		f.debug = overlay
		overlay.CreateWindow("Blockfall", f.layout.width, f.layout.height)
	} else {
		ebiten.SetWindowTitle("Blockfall")
		ebiten.SetWindowSize(f.layout.width, f.layout.height)
	}
	ebiten.SetTPS(cfg.TargetFPS)

	if err := ebiten.RunGame(f); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveMetrics(addr string, st *game.State, logger *zap.Logger) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	collector, err := metrics.New(reg)
	if err != nil {
		logger.Fatal("register metrics", zap.Error(err))
	}
	collector.Attach(st)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
}
