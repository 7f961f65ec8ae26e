// Package config holds the immutable game configuration shared by the board,
// tile and game state constructors.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is constructed once at startup and passed by value. Callers must not
// mutate LineClearScores after construction.
type Config struct {
	Rows     int `yaml:"rows"`
	Cols     int `yaml:"cols"`
	CellSize int `yaml:"cell_size"`
	OriginX  int `yaml:"origin_x"`
	OriginY  int `yaml:"origin_y"`

	QueueSize int `yaml:"queue_size"`
	TargetFPS int `yaml:"target_fps"`

	InitialFallInterval time.Duration `yaml:"initial_fall_interval"`
	FallIntervalDelta   time.Duration `yaml:"fall_interval_delta"`
	MinFallInterval     time.Duration `yaml:"min_fall_interval"`
	SoftDropInterval    time.Duration `yaml:"soft_drop_interval"`
	LockDelay           time.Duration `yaml:"lock_delay"`
	PauseCooldown       time.Duration `yaml:"pause_cooldown"`

	MaxLevel           int         `yaml:"max_level"`
	LinesPerLevel      int         `yaml:"lines_per_level"`
	LineClearScores    map[int]int `yaml:"line_clear_scores"`
	HardDropMultiplier int         `yaml:"hard_drop_multiplier"`
	SoftDropScore      int         `yaml:"soft_drop_score"`

	// Seed for the tile source. Zero seeds from the wall clock.
	Seed uint64 `yaml:"seed"`
}

// Default returns the classic 20x10 configuration.
func Default() Config {
	return Config{
		Rows:     20,
		Cols:     10,
		CellSize: 30,
		OriginX:  50,
		OriginY:  50,

		QueueSize: 5,
		TargetFPS: 60,

		InitialFallInterval: 500 * time.Millisecond,
		FallIntervalDelta:   40 * time.Millisecond,
		MinFallInterval:     20 * time.Millisecond,
		SoftDropInterval:    80 * time.Millisecond,
		LockDelay:           500 * time.Millisecond,
		PauseCooldown:       300 * time.Millisecond,

		MaxLevel:      10,
		LinesPerLevel: 10,
		LineClearScores: map[int]int{
			1: 40,
			2: 100,
			3: 300,
			4: 1200,
		},
		HardDropMultiplier: 2,
		SoftDropScore:      1,
	}
}

// Load reads a YAML file and overlays it on Default. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error

	if c.Rows < 4 {
		err = multierr.Append(err, fmt.Errorf("rows must be >= 4, got %d", c.Rows))
	}
	if c.Cols < 4 {
		err = multierr.Append(err, fmt.Errorf("cols must be >= 4, got %d", c.Cols))
	}
	if c.CellSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("cell_size must be > 0, got %d", c.CellSize))
	}
	if c.QueueSize < 2 {
		err = multierr.Append(err, fmt.Errorf("queue_size must be >= 2, got %d", c.QueueSize))
	}
	if c.TargetFPS <= 0 {
		err = multierr.Append(err, fmt.Errorf("target_fps must be > 0, got %d", c.TargetFPS))
	}
	if c.MinFallInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("min_fall_interval must be > 0, got %s", c.MinFallInterval))
	}
	if c.InitialFallInterval < c.MinFallInterval {
		err = multierr.Append(err, fmt.Errorf("initial_fall_interval %s is below min_fall_interval %s",
			c.InitialFallInterval, c.MinFallInterval))
	}
	if c.FallIntervalDelta < 0 {
		err = multierr.Append(err, fmt.Errorf("fall_interval_delta must be >= 0, got %s", c.FallIntervalDelta))
	}
	if c.SoftDropInterval <= 0 {
		err = multierr.Append(err, fmt.Errorf("soft_drop_interval must be > 0, got %s", c.SoftDropInterval))
	}
	if c.LockDelay < 0 {
		err = multierr.Append(err, fmt.Errorf("lock_delay must be >= 0, got %s", c.LockDelay))
	}
	if c.PauseCooldown < 0 {
		err = multierr.Append(err, fmt.Errorf("pause_cooldown must be >= 0, got %s", c.PauseCooldown))
	}
	if c.MaxLevel < 1 {
		err = multierr.Append(err, fmt.Errorf("max_level must be >= 1, got %d", c.MaxLevel))
	}
	if c.LinesPerLevel < 1 {
		err = multierr.Append(err, fmt.Errorf("lines_per_level must be >= 1, got %d", c.LinesPerLevel))
	}
	for n := 1; n <= 4; n++ {
		if _, ok := c.LineClearScores[n]; !ok {
			err = multierr.Append(err, fmt.Errorf("line_clear_scores missing entry for %d lines", n))
		}
	}

	return err
}

// LineClearScore returns the base score for clearing n rows at once.
func (c Config) LineClearScore(n int) int {
	return c.LineClearScores[n]
}

// FrameDuration is the nominal time between frames at TargetFPS.
func (c Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.TargetFPS)
}
