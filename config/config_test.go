package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/blockfall/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.Rows)
	assert.Equal(t, 10, cfg.Cols)
	assert.Equal(t, 1200, cfg.LineClearScore(4))
	assert.Equal(t, time.Second/60, cfg.FrameDuration())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Rows = 2
	cfg.QueueSize = 1
	cfg.LineClearScores = map[int]int{1: 40}

	err := cfg.Validate()
	require.Error(t, err)

	// rows, queue_size and three missing score entries
	assert.Len(t, multierr.Errors(err), 5)
	assert.Contains(t, err.Error(), "rows must be >= 4")
	assert.Contains(t, err.Error(), "queue_size must be >= 2")
}

func TestValidateFallIntervals(t *testing.T) {
	cfg := config.Default()
	cfg.MinFallInterval = 0
	assert.ErrorContains(t, cfg.Validate(), "min_fall_interval")

	cfg = config.Default()
	cfg.InitialFallInterval = 10 * time.Millisecond
	assert.ErrorContains(t, cfg.Validate(), "below min_fall_interval")
}

func TestLoad(t *testing.T) {
	t.Run("overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blockfall.yaml")
		data := []byte("rows: 22\nlock_delay: 250ms\nseed: 7\n")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		cfg, err := config.Load(path)
		require.NoError(t, err)

		assert.Equal(t, 22, cfg.Rows)
		assert.Equal(t, 10, cfg.Cols)
		assert.Equal(t, 250*time.Millisecond, cfg.LockDelay)
		assert.Equal(t, uint64(7), cfg.Seed)
		assert.Equal(t, 40, cfg.LineClearScore(1))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rows: [1, 2"), 0o600))

		_, err := config.Load(path)
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "small.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cols: 1\n"), 0o600))

		_, err := config.Load(path)
		assert.ErrorContains(t, err, "cols must be >= 4")
	})
}
