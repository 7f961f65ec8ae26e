package game_test

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/event"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetromino"
)

const tick = time.Millisecond

type recorder struct {
	events []event.Event
}

func record(st *game.State) *recorder {
	rec := &recorder{}
	for k := event.KindRotation; k <= event.KindGameOver; k++ {
		st.On(k, func(e event.Event) {
			rec.events = append(rec.events, e)
		})
	}
	return rec
}

func newStateWith(t *testing.T, cfg config.Config, types ...tetromino.Type) *game.State {
	t.Helper()
	st, err := game.New(cfg, game.WithSource(tetromino.NewSequence(types...)))
	require.NoError(t, err)
	return st
}

func newState(t *testing.T, types ...tetromino.Type) *game.State {
	t.Helper()
	return newStateWith(t, config.Default(), types...)
}

func step(st *game.State, keys input.Keys, elapsed time.Duration) {
	st.ProcessInput(keys, elapsed)
	st.Update()
}

func fillRows(b *board.Board, rows ...int) {
	for _, r := range rows {
		for c := 0; c < b.Cols(); c++ {
			b.Set(r, c, tetromino.J.Cell())
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Rows = 2
	cfg.QueueSize = 1

	st, err := game.New(cfg)
	assert.Nil(t, st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows must be >= 4")
	assert.Contains(t, err.Error(), "queue_size must be >= 2")
}

func TestSpawnIPiece(t *testing.T) {
	cfg := config.Default()
	st := newState(t, tetromino.I, tetromino.O)

	tile := st.Tile()
	assert.Equal(t, tetromino.I, tile.Type())
	assert.Equal(t, tetromino.Matrix{{}, {true, true, true, true}, {}, {}}, tile.Configuration())
	assert.Equal(t, image.Pt(cfg.OriginX+3*cfg.CellSize, cfg.OriginY-cfg.CellSize), tile.Position())
	assert.False(t, tile.RotationAllowed())
	assert.Equal(t, 19, st.DropDistance())

	st.ProcessInput(0, cfg.InitialFallInterval)
	require.True(t, st.Tile().Falling)
	st.Update()

	tile = st.Tile()
	assert.Equal(t, image.Pt(cfg.OriginX+3*cfg.CellSize, cfg.OriginY), tile.Position(), "one cell down")
	assert.False(t, tile.Falling, "gravity tick consumed")

	st.Update()
	assert.Equal(t, cfg.OriginY, st.Tile().Position().Y, "no further fall without a tick")
}

func TestTileIsACopy(t *testing.T) {
	st := newState(t, tetromino.T)
	pos := st.Tile().Position()

	tile := st.Tile()
	tile.Move(2, 3)
	tile.Rotate(tetromino.CW)

	assert.Equal(t, pos, st.Tile().Position())
	assert.Equal(t, 0, st.Tile().Rotation())
	assert.NotEqual(t, pos, tile.Position())
}

func TestWithSystem(t *testing.T) {
	var frames []time.Duration
	var score int
	var st *game.State
	sys := engine.SystemFunc(func(frame *engine.UpdateFrame) {
		frames = append(frames, frame.DeltaTime)
		score = st.Score()
	})

	st, err := game.New(config.Default(),
		game.WithSource(tetromino.NewSequence(tetromino.I)),
		game.WithSystem(sys))
	require.NoError(t, err)

	names := st.Stats().Systems
	require.Len(t, names, 8)
	assert.Equal(t, "SystemFunc", names[7].Name)

	st.ProcessInput(input.Of(input.HardDrop), tick)
	st.Update()
	assert.Equal(t, []time.Duration{tick}, frames)
	assert.Equal(t, 38, score, "runs after the drop was scored")

	step(st, input.Of(input.Pause), 400*time.Millisecond)
	require.True(t, st.Paused())
	step(st, 0, time.Second)
	assert.Len(t, frames, 1, "not run while paused")
}

func TestQueueAccessors(t *testing.T) {
	st := newState(t, tetromino.S, tetromino.Z, tetromino.L)

	assert.Equal(t, tetromino.S, st.Current())
	assert.Equal(t, tetromino.Z, st.Next())
	assert.Equal(t, []tetromino.Type{tetromino.S, tetromino.Z, tetromino.L, tetromino.S, tetromino.Z}, st.Queue())
}

func TestLateralMovement(t *testing.T) {
	t.Run("one move per key press", func(t *testing.T) {
		st := newState(t, tetromino.I)
		x := st.Tile().Position().X

		for range 5 {
			step(st, input.Of(input.Left), tick)
		}
		assert.Equal(t, x-30, st.Tile().Position().X)

		step(st, 0, tick)
		step(st, input.Of(input.Right), tick)
		assert.Equal(t, x, st.Tile().Position().X)
	})

	t.Run("both directions held cancel out", func(t *testing.T) {
		st := newState(t, tetromino.I)
		x := st.Tile().Position().X

		step(st, input.Of(input.Left, input.Right), tick)
		assert.Equal(t, x, st.Tile().Position().X)
	})

	t.Run("left wall stops the tile", func(t *testing.T) {
		cfg := config.Default()
		st := newState(t, tetromino.I)

		for range 10 {
			step(st, input.Of(input.Left), tick)
			step(st, 0, tick)
		}
		assert.Equal(t, cfg.OriginX, st.Tile().Position().X)
		assert.True(t, st.Contacts().Left)
		assert.False(t, st.Contacts().Right)

		for range 5 {
			step(st, input.Of(input.Left), tick)
			assert.Equal(t, cfg.OriginX, st.Tile().Position().X)
		}
	})

	t.Run("right wall stops the tile", func(t *testing.T) {
		cfg := config.Default()
		st := newState(t, tetromino.O)

		for range 10 {
			step(st, input.Of(input.Right), tick)
			step(st, 0, tick)
		}
		// O occupies columns 1-2 of its box.
		assert.Equal(t, cfg.OriginX+7*cfg.CellSize, st.Tile().Position().X)
		assert.True(t, st.Contacts().Right)
	})
}

func TestRotation(t *testing.T) {
	t.Run("rejected above the grid", func(t *testing.T) {
		st := newState(t, tetromino.T)
		rec := record(st)

		step(st, input.Of(input.Rotate), tick)
		assert.Equal(t, 0, st.Tile().Rotation())
		assert.False(t, st.Tile().RotationAllowed())
		assert.Empty(t, rec.events)
	})

	t.Run("one rotation per key press", func(t *testing.T) {
		st := newState(t, tetromino.T)
		st.SignalGravity()
		step(st, 0, tick)

		rec := record(st)
		for range 3 {
			step(st, input.Of(input.Rotate), tick)
		}
		assert.Equal(t, 1, st.Tile().Rotation())
		assert.True(t, st.Tile().RotationAllowed())
		assert.Equal(t, []event.Event{event.Rotation{}}, rec.events)

		step(st, 0, tick)
		step(st, input.Of(input.Rotate), tick)
		assert.Equal(t, 2, st.Tile().Rotation())
		assert.Len(t, rec.events, 2)
	})
}

func TestSoftDrop(t *testing.T) {
	st := newState(t, tetromino.T)
	rec := record(st)
	y := st.Tile().Position().Y

	step(st, input.Of(input.SoftDrop), tick)
	assert.Equal(t, y, st.Tile().Position().Y, "no move without a soft-drop tick")

	st.SignalSoftDrop()
	step(st, input.Of(input.SoftDrop), tick)
	assert.Equal(t, y+30, st.Tile().Position().Y)
	assert.Equal(t, 1, st.Score())
	assert.False(t, st.Tile().CanSoftDrop)
	assert.Equal(t, []event.Event{event.SoftDrop{}}, rec.events)

	st.SignalGravity()
	step(st, input.Of(input.SoftDrop), tick)
	assert.Equal(t, y+30, st.Tile().Position().Y, "gravity is suspended while soft dropping")
	assert.True(t, st.Tile().Falling)

	st.SignalSoftDrop()
	step(st, input.Of(input.SoftDrop), time.Millisecond*80)
	assert.Equal(t, y+60, st.Tile().Position().Y)
	assert.Equal(t, 2, st.Score())
}

func TestHardDrop(t *testing.T) {
	cfg := config.Default()
	st := newState(t, tetromino.I, tetromino.O)
	rec := record(st)

	step(st, input.Of(input.HardDrop), tick)

	assert.Equal(t, 2*19, st.Score())
	assert.Equal(t, cfg.OriginY+18*cfg.CellSize, st.Tile().Position().Y)
	assert.Equal(t, []event.Event{event.HardDrop{Distance: 19}}, rec.events)

	step(st, input.Of(input.HardDrop), tick)
	assert.True(t, st.Contacts().Down)
	assert.Equal(t, 0, st.DropDistance())
	assert.Len(t, rec.events, 1, "held key does not drop again")
}

func TestLockDelay(t *testing.T) {
	cfg := config.Default()
	st := newState(t, tetromino.I, tetromino.O, tetromino.T)
	rec := record(st)
	b := st.MutableBoard()

	step(st, input.Of(input.HardDrop), tick)

	for _, dt := range []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 200 * time.Millisecond} {
		step(st, 0, dt)
		assert.Equal(t, board.Empty, b.At(19, 3), "locked before the delay elapsed")
		assert.Equal(t, tetromino.I, st.Current())
	}

	step(st, 0, 60*time.Millisecond)

	for c := 3; c <= 6; c++ {
		assert.Equal(t, tetromino.I.Cell(), b.At(19, c))
	}
	assert.Equal(t, tetromino.O, st.Current())
	assert.Equal(t, tetromino.T, st.Next())
	assert.Equal(t, tetromino.O, st.Tile().Type())
	assert.Len(t, st.Queue(), cfg.QueueSize)
	assert.True(t, st.Running())
	assert.Equal(t, []event.Event{
		event.HardDrop{Distance: 19},
		event.TileLocked{Piece: "I"},
	}, rec.events)
}

func TestLineClearScoring(t *testing.T) {
	t.Run("four rows at level L", func(t *testing.T) {
		st := newState(t, tetromino.T)
		rec := record(st)
		b := st.MutableBoard()
		b.Set(15, 0, tetromino.Z.Cell())
		fillRows(b, 16, 17, 18, 19)
		st.SetProgress(3, 0)

		step(st, 0, tick)

		assert.Equal(t, 1200*3, st.Score())
		assert.Equal(t, 4, st.Lines())
		assert.Equal(t, 3, st.Level())
		assert.Equal(t, []event.Event{event.LinesCompleted{Count: 4}}, rec.events)
		assert.Equal(t, tetromino.Z.Cell(), b.At(19, 0), "marker collapsed by four rows")
		assert.Equal(t, board.Empty, b.At(15, 0))
	})

	t.Run("level up after enough lines", func(t *testing.T) {
		cfg := config.Default()
		st := newState(t, tetromino.T)
		rec := record(st)
		fillRows(st.MutableBoard(), 19)
		st.SetProgress(1, 9)

		step(st, 0, tick)

		assert.Equal(t, 40, st.Score(), "scored at the level the rows were cleared on")
		assert.Equal(t, 10, st.Lines())
		assert.Equal(t, 2, st.Level())
		assert.Equal(t, cfg.InitialFallInterval-cfg.FallIntervalDelta, st.FallInterval())
		assert.Equal(t, []event.Event{
			event.LinesCompleted{Count: 1},
			event.LevelUp{Level: 2},
		}, rec.events)
	})

	t.Run("fall interval floor and level cap", func(t *testing.T) {
		cfg := config.Default()
		cfg.InitialFallInterval = 30 * time.Millisecond
		cfg.MinFallInterval = 20 * time.Millisecond
		cfg.FallIntervalDelta = 40 * time.Millisecond
		cfg.LinesPerLevel = 1
		cfg.MaxLevel = 4

		st := newStateWith(t, cfg, tetromino.T)
		rec := record(st)
		fillRows(st.MutableBoard(), 16, 17, 18, 19)

		step(st, 0, tick)

		assert.Equal(t, 4, st.Level())
		assert.Equal(t, 20*time.Millisecond, st.FallInterval())
		assert.Equal(t, []event.Event{
			event.LinesCompleted{Count: 4},
			event.LevelUp{Level: 2},
			event.LevelUp{Level: 3},
			event.LevelUp{Level: 4},
		}, rec.events)
	})
}

func TestLockCompletesRow(t *testing.T) {
	st := newState(t, tetromino.I)
	rec := record(st)
	b := st.MutableBoard()
	for c := 0; c < b.Cols(); c++ {
		if c < 3 || c > 6 {
			b.Set(19, c, tetromino.L.Cell())
		}
	}
	st.SetProgress(1, 9)

	step(st, input.Of(input.HardDrop), tick)
	step(st, 0, 500*time.Millisecond)

	assert.Equal(t, []event.Event{
		event.HardDrop{Distance: 19},
		event.TileLocked{Piece: "I"},
		event.LinesCompleted{Count: 1},
		event.LevelUp{Level: 2},
	}, rec.events)
	assert.Equal(t, 2*19+40, st.Score())
	assert.Equal(t, board.Empty, b.At(19, 0))
	assert.True(t, st.Running())
}

func TestGameOver(t *testing.T) {
	t.Run("spawn into a filled top row", func(t *testing.T) {
		st := newState(t, tetromino.T)
		rec := record(st)
		fillRows(st.MutableBoard(), 0)

		st.Respawn()

		assert.True(t, st.Contacts().Down)
		assert.False(t, st.Running())
		assert.Equal(t, []event.Event{event.GameOver{Score: 0}}, rec.events)

		pos := st.Tile().Position()
		st.SignalGravity()
		step(st, input.Of(input.HardDrop), tick)
		assert.Equal(t, pos, st.Tile().Position(), "no updates after game over")
		assert.Len(t, rec.events, 1)
	})

	t.Run("top row occupied", func(t *testing.T) {
		st := newState(t, tetromino.T)
		rec := record(st)
		st.MutableBoard().Set(0, 0, tetromino.O.Cell())

		step(st, 0, tick)

		assert.False(t, st.Running())
		assert.Equal(t, []event.Event{event.GameOver{Score: 0}}, rec.events)
	})
}

func TestReset(t *testing.T) {
	st := newState(t, tetromino.I, tetromino.T)
	session := st.SessionID()

	step(st, input.Of(input.HardDrop), tick)
	st.MutableBoard().Set(0, 0, tetromino.O.Cell())
	step(st, 0, tick)
	require.False(t, st.Running())

	st.Reset()

	assert.True(t, st.Running())
	assert.False(t, st.Paused())
	assert.Zero(t, st.Score())
	assert.Zero(t, st.Lines())
	assert.Equal(t, 1, st.Level())
	assert.Equal(t, board.Empty, st.Board().At(0, 0))
	assert.NotEqual(t, session, st.SessionID())
	assert.Equal(t, config.Default().InitialFallInterval, st.FallInterval())
}

func TestListenerCancel(t *testing.T) {
	st := newState(t, tetromino.T)
	calls := 0
	cancel := st.On(event.KindSoftDrop, func(event.Event) { calls++ })

	st.SignalSoftDrop()
	step(st, input.Of(input.SoftDrop), tick)
	cancel()
	st.SignalSoftDrop()
	step(st, input.Of(input.SoftDrop), tick)

	assert.Equal(t, 1, calls)
}

func TestStats(t *testing.T) {
	st := newState(t, tetromino.T)
	step(st, 0, tick)
	step(st, 0, tick)

	stats := st.Stats()
	require.Equal(t, 7, stats.SystemCount)
	names := make([]string, 0, len(stats.Systems))
	for _, sys := range stats.Systems {
		names = append(names, sys.Name)
		assert.Equal(t, int64(2), sys.ExecutionCount)
	}
	assert.Equal(t, []string{
		"debounceSystem",
		"contactSystem",
		"lateralSystem",
		"rotationSystem",
		"verticalSystem",
		"lineClearSystem",
		"gameOverSystem",
	}, names)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	st, err := game.New(config.Default(),
		game.WithLogger(zap.New(core)),
		game.WithSource(tetromino.NewSequence(tetromino.T)),
	)
	require.NoError(t, err)

	started := logs.FilterMessage("session started").All()
	require.Len(t, started, 1)
	assert.Equal(t, st.SessionID().String(), started[0].ContextMap()["session"])
	assert.Equal(t, int64(20), started[0].ContextMap()["rows"])

	st.MutableBoard().Set(0, 9, tetromino.O.Cell())
	step(st, 0, tick)

	over := logs.FilterMessage("game over").All()
	require.Len(t, over, 1)
	assert.Equal(t, "top row occupied", over[0].ContextMap()["reason"])
	assert.Equal(t, int64(0), over[0].ContextMap()["score"])
}
