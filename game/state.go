// Package game drives a single falling-block session: input handling,
// wall kicks, gravity and lock delay, line clears, scoring, pausing and game
// over. A State is stepped one frame at a time by ProcessInput and Update.
package game

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/clock"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/event"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/tetromino"
)

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *State) {
		s.baseLogger = logger
	}
}

// WithSource replaces the random type source, e.g. with a tetromino.Sequence.
func WithSource(src tetromino.Source) Option {
	return func(s *State) {
		s.source = src
	}
}

// WithSystem appends sys to the frame pipeline, after the game's own steps.
// It runs only on frames the game advances: not while paused or after game
// over.
func WithSystem(sys engine.System) Option {
	return func(s *State) {
		s.extra = append(s.extra, sys)
	}
}

// State is one game session.
type State struct {
	cfg        config.Config
	bus        *event.Bus
	scheduler  *engine.Scheduler
	source     tetromino.Source
	baseLogger *zap.Logger
	logger     *zap.Logger
	sessionID  uuid.UUID
	extra      []engine.System

	board    *board.Board
	queue    *tetromino.Queue
	tile     *tetromino.Tile
	contacts tetromino.Contact

	score int
	level int
	lines int

	running bool
	paused  bool

	keys    input.Keys
	elapsed time.Duration

	lateralDisabled  bool
	rotationDisabled bool
	hardDropDisabled bool

	pauseKeyReleased bool
	resumeRequested  bool
	resumeTimer      time.Duration

	downContactTimer time.Duration
	fallInterval     time.Duration
	gravity          *clock.Ticker
	softDrop         *clock.Ticker
}

// New validates cfg and starts a session.
func New(cfg config.Config, opts ...Option) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		cfg:        cfg,
		bus:        event.NewBus(),
		baseLogger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = tetromino.NewRandomSource(cfg.Seed)
	}

	s.scheduler = engine.NewScheduler(s.bus)
	s.scheduler.Register(&debounceSystem{state: s})
	s.scheduler.Register(&contactSystem{state: s})
	s.scheduler.Register(&lateralSystem{state: s})
	s.scheduler.Register(&rotationSystem{state: s})
	s.scheduler.Register(&verticalSystem{state: s})
	s.scheduler.Register(&lineClearSystem{state: s})
	s.scheduler.Register(&gameOverSystem{state: s})
	for _, sys := range s.extra {
		s.scheduler.Register(sys)
	}

	s.board = board.New(cfg)
	s.Reset()
	return s, nil
}

// Reset discards the board and statistics and starts a new session with a
// fresh id. Listeners stay subscribed.
func (s *State) Reset() {
	s.sessionID = uuid.New()
	s.logger = s.baseLogger.With(zap.Stringer("session", s.sessionID))

	s.board.Reset()
	s.queue = tetromino.NewQueue(s.cfg, s.source)
	s.score, s.lines, s.level = 0, 0, 1
	s.running, s.paused = true, false
	s.keys, s.elapsed = 0, 0
	s.lateralDisabled, s.rotationDisabled, s.hardDropDisabled = false, false, false
	s.pauseKeyReleased, s.resumeRequested, s.resumeTimer = false, false, 0
	s.downContactTimer = 0

	s.fallInterval = s.cfg.InitialFallInterval
	s.gravity = clock.NewTicker(s.fallInterval)
	s.softDrop = clock.NewTicker(s.cfg.SoftDropInterval)

	s.logger.Info("session started",
		zap.Int("rows", s.cfg.Rows),
		zap.Int("cols", s.cfg.Cols),
		zap.Duration("fall_interval", s.fallInterval),
	)
	s.spawn(s.bus)
}

// spawn places a new tile of the queue head. A tile that cannot be placed, or
// that is already resting on the stack, ends the game.
func (s *State) spawn(out engine.Emitter) {
	s.tile = tetromino.Spawn(s.cfg, s.queue.Current())
	s.contacts = tetromino.DetectContact(s.tile, s.board)

	if s.contacts.Down || !s.tile.Permitted(s.board) {
		s.endGame(out, "spawn blocked")
	}
}

func (s *State) endGame(out engine.Emitter, reason string) {
	if !s.running {
		return
	}
	s.running = false
	s.gravity.Stop()
	s.logger.Info("game over",
		zap.String("reason", reason),
		zap.Int("score", s.score),
		zap.Int("level", s.level),
		zap.Int("lines", s.lines),
	)
	out.Emit(event.GameOver{Score: s.score})
}

// ProcessInput records the key state for the next Update and advances the
// frame timers by elapsed.
func (s *State) ProcessInput(keys input.Keys, elapsed time.Duration) {
	s.keys = keys
	s.elapsed = elapsed
	s.resumeTimer += elapsed

	if s.gravity.Advance(elapsed) {
		s.tile.Falling = true
	}
	if s.softDrop.Advance(elapsed) {
		s.tile.CanSoftDrop = true
	}
	if !keys.Held(input.Pause) {
		s.pauseKeyReleased = true
	}
}

// Update runs the pause machine and, while the game is running and not
// paused, one pass of the frame pipeline. Listeners are notified before it
// returns.
func (s *State) Update() {
	defer func() { s.resumeRequested = false }()

	if !s.running {
		return
	}

	s.updatePause()
	if s.paused {
		return
	}

	s.scheduler.Once(s.elapsed, s.keys)
}

// RequestResume is the resume button: it leaves the paused state on the next
// Update.
func (s *State) RequestResume() {
	s.resumeRequested = true
}

// SignalGravity marks a gravity tick as pending, for callers that schedule
// ticks themselves.
func (s *State) SignalGravity() {
	s.tile.Falling = true
}

// SignalSoftDrop marks a soft-drop tick as pending.
func (s *State) SignalSoftDrop() {
	s.tile.CanSoftDrop = true
}

// On subscribes fn to events of kind. Listeners run synchronously inside
// Update, in subscription order.
func (s *State) On(kind event.Kind, fn event.Listener) (cancel func()) {
	return s.bus.Subscribe(kind, fn)
}

func (s *State) Board() board.Reader { return s.board }

func (s *State) Score() int { return s.score }

func (s *State) Level() int { return s.level }

func (s *State) Lines() int { return s.lines }

func (s *State) Paused() bool { return s.paused }

// Running is false once the game is over.
func (s *State) Running() bool { return s.running }

// Current is the type of the active tile.
func (s *State) Current() tetromino.Type { return s.queue.Current() }

// Next is the preview type.
func (s *State) Next() tetromino.Type { return s.queue.Next() }

// Queue is a copy of the upcoming types, head first.
func (s *State) Queue() []tetromino.Type { return s.queue.Snapshot() }

// Tile is a copy of the active tile; moving it does not affect the game.
func (s *State) Tile() *tetromino.Tile {
	t := *s.tile
	return &t
}

// DropDistance is how far the active tile would fall on a hard drop.
func (s *State) DropDistance() int { return s.tile.DropDistance(s.board) }

// Contacts as computed by the most recent frame.
func (s *State) Contacts() tetromino.Contact { return s.contacts }

// FallInterval is the current gravity period.
func (s *State) FallInterval() time.Duration { return s.fallInterval }

func (s *State) SessionID() uuid.UUID { return s.sessionID }

// Stats reports per-system timings of the frame pipeline.
func (s *State) Stats() *engine.SchedulerStats { return s.scheduler.GetStats() }

func (s *State) Config() config.Config { return s.cfg }
