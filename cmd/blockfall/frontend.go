package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/plus3/blockfall/clock"
	"github.com/plus3/blockfall/event"
	"github.com/plus3/blockfall/game"
)

// maxFrameTime caps the elapsed time fed to the game after a stall, e.g. while
// the window is being dragged.
const maxFrameTime = 250 * time.Millisecond

const bannerTime = time.Second

var clearNames = map[int]string{
	1: "Single",
	2: "Double",
	3: "Triple",
	4: "Tetris!",
}

// frontend adapts a game.State to ebiten.Game.
type frontend struct {
	state  *game.State
	layout layout
	logger *zap.Logger
	clk    clock.Clock
	last   time.Time

	resume *Button
	debug  *debugOverlay

	banner     string
	bannerLeft time.Duration
	notice     string
}

func newFrontend(st *game.State, logger *zap.Logger, clk clock.Clock) *frontend {
	l := newLayout(st.Config())
	f := &frontend{
		state:  st,
		layout: l,
		logger: logger,
		clk:    clk,
		last:   clk.Now(),
		resume: NewButton(l.width/2-80, l.height/2-25, 160, 50, "Resume"),
	}

	st.On(event.KindLinesCompleted, func(e event.Event) {
		f.showBanner(clearNames[e.(event.LinesCompleted).Count])
	})
	st.On(event.KindLevelUp, func(e event.Event) {
		f.showBanner(fmt.Sprintf("Level %d", e.(event.LevelUp).Level))
	})
	st.On(event.KindGameOver, func(e event.Event) {
		f.showBanner(fmt.Sprintf("Final score %d", e.(event.GameOver).Score))
	})

	return f
}

func (f *frontend) showBanner(msg string) {
	f.banner = msg
	f.bannerLeft = bannerTime
}

func (f *frontend) Update() error {
	if f.debug != nil {
		f.debug.BeginFrame()
		defer f.debug.EndFrame()
	}

	now := f.clk.Now()
	elapsed := min(now.Sub(f.last), maxFrameTime)
	f.last = now

	f.bannerLeft = max(f.bannerLeft-elapsed, 0)

	if inpututil.IsKeyJustPressed(keyCopy) {
		f.copySummary()
	}

	if !f.state.Running() {
		if f.debug != nil {
			f.debug.render(f.state)
		}
		if inpututil.IsKeyJustPressed(keyRestart) {
			f.state.Reset()
			f.notice = ""
		}
		return nil
	}

	if f.state.Paused() && f.resume.Update() {
		f.state.RequestResume()
	}

	keys := snapshot(ebiten.IsKeyPressed)
	if f.debug != nil {
		if f.debug.wantsKeyboard() {
			keys = 0
		}
		f.debug.render(f.state)
	}

	f.state.ProcessInput(keys, elapsed)
	f.state.Update()
	return nil
}

func (f *frontend) copySummary() {
	if err := clipboard.WriteAll(summary(f.state)); err != nil {
		f.logger.Warn("copy summary", zap.Error(err))
		f.notice = "Clipboard unavailable"
		return
	}
	f.notice = "Summary copied"
}

func (f *frontend) Draw(screen *ebiten.Image) {
	l := f.layout
	st := f.state

	l.drawGrid(screen)
	l.drawBoard(screen, st.Board())

	if st.Running() {
		tile := st.Tile()
		l.drawLanding(screen, tile.Configuration(), tile.Position(), st.DropDistance())
		l.drawMatrix(screen, tile.Type(), tile.Configuration(), tile.Position())
	}

	l.drawNext(screen, st.Next())
	l.drawStats(screen, st.Score(), st.Level(), st.Lines())

	if f.bannerLeft > 0 && f.banner != "" {
		l.drawCentered(screen, f.banner, l.cfg.OriginY/2, colorWhite)
	}
	if f.notice != "" {
		l.drawCentered(screen, f.notice, l.height-8, colorGrey)
	}

	switch {
	case !st.Running():
		l.drawOverlay(screen)
		l.drawCentered(screen, "GAME OVER", l.height/2-10, colorRed)
		l.drawCentered(screen, "Press R to restart, C to copy your score", l.height/2+20, colorWhite)
	case st.Paused():
		l.drawOverlay(screen)
		f.resume.Draw(screen)
	default:
		l.drawCentered(screen, `Press "Esc" to pause the game`, l.height-l.cfg.OriginY/2, colorWhite)
	}

	if f.debug != nil {
		f.debug.Draw(screen)
	}
}

func (f *frontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	if f.debug != nil {
		f.debug.Layout(f.layout.width, f.layout.height)
	}
	return f.layout.width, f.layout.height
}

// summary is the text copied to the clipboard.
func summary(st *game.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "blockfall session %s\n", st.SessionID())
	fmt.Fprintf(&b, "score %d, level %d, lines %d", st.Score(), st.Level(), st.Lines())
	if !st.Running() {
		b.WriteString(" (game over)")
	}
	return b.String()
}
