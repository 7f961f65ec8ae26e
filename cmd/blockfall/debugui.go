package main

import (
	"fmt"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
)

const frameHistorySize = 120

// frameHistory is a ring of frame times in milliseconds, laid out for
// imgui's line plot.
type frameHistory struct {
	samples []float32
	next    int
	filled  int
}

func newFrameHistory(size int) *frameHistory {
	return &frameHistory{samples: make([]float32, size)}
}

func (h *frameHistory) add(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

func (h *frameHistory) average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, ms := range h.samples {
		sum += ms
	}
	return sum / float32(h.filled)
}

// debugOverlay draws Dear ImGui windows over the game: pipeline timings, a
// frame-time plot, the active tile's contacts and the queue.
type debugOverlay struct {
	*ebitenbackend.EbitenBackend
	frames *frameHistory
}

func newDebugOverlay() *debugOverlay {
	backend := ebitenbackend.NewEbitenBackend()
	imgui.CurrentIO().SetIniFilename("")
	return &debugOverlay{
		EbitenBackend: backend,
		frames:        newFrameHistory(frameHistorySize),
	}
}

// system samples the delta time of every frame the game pipeline runs.
func (d *debugOverlay) system() engine.System {
	return engine.SystemFunc(func(frame *engine.UpdateFrame) {
		d.frames.add(float32(frame.DeltaTime.Seconds() * 1000))
	})
}

func (d *debugOverlay) wantsKeyboard() bool {
	return imgui.CurrentIO().WantCaptureKeyboard()
}

func (d *debugOverlay) render(st *game.State) {
	d.renderPipeline(st)
	d.renderTile(st)
}

func (d *debugOverlay) renderPipeline(st *game.State) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 300), imgui.CondOnce)
	if !imgui.BeginV("Pipeline", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := d.frames.average()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms", avg))
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &d.frames.samples[0], int32(len(d.frames.samples)))

	imgui.Separator()
	stats := st.Stats()
	imgui.Text(fmt.Sprintf("Systems: %d, executions: %d", stats.SystemCount, stats.TotalExecutions))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SystemStats", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Avg")
		imgui.TableSetupColumn("Max")
		imgui.TableSetupColumn("Last")
		imgui.TableHeadersRow()

		for _, sys := range stats.Systems {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(sys.Name)
			imgui.TableNextColumn()
			imgui.Text(sys.AvgDuration.String())
			imgui.TableNextColumn()
			imgui.Text(sys.MaxDuration.String())
			imgui.TableNextColumn()
			imgui.Text(sys.LastDuration.String())
		}
		imgui.EndTable()
	}

	imgui.End()
}

func (d *debugOverlay) renderTile(st *game.State) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 260), imgui.CondOnce)
	if !imgui.BeginV("Tile", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	tile := st.Tile()
	pos := tile.Position()
	imgui.Text(fmt.Sprintf("Type: %s  Rotation: %d", tile.Type(), tile.Rotation()))
	imgui.Text(fmt.Sprintf("Position: (%d, %d)  Drop: %d", pos.X, pos.Y, st.DropDistance()))
	imgui.Text(fmt.Sprintf("Falling: %t  Soft drop ready: %t", tile.Falling, tile.CanSoftDrop))

	c := st.Contacts()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Contacts  left: %t  right: %t  down: %t", c.Left, c.Right, c.Down))
	imgui.Text(fmt.Sprintf("Fall interval: %s", st.FallInterval()))

	if imgui.TreeNodeStr("Queue") {
		for i, typ := range st.Queue() {
			imgui.BulletText(fmt.Sprintf("%d: %s", i, typ))
		}
		imgui.TreePop()
	}

	imgui.End()
}
