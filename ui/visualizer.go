package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/internal/graph"
)

// frameMsg is one visualizer tick. Ticks from an older generation are
// dropped and not re-armed.
type frameMsg struct {
	gen  int
	time time.Time
}

// visualizer draws the live waveform of the playing session.
type visualizer struct {
	canvas   *Canvas
	tap      *graph.Tap
	gen      int
	interval time.Duration
	alpha    float64
	buf      []byte
	frames   int
}

func newVisualizer(cfg brainwave.VisualizerConfig) *visualizer {
	alpha := cfg.TrailAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = 0.4
	}
	return &visualizer{
		canvas:   NewCanvas(0, 0),
		interval: cfg.FrameInterval(),
		alpha:    alpha,
		buf:      make([]byte, graph.TapSize),
	}
}

// Playing reports whether the loop is running.
func (v *visualizer) Playing() bool {
	return v.tap != nil
}

// SetTap switches the loop to a new tap. The running loop, if any, is
// cancelled. A nil tap stops drawing and clears the canvas.
func (v *visualizer) SetTap(tap *graph.Tap) tea.Cmd {
	if tap == v.tap {
		return nil
	}
	v.gen++
	v.tap = tap
	if tap == nil {
		v.canvas.Clear()
		return nil
	}
	if tap.Size() > len(v.buf) {
		v.buf = make([]byte, tap.Size())
	}
	return v.tick()
}

// Stop cancels the loop.
func (v *visualizer) Stop() {
	v.SetTap(nil)
}

// Resize takes effect on the next frame.
func (v *visualizer) Resize(cols, rows int) {
	v.canvas.Resize(cols, rows)
}

func (v *visualizer) tick() tea.Cmd {
	gen := v.gen
	return tea.Tick(v.interval, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, time: t}
	})
}

// Update handles a frame tick and schedules the next one.
func (v *visualizer) Update(msg frameMsg) tea.Cmd {
	if msg.gen != v.gen {
		return nil
	}
	v.draw()
	if v.tap == nil {
		return nil
	}
	return v.tick()
}

func (v *visualizer) draw() {
	if v.tap == nil {
		v.canvas.Clear()
		return
	}
	v.canvas.Fade(v.alpha)
	n := v.tap.ByteTimeDomainData(v.buf)
	v.canvas.Waveform(v.buf[:n])
	v.frames++
}

func (v *visualizer) View() string {
	return v.canvas.Render()
}
