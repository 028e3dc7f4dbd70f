package ui

import (
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/internal/graph"
)

func testVisualizer() *visualizer {
	v := newVisualizer(brainwave.VisualizerConfig{FPS: 60, TrailAlpha: 0.4})
	v.Resize(10, 5)
	return v
}

func silentTap() *graph.Tap {
	return graph.NewTap(beep.Silence(-1), graph.TapSize)
}

func TestVisualizerDrawsWhilePlaying(t *testing.T) {
	v := testVisualizer()
	if cmd := v.SetTap(silentTap()); cmd == nil {
		t.Fatal("SetTap() should schedule a frame")
	}

	if cmd := v.Update(frameMsg{gen: v.gen}); cmd == nil {
		t.Error("frame while playing should schedule the next one")
	}
	w, h := v.canvas.Size()
	if v.canvas.At(0, h/2) != 1 || v.canvas.At(w-1, h/2) != 1 {
		t.Error("silent tap should draw the centre line")
	}
	if v.frames != 1 {
		t.Errorf("frames = %d, want 1", v.frames)
	}
}

func TestVisualizerStaleFramesDropped(t *testing.T) {
	v := testVisualizer()
	v.SetTap(silentTap())
	old := v.gen

	// A new tap cancels the old loop.
	v.SetTap(silentTap())
	if cmd := v.Update(frameMsg{gen: old}); cmd != nil {
		t.Error("stale frame must not be re-armed")
	}
	if v.frames != 0 {
		t.Error("stale frame was drawn")
	}
}

func TestVisualizerClearsWhenStopped(t *testing.T) {
	v := testVisualizer()
	v.SetTap(silentTap())
	v.Update(frameMsg{gen: v.gen})
	if v.canvas.Lit() == 0 {
		t.Fatal("nothing drawn while playing")
	}
	gen := v.gen

	v.Stop()
	if v.Playing() {
		t.Error("Playing() after Stop")
	}
	if v.canvas.Lit() != 0 {
		t.Errorf("Lit() = %d after Stop, want a cleared surface", v.canvas.Lit())
	}
	if cmd := v.Update(frameMsg{gen: gen}); cmd != nil {
		t.Error("frame after Stop must not be re-armed")
	}
	if v.canvas.Lit() != 0 {
		t.Error("frame after Stop drew on the canvas")
	}
}

func TestVisualizerSameTapKeepsLoop(t *testing.T) {
	v := testVisualizer()
	tap := silentTap()
	v.SetTap(tap)
	gen := v.gen
	if cmd := v.SetTap(tap); cmd != nil {
		t.Error("setting the same tap should not start a second loop")
	}
	if v.gen != gen {
		t.Error("setting the same tap cancelled the loop")
	}
}

func TestVisualizerResizeOnNextFrame(t *testing.T) {
	v := testVisualizer()
	v.SetTap(silentTap())
	v.Update(frameMsg{gen: v.gen})

	v.Resize(4, 2)
	if v.canvas.Lit() != 0 {
		t.Error("resized canvas should start empty")
	}
	v.Update(frameMsg{gen: v.gen})
	w, h := v.canvas.Size()
	if w != 8 || h != 8 {
		t.Fatalf("Size() = %dx%d, want 8x8", w, h)
	}
	if v.canvas.At(w-1, h/2) != 1 {
		t.Error("next frame did not use the new size")
	}
}

func TestVisualizerTrailAlphaDefault(t *testing.T) {
	v := newVisualizer(brainwave.VisualizerConfig{FPS: 30})
	if v.alpha != 0.4 {
		t.Errorf("alpha = %v, want 0.4", v.alpha)
	}
}
