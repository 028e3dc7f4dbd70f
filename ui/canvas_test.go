package ui

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(10, 5)
	if w, h := c.Size(); w != 20 || h != 20 {
		t.Fatalf("Size() = %dx%d, want 20x20", w, h)
	}
	c.Set(3, 3)
	c.Resize(4, 2)
	if w, h := c.Size(); w != 8 || h != 8 {
		t.Fatalf("Size() after Resize = %dx%d, want 8x8", w, h)
	}
	if c.Lit() != 0 {
		t.Error("Resize should start from an empty canvas")
	}
	c.Resize(-1, -1)
	if w, h := c.Size(); w != 0 || h != 0 {
		t.Errorf("negative Resize = %dx%d", w, h)
	}
}

func TestCanvasFadeAndClear(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(1, 1)
	c.Fade(0.4)
	if got := c.At(1, 1); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("At() after Fade(0.4) = %v, want 0.6", got)
	}

	// The trail disappears after a few frames.
	for i := 0; i < 4; i++ {
		c.Fade(0.4)
	}
	if c.Lit() != 0 {
		t.Errorf("Lit() = %d after five fades, want 0", c.Lit())
	}

	c.Set(0, 0)
	c.Clear()
	if c.Lit() != 0 {
		t.Error("Clear() left dots on")
	}
}

func TestCanvasWaveformSilence(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Waveform(bytes.Repeat([]byte{128}, 2048))

	w, h := c.Size()
	for x := 0; x < w; x++ {
		if c.At(x, h/2) != 1 {
			t.Fatalf("dot (%d, %d) is off, silence should draw the centre line", x, h/2)
		}
	}
	if c.Lit() != w {
		t.Errorf("Lit() = %d, want %d", c.Lit(), w)
	}
}

func TestCanvasWaveformScale(t *testing.T) {
	tests := []struct {
		name  string
		value byte
		wantY int
	}{
		{"minimum at the top", 0, 0},
		{"quarter", 64, 5},
		{"silence in the middle", 128, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(10, 5) // 20x20 dots
			c.Waveform([]byte{tt.value, tt.value})
			if c.At(0, tt.wantY) != 1 {
				t.Errorf("first point not at y=%d", tt.wantY)
			}
		})
	}
}

func TestCanvasWaveformClosesAtCentre(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Waveform([]byte{0})
	// A single sample at the top, then a segment down to the right edge.
	w, h := c.Size()
	if c.At(w-1, h/2) != 1 && c.At(w-1, h/2-1) != 1 {
		t.Error("final segment does not reach the centre line at the right edge")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(0, 0)
	c.Set(3, 7)

	out := c.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Render() has %d lines, want 2", len(lines))
	}
	if !strings.ContainsRune(lines[0], '⠁') {
		t.Errorf("first row %q should hold dot 1", lines[0])
	}
	if !strings.ContainsRune(lines[1], '⢀') {
		t.Errorf("second row %q should hold dot 8", lines[1])
	}
}

func TestCanvasRenderEmpty(t *testing.T) {
	if out := NewCanvas(0, 0).Render(); out != "" {
		t.Errorf("Render() of empty canvas = %q", out)
	}
}
