package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each terminal cell holds a 2x4 braille dot matrix.
const (
	cellWidth  = 2
	cellHeight = 4

	// Dots dimmer than this are not drawn.
	visibleThreshold = 0.2
	// Dots at least this bright belong to the current frame.
	freshThreshold = 0.99
)

// brailleBits maps a dot position within a cell to its bit in the braille
// block, indexed [y][x].
var brailleBits = [cellHeight][cellWidth]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of dot intensities rendered with braille characters.
type Canvas struct {
	cols, rows int
	width      int // in dots
	height     int // in dots
	dots       []float64
	color      lipgloss.Color
}

// NewCanvas returns a canvas of cols by rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{color: lipgloss.Color("#A78BFA")}
	c.Resize(cols, rows)
	return c
}

// Resize changes the canvas size. The content is cleared; nothing is
// scaled.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	c.cols, c.rows = cols, rows
	c.width, c.height = cols*cellWidth, rows*cellHeight
	c.dots = make([]float64, c.width*c.height)
}

// Size returns the canvas size in dots.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Cells returns the canvas size in terminal cells.
func (c *Canvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// SetColor sets the stroke color.
func (c *Canvas) SetColor(hex string) {
	c.color = lipgloss.Color(hex)
}

// Clear turns every dot off.
func (c *Canvas) Clear() {
	clear(c.dots)
}

// Fade paints the background over the canvas with the given opacity, so
// older strokes fade out over a few frames.
func (c *Canvas) Fade(alpha float64) {
	keep := 1 - math.Min(math.Max(alpha, 0), 1)
	for i := range c.dots {
		c.dots[i] *= keep
	}
}

// At returns the intensity of a dot, or 0 outside the canvas.
func (c *Canvas) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.dots[y*c.width+x]
}

// Set lights a dot at full intensity. Points outside the canvas are
// ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.dots[y*c.width+x] = 1
}

// Line draws a straight line between two points.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	ax, ay := int(math.Round(x0)), int(math.Round(y0))
	bx, by := int(math.Round(x1)), int(math.Round(y1))

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(ax, ay)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// Waveform strokes time-domain bytes as one connected polyline, one point
// per sample from left to right, then closes it at the right edge on the
// centre line. 128 is silence.
func (c *Canvas) Waveform(data []byte) {
	if len(data) == 0 || c.width == 0 || c.height == 0 {
		return
	}
	w, h := float64(c.width), float64(c.height)
	slice := w / float64(len(data))

	var px, py float64
	x := 0.0
	for i, b := range data {
		v := float64(b) / 128.0
		y := v * h / 2
		if i == 0 {
			c.Set(int(math.Round(x)), int(math.Round(y)))
		} else {
			c.Line(px, py, x, y)
		}
		px, py = x, y
		x += slice
	}
	c.Line(px, py, w, h/2)
}

// Render returns the canvas as styled braille text.
func (c *Canvas) Render() string {
	if c.cols == 0 || c.rows == 0 {
		return ""
	}
	fresh := lipgloss.NewStyle().Foreground(c.color)
	trail := lipgloss.NewStyle().Foreground(c.color).Faint(true)

	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			r, peak := c.cell(col, row)
			switch {
			case r == 0:
				b.WriteByte(' ')
			case peak >= freshThreshold:
				b.WriteString(fresh.Render(string(0x2800 + r)))
			default:
				b.WriteString(trail.Render(string(0x2800 + r)))
			}
		}
	}
	return b.String()
}

// cell returns the braille bits of a cell and its brightest dot.
func (c *Canvas) cell(col, row int) (rune, float64) {
	var bits rune
	var peak float64
	for dy := 0; dy < cellHeight; dy++ {
		for dx := 0; dx < cellWidth; dx++ {
			v := c.At(col*cellWidth+dx, row*cellHeight+dy)
			if v < visibleThreshold {
				continue
			}
			bits |= brailleBits[dy][dx]
			peak = math.Max(peak, v)
		}
	}
	return bits, peak
}

// Lit counts the visible dots.
func (c *Canvas) Lit() int {
	n := 0
	for _, v := range c.dots {
		if v >= visibleThreshold {
			n++
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
