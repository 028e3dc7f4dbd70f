package graph

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// TapSize is the number of samples held by an analysis tap.
const TapSize = 2048

// Tap passes audio through unchanged while copying a mono mix into a ring
// buffer for visualization.
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap wraps a streamer with a ring buffer of the given size.
func NewTap(s beep.Streamer, size int) *Tap {
	if size <= 0 {
		size = TapSize
	}
	return &Tap{
		s:    s,
		buf:  make([]float64, size),
		size: size,
	}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error {
	return t.s.Err()
}

// Size returns the number of samples the tap holds.
func (t *Tap) Size() int { return t.size }

// Samples returns the last n samples in chronological order.
func (t *Tap) Samples(n int) []float64 {
	if n > t.size || n <= 0 {
		n = t.size
	}
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return out
}

// ByteTimeDomainData fills dst with the most recent samples scaled to
// [0, 255], where 128 is silence. It returns the number of bytes written,
// at most Size.
func (t *Tap) ByteTimeDomainData(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	samples := t.Samples(len(dst))
	for i, s := range samples {
		dst[i] = toByte(s)
	}
	return len(samples)
}

func toByte(s float64) byte {
	v := 128 * (1 + s)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}
