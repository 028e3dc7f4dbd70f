package graph

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
	"github.com/mindwave/mindwave/pkg/engine"
)

// Sink adapts a stereo streamer to the engine's byte format: interleaved
// float32 little endian frames.
type Sink struct {
	s       beep.Streamer
	mu      sync.Mutex
	buf     [][2]float64
	stopped atomic.Bool
}

// NewSink returns a reader over s.
func NewSink(s beep.Streamer) *Sink {
	return &Sink{s: s}
}

// Read implements io.Reader. After Stop it returns io.EOF.
func (k *Sink) Read(p []byte) (int, error) {
	if k.stopped.Load() {
		return 0, io.EOF
	}
	frames := len(p) / engine.BytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if cap(k.buf) < frames {
		k.buf = make([][2]float64, frames)
	}
	buf := k.buf[:frames]
	n, ok := k.s.Stream(buf)
	if !ok && n == 0 {
		return 0, io.EOF
	}

	for i := 0; i < n; i++ {
		off := i * engine.BytesPerFrame
		binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(buf[i][0])))
		binary.LittleEndian.PutUint32(p[off+engine.BytesPerSample:], math.Float32bits(float32(buf[i][1])))
	}
	return n * engine.BytesPerFrame, nil
}

// Stop ends the stream immediately. There is no fade out.
func (k *Sink) Stop() { k.stopped.Store(true) }

// Stopped reports whether Stop was called.
func (k *Sink) Stopped() bool { return k.stopped.Load() }
