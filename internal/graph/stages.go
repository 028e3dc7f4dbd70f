package graph

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
)

// Envelope shape.
const (
	EnvelopePeak = 0.5
	EnvelopeRamp = 500 * time.Millisecond
)

// Oscillator is a fixed frequency sine generator. It emits silence until
// started and after it is stopped.
type Oscillator struct {
	freq    float64
	tone    beep.Streamer
	running atomic.Bool
}

// NewOscillator returns a stopped oscillator. The frequency must be below
// the Nyquist frequency of sr.
func NewOscillator(sr beep.SampleRate, freq float64) (*Oscillator, error) {
	if freq <= 0 || freq >= float64(sr)/2 {
		return nil, fmt.Errorf("%.2f Hz is out of range for sample rate %d", freq, int(sr))
	}
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("unable to create %.2f Hz sine: %w", freq, err)
	}
	return &Oscillator{freq: freq, tone: tone}, nil
}

// Frequency returns the fixed frequency in Hz.
func (o *Oscillator) Frequency() float64 { return o.freq }

// Start makes the oscillator audible.
func (o *Oscillator) Start() { o.running.Store(true) }

// Stop silences the oscillator for good.
func (o *Oscillator) Stop() { o.running.Store(false) }

// Running reports whether the oscillator is producing a tone.
func (o *Oscillator) Running() bool { return o.running.Load() }

// Stream implements beep.Streamer.
func (o *Oscillator) Stream(samples [][2]float64) (int, bool) {
	if !o.running.Load() {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	return o.tone.Stream(samples)
}

// Err implements beep.Streamer.
func (o *Oscillator) Err() error { return o.tone.Err() }

// Merger places left on channel 0 and right on channel 1, with no panning.
type Merger struct {
	left, right beep.Streamer
	buf         [][2]float64
}

// NewMerger combines two mono sources into one stereo stream.
func NewMerger(left, right beep.Streamer) *Merger {
	return &Merger{left: left, right: right}
}

// Stream implements beep.Streamer.
func (m *Merger) Stream(samples [][2]float64) (int, bool) {
	if cap(m.buf) < len(samples) {
		m.buf = make([][2]float64, len(samples))
	}
	buf := m.buf[:len(samples)]

	n, ok := m.left.Stream(samples)
	rn, rok := m.right.Stream(buf[:n])
	for i := 0; i < n; i++ {
		if i < rn {
			samples[i][1] = buf[i][0]
		} else {
			samples[i][1] = 0
		}
	}
	return n, ok && rok
}

// Err implements beep.Streamer.
func (m *Merger) Err() error {
	if err := m.left.Err(); err != nil {
		return err
	}
	return m.right.Err()
}

// Envelope ramps gain linearly from 0 to EnvelopePeak over EnvelopeRamp,
// then holds it. Time is counted in rendered frames.
type Envelope struct {
	s    beep.Streamer
	ramp int
	pos  atomic.Int64
}

// NewEnvelope wraps s with the fade in.
func NewEnvelope(s beep.Streamer, sr beep.SampleRate) *Envelope {
	ramp := sr.N(EnvelopeRamp)
	if ramp < 1 {
		ramp = 1
	}
	return &Envelope{s: s, ramp: ramp}
}

// ValueAt returns the gain at the given frame.
func (e *Envelope) ValueAt(frame int) float64 {
	if frame <= 0 {
		return 0
	}
	if frame >= e.ramp {
		return EnvelopePeak
	}
	return EnvelopePeak * float64(frame) / float64(e.ramp)
}

// Position returns the number of frames rendered so far.
func (e *Envelope) Position() int { return int(e.pos.Load()) }

// Level returns the current gain.
func (e *Envelope) Level() float64 { return e.ValueAt(e.Position()) }

// Stream implements beep.Streamer.
func (e *Envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	pos := int(e.pos.Load())
	for i := 0; i < n; i++ {
		g := e.ValueAt(pos + i)
		samples[i][0] *= g
		samples[i][1] *= g
	}
	e.pos.Add(int64(n))
	return n, ok
}

// Err implements beep.Streamer.
func (e *Envelope) Err() error { return e.s.Err() }
