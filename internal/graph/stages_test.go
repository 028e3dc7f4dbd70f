package graph

import (
	"math"
	"testing"

	"github.com/gopxl/beep/v2"
)

const testRate = beep.SampleRate(44100)

// constStreamer emits the same value on both channels forever.
type constStreamer float64

func (c constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{float64(c), float64(c)}
	}
	return len(samples), true
}

func (constStreamer) Err() error { return nil }

func TestOscillator(t *testing.T) {
	o, err := NewOscillator(testRate, 440)
	if err != nil {
		t.Fatalf("NewOscillator() error = %v", err)
	}
	if o.Frequency() != 440 {
		t.Errorf("Frequency() = %v, want 440", o.Frequency())
	}

	buf := make([][2]float64, 64)
	o.Stream(buf)
	for i, s := range buf {
		if s != [2]float64{} {
			t.Fatalf("stopped oscillator sample %d = %v, want silence", i, s)
		}
	}

	o.Start()
	if !o.Running() {
		t.Fatal("Running() = false after Start")
	}
	o.Stream(buf)
	peak := 0.0
	for _, s := range buf {
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak == 0 {
		t.Error("running oscillator produced silence")
	}

	o.Stop()
	o.Stream(buf)
	if buf[10] != [2]float64{} {
		t.Error("oscillator still audible after Stop")
	}
}

func TestOscillatorRange(t *testing.T) {
	for _, f := range []float64{0, -10, 22050, 30000} {
		if _, err := NewOscillator(testRate, f); err == nil {
			t.Errorf("NewOscillator(%v) should fail", f)
		}
	}
}

func TestMergerChannels(t *testing.T) {
	m := NewMerger(constStreamer(0.25), constStreamer(-0.75))
	buf := make([][2]float64, 16)
	n, ok := m.Stream(buf)
	if n != 16 || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	for i, s := range buf {
		if s[0] != 0.25 || s[1] != -0.75 {
			t.Fatalf("frame %d = %v, want [0.25 -0.75]", i, s)
		}
	}
}

func TestEnvelopeValueAt(t *testing.T) {
	e := NewEnvelope(constStreamer(1), testRate)
	ramp := testRate.N(EnvelopeRamp)

	tests := []struct {
		frame int
		want  float64
	}{
		{0, 0},
		{ramp / 2, EnvelopePeak / 2},
		{ramp, EnvelopePeak},
		{ramp * 10, EnvelopePeak},
	}
	for _, tt := range tests {
		if got := e.ValueAt(tt.frame); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ValueAt(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestEnvelopeStream(t *testing.T) {
	e := NewEnvelope(constStreamer(1), testRate)
	ramp := testRate.N(EnvelopeRamp)

	first := make([][2]float64, 1)
	e.Stream(first)
	if first[0][0] != 0 || first[0][1] != 0 {
		t.Errorf("gain at t=0 = %v, want 0", first[0])
	}

	rest := make([][2]float64, ramp)
	e.Stream(rest)
	if e.Position() != ramp+1 {
		t.Errorf("Position() = %d, want %d", e.Position(), ramp+1)
	}

	held := make([][2]float64, 1024)
	e.Stream(held)
	for i, s := range held {
		if s[0] != EnvelopePeak || s[1] != EnvelopePeak {
			t.Fatalf("frame %d after ramp = %v, want %v", i, s, EnvelopePeak)
		}
	}
	if e.Level() != EnvelopePeak {
		t.Errorf("Level() = %v, want %v", e.Level(), EnvelopePeak)
	}
}

func TestTapBytes(t *testing.T) {
	tap := NewTap(constStreamer(0), TapSize)

	dst := make([]byte, TapSize)
	if n := tap.ByteTimeDomainData(dst); n != TapSize {
		t.Fatalf("ByteTimeDomainData() = %d, want %d", n, TapSize)
	}
	for i, b := range dst {
		if b != 128 {
			t.Fatalf("silent tap byte %d = %d, want 128", i, b)
		}
	}

	loud := NewTap(NewMerger(constStreamer(0.5), constStreamer(0.5)), 4)
	buf := make([][2]float64, 8)
	loud.Stream(buf)
	small := make([]byte, 4)
	loud.ByteTimeDomainData(small)
	for i, b := range small {
		if b != 192 {
			t.Errorf("byte %d = %d, want 192", i, b)
		}
	}
}

func TestToByteClamps(t *testing.T) {
	tests := []struct {
		in   float64
		want byte
	}{
		{-2, 0},
		{-1, 0},
		{0, 128},
		{0.5, 192},
		{1, 255},
		{3, 255},
	}
	for _, tt := range tests {
		if got := toByte(tt.in); got != tt.want {
			t.Errorf("toByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTapSamplesOrder(t *testing.T) {
	ramp := &counter{}
	tap := NewTap(ramp, 4)
	buf := make([][2]float64, 6)
	tap.Stream(buf)

	got := tap.Samples(4)
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Samples() = %v, want %v", got, want)
		}
	}
}

// counter emits 0, 1, 2, ... on both channels.
type counter struct{ n float64 }

func (c *counter) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{c.n, c.n}
		c.n++
	}
	return len(samples), true
}

func (*counter) Err() error { return nil }
