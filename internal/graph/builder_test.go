package graph

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/pkg/engine"
)

func testParams() brainwave.Parameters {
	return brainwave.Parameters{
		Mood:          "calm",
		WaveType:      brainwave.WaveAlpha,
		BinauralBeat:  10,
		BaseFrequency: 220,
	}
}

func TestBuildFrequencies(t *testing.T) {
	m := engine.NewMockEngine(44100)
	b := NewBuilder(engine.NewStaticProvider(m))

	s, err := b.Build(testParams())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer s.Stop()

	if got := s.Left().Frequency(); got != 220 {
		t.Errorf("left frequency = %v, want 220", got)
	}
	if got := s.Right().Frequency(); got != 230 {
		t.Errorf("right frequency = %v, want 230", got)
	}
	if !s.Running() {
		t.Error("Running() = false after Build")
	}
	if m.Active() != 1 {
		t.Errorf("engine outputs = %d, want 1", m.Active())
	}
}

func TestBuildGraphShape(t *testing.T) {
	b := NewBuilder(engine.NewStaticProvider(engine.NewMockEngine(0)))
	s, err := b.Build(testParams())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	g := s.Graph()
	counts := map[Kind]int{KindGenerate: 2, KindCombine: 1, KindEnvelope: 1, KindTap: 1, KindSink: 1}
	for kind, want := range counts {
		if got := g.Count(kind); got != want {
			t.Errorf("Count(%v) = %d, want %d", kind, got, want)
		}
	}

	// The tap must sit after the envelope and feed the sink.
	edges := g.Edges()
	var envToTap, tapToSink bool
	for _, e := range edges {
		envToTap = envToTap || (e.From == StageEnvelope && e.To == StageTap)
		tapToSink = tapToSink || (e.From == StageTap && e.To == StageSink)
	}
	if !envToTap || !tapToSink {
		t.Errorf("edges = %v, want envelope -> tap -> sink", edges)
	}
}

func TestBuildResumesSuspendedEngine(t *testing.T) {
	m := engine.NewSuspendedMockEngine(44100)
	b := NewBuilder(engine.NewStaticProvider(m))

	s, err := b.Build(testParams())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	if m.State() != engine.StateRunning {
		t.Fatalf("engine state = %v, want running", m.State())
	}
	if m.Resumes != 1 {
		t.Errorf("Resumes = %d, want 1", m.Resumes)
	}

	// Render past the fade in; the tap must see signal.
	m.Render(44100)
	peak := 0.0
	for _, v := range s.Tap().Samples(TapSize) {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak < 0.1 || peak > EnvelopePeak+1e-9 {
		t.Errorf("tap peak = %v, want audible signal no louder than %v", peak, EnvelopePeak)
	}
}

func TestSuspendedEngineDropsAudio(t *testing.T) {
	m := engine.NewMockEngine(44100)
	b := NewBuilder(engine.NewStaticProvider(m))
	s, err := b.Build(testParams())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	if err := m.Suspend(); err != nil {
		t.Fatal(err)
	}
	m.Render(4096)

	buf := make([]byte, TapSize)
	s.Tap().ByteTimeDomainData(buf)
	for i, v := range buf {
		if v != 128 {
			t.Fatalf("tap byte %d = %d while suspended, want 128", i, v)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("invalid parameters", func(t *testing.T) {
		m := engine.NewMockEngine(0)
		p := testParams()
		p.BaseFrequency = 0
		_, err := NewBuilder(engine.NewStaticProvider(m)).Build(p)
		if !errors.Is(err, brainwave.ErrInvalidParameters) {
			t.Errorf("Build() error = %v, want ErrInvalidParameters", err)
		}
		if m.Connects != 0 {
			t.Errorf("Connects = %d, want 0", m.Connects)
		}
	})

	t.Run("engine unavailable", func(t *testing.T) {
		p := engine.NewProviderFunc(func() (engine.Engine, error) {
			return nil, engine.ErrUnavailable
		})
		_, err := NewBuilder(p).Build(testParams())
		if !errors.Is(err, brainwave.ErrConstruction) || !errors.Is(err, engine.ErrUnavailable) {
			t.Errorf("Build() error = %v, want ErrConstruction wrapping ErrUnavailable", err)
		}
	})

	t.Run("resume fails", func(t *testing.T) {
		m := engine.NewSuspendedMockEngine(0)
		m.FailResume = errors.New("no gesture")
		_, err := NewBuilder(engine.NewStaticProvider(m)).Build(testParams())
		if !errors.Is(err, brainwave.ErrConstruction) {
			t.Errorf("Build() error = %v, want ErrConstruction", err)
		}
		if m.Connects != 0 {
			t.Errorf("Connects = %d, want 0", m.Connects)
		}
	})

	t.Run("connect fails", func(t *testing.T) {
		m := engine.NewMockEngine(0)
		m.FailConnect = errors.New("device gone")
		_, err := NewBuilder(engine.NewStaticProvider(m)).Build(testParams())
		if !errors.Is(err, brainwave.ErrConstruction) {
			t.Errorf("Build() error = %v, want ErrConstruction", err)
		}
		if m.Active() != 0 {
			t.Errorf("Active() = %d, want nothing connected", m.Active())
		}
	})

	t.Run("above nyquist", func(t *testing.T) {
		m := engine.NewMockEngine(8000)
		p := testParams()
		p.BaseFrequency = 3995
		_, err := NewBuilder(engine.NewStaticProvider(m)).Build(p)
		if !errors.Is(err, brainwave.ErrConstruction) {
			t.Errorf("Build() error = %v, want ErrConstruction", err)
		}
		if m.Connects != 0 {
			t.Errorf("Connects = %d, want 0", m.Connects)
		}
	})

	t.Run("released provider", func(t *testing.T) {
		p := engine.NewStaticProvider(engine.NewMockEngine(0))
		_ = p.Release()
		_, err := NewBuilder(p).Build(testParams())
		if !errors.Is(err, brainwave.ErrConstruction) {
			t.Errorf("Build() error = %v, want ErrConstruction", err)
		}
	})
}

func TestSessionStopIsAbruptAndIdempotent(t *testing.T) {
	m := engine.NewMockEngine(44100)
	s, err := NewBuilder(engine.NewStaticProvider(m)).Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	s.Stop()
	s.Stop()

	if s.Running() {
		t.Error("Running() = true after Stop")
	}
	if s.Left().Running() || s.Right().Running() {
		t.Error("generators still running after Stop")
	}
	if m.Active() != 0 {
		t.Errorf("Active() = %d after Stop, want 0", m.Active())
	}
	if m.Disconnects != 1 {
		t.Errorf("Disconnects = %d, want 1", m.Disconnects)
	}
	if _, err := s.sink.Read(make([]byte, 64)); err != io.EOF {
		t.Errorf("sink Read() after Stop = %v, want io.EOF", err)
	}
}

func TestSinkFormat(t *testing.T) {
	sink := NewSink(NewMerger(constStreamer(0.25), constStreamer(-0.5)))
	buf := make([]byte, 3*engine.BytesPerFrame+3)
	n, err := sink.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3*engine.BytesPerFrame {
		t.Fatalf("Read() = %d bytes, want %d", n, 3*engine.BytesPerFrame)
	}
	for i := 0; i < 3; i++ {
		off := i * engine.BytesPerFrame
		l := math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
		r := math.Float32frombits(binary.LittleEndian.Uint32(buf[off+engine.BytesPerSample:]))
		if l != 0.25 || r != -0.5 {
			t.Errorf("frame %d = (%v, %v), want (0.25, -0.5)", i, l, r)
		}
	}
}

func TestSessionRendered(t *testing.T) {
	m := engine.NewMockEngine(44100)
	s, err := NewBuilder(engine.NewStaticProvider(m)).Build(testParams())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	m.Render(22050)
	if got := s.Rendered().Milliseconds(); got != 500 {
		t.Errorf("Rendered() = %dms, want 500ms", got)
	}
	if s.Envelope().Level() != EnvelopePeak {
		t.Errorf("Level() after 0.5s = %v, want %v", s.Envelope().Level(), EnvelopePeak)
	}
}
