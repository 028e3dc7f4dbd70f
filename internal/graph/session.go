package graph

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/pkg/engine"
)

// Stage names used by Build.
const (
	StageLeft     = "left"
	StageRight    = "right"
	StageMerger   = "merger"
	StageEnvelope = "envelope"
	StageTap      = "tap"
	StageSink     = "sink"
)

// Session is one playing binaural beat.
type Session struct {
	params     brainwave.Parameters
	sampleRate beep.SampleRate
	graph      *Graph
	left       *Oscillator
	right      *Oscillator
	envelope   *Envelope
	tap        *Tap
	sink       *Sink
	started    time.Time
}

// Parameters returns the parameters the session was built from.
func (s *Session) Parameters() brainwave.Parameters { return s.params }

// Left returns the channel 0 generator.
func (s *Session) Left() *Oscillator { return s.left }

// Right returns the channel 1 generator.
func (s *Session) Right() *Oscillator { return s.right }

// Envelope returns the fade in stage.
func (s *Session) Envelope() *Envelope { return s.envelope }

// Tap returns the analysis tap.
func (s *Session) Tap() *Tap { return s.tap }

// Graph returns the stage graph.
func (s *Session) Graph() *Graph { return s.graph }

// Started returns the wall clock start time.
func (s *Session) Started() time.Time { return s.started }

// Rendered returns the audio time rendered so far.
func (s *Session) Rendered() time.Duration {
	return s.sampleRate.D(s.envelope.Position())
}

// Running reports whether both generators are still running.
func (s *Session) Running() bool {
	return s.left.Running() && s.right.Running() && s.graph.Connected()
}

// Stop silences and disconnects the session. It is safe to call more than
// once.
func (s *Session) Stop() {
	s.sink.Stop()
	s.left.Stop()
	s.right.Stop()
	s.graph.Disconnect()
}

func newSession(params brainwave.Parameters, sr beep.SampleRate) (*Session, error) {
	left, err := NewOscillator(sr, params.LeftFrequency())
	if err != nil {
		return nil, err
	}
	right, err := NewOscillator(sr, params.RightFrequency())
	if err != nil {
		return nil, err
	}

	merger := NewMerger(left, right)
	env := NewEnvelope(merger, sr)
	tap := NewTap(env, TapSize)
	sink := NewSink(tap)

	g := New()
	stages := []struct {
		name string
		kind Kind
		s    beep.Streamer
	}{
		{StageLeft, KindGenerate, left},
		{StageRight, KindGenerate, right},
		{StageMerger, KindCombine, merger},
		{StageEnvelope, KindEnvelope, env},
		{StageTap, KindTap, tap},
		{StageSink, KindSink, nil},
	}
	for _, st := range stages {
		if err := g.Add(st.name, st.kind, st.s); err != nil {
			return nil, err
		}
	}
	edges := []Edge{
		{StageLeft, StageMerger},
		{StageRight, StageMerger},
		{StageMerger, StageEnvelope},
		{StageEnvelope, StageTap},
		{StageTap, StageSink},
	}
	for _, e := range edges {
		if err := g.Link(e.From, e.To); err != nil {
			return nil, err
		}
	}
	if err := g.Connect(); err != nil {
		return nil, err
	}

	log.Debug("Session graph wired",
		"stages", len(stages),
		"left_hz", left.Frequency(),
		"right_hz", right.Frequency())

	return &Session{
		params:     params,
		sampleRate: sr,
		graph:      g,
		left:       left,
		right:      right,
		envelope:   env,
		tap:        tap,
		sink:       sink,
	}, nil
}

// attach starts the generators and hands the sink to the engine.
func (s *Session) attach(e engine.Engine) error {
	s.left.Start()
	s.right.Start()

	out, err := e.Connect(s.sink)
	if err != nil {
		s.Stop()
		return err
	}
	s.graph.OnDisconnect(func() {
		if err := out.Close(); err != nil {
			log.Debug("Error closing audio output", "error", err)
		}
	})
	s.started = time.Now()
	return nil
}
