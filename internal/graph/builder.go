package graph

import (
	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/pkg/engine"
)

// Builder wires sessions onto the engine handed out by a provider.
type Builder struct {
	provider *engine.Provider
}

// NewBuilder returns a builder using the given engine provider.
func NewBuilder(p *engine.Provider) *Builder {
	return &Builder{provider: p}
}

// Build creates, wires and starts a session. On error nothing is left
// connected and the error matches brainwave.ErrConstruction, or
// brainwave.ErrInvalidParameters for parameters that cannot be played.
func (b *Builder) Build(params brainwave.Parameters) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	e, err := b.provider.Acquire()
	if err != nil {
		return nil, brainwave.ConstructionError("acquire", err)
	}

	switch e.State() {
	case engine.StateClosed:
		return nil, brainwave.ConstructionError("acquire", engine.ErrClosed)
	case engine.StateSuspended:
		// A suspended engine silently drops everything we connect.
		log.Debug("Resuming suspended audio engine")
		if err := e.Resume(); err != nil {
			return nil, brainwave.ConstructionError("resume", err)
		}
	}

	sr := beep.SampleRate(e.SampleRate())
	s, err := newSession(params, sr)
	if err != nil {
		return nil, brainwave.ConstructionError("wire", err).
			WithContext("base_frequency", params.BaseFrequency).
			WithContext("sample_rate", int(sr))
	}

	if err := s.attach(e); err != nil {
		return nil, brainwave.ConstructionError("connect", err)
	}

	log.Debug("Session started",
		"left_hz", s.left.Frequency(),
		"right_hz", s.right.Frequency(),
		"engine", e.State())
	return s, nil
}
