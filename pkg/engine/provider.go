package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Options configure the engine a Provider creates.
type Options struct {
	Type       Type
	SampleRate int
	BufferSize time.Duration // zero picks the platform default
	// MockClock is the render period of a mock engine. Zero leaves the
	// mock engine to be driven by Render calls.
	MockClock time.Duration
}

// Provider hands out the single audio engine of the process. The engine is
// created on first Acquire and reused until Release; it is never recreated.
type Provider struct {
	mu       sync.Mutex
	opts     Options
	create   func(Options) (Engine, error)
	engine   Engine
	released bool
}

// NewProvider returns a provider that creates the engine lazily.
func NewProvider(opts Options) *Provider {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	return &Provider{opts: opts, create: New}
}

// NewStaticProvider returns a provider that always hands out e.
func NewStaticProvider(e Engine) *Provider {
	return &Provider{
		opts:   Options{SampleRate: e.SampleRate()},
		create: func(Options) (Engine, error) { return e, nil },
	}
}

// NewProviderFunc returns a provider that calls create on first use.
func NewProviderFunc(create func() (Engine, error)) *Provider {
	return &Provider{
		opts:   Options{SampleRate: DefaultSampleRate},
		create: func(Options) (Engine, error) { return create() },
	}
}

// Acquire returns the engine, creating it if needed. A failed creation is
// not cached, so a later Acquire may try again.
func (p *Provider) Acquire() (Engine, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil, ErrClosed
	}
	if p.engine != nil {
		return p.engine, nil
	}

	e, err := p.create(p.opts)
	if err != nil {
		return nil, err
	}
	p.engine = e
	return e, nil
}

// Engine returns the current engine, or nil if none was created.
func (p *Provider) Engine() Engine {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine
}

// Release closes the engine if one was created. Further Acquire calls
// fail with ErrClosed. Release is idempotent.
func (p *Provider) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil
	}
	p.released = true
	if p.engine == nil {
		return nil
	}
	log.Debug("Releasing audio engine")
	return p.engine.Close()
}

// Released reports whether Release was called.
func (p *Provider) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// New creates an engine of the requested type.
func New(opts Options) (Engine, error) {
	switch opts.Type {
	case TypeProduction:
		log.Debug("Creating production audio engine")
		e, err := NewOtoEngine(DetectPlatform(), opts.SampleRate, opts.BufferSize)
		if err != nil {
			return nil, err
		}
		return e, nil

	case TypeMock:
		return newMock(opts), nil

	case TypeAuto:
		platform := DetectPlatform()
		log.Debug("Platform detection complete", "info", platform.String())

		if platform.ShouldUseMockAudio() {
			log.Info("Using mock audio engine", "reason", platform.MockReason())
			return newMock(opts), nil
		}

		e, err := NewOtoEngine(platform, opts.SampleRate, opts.BufferSize)
		if err != nil {
			log.Warn("Failed to create production audio engine, falling back to mock",
				"error", err,
				"platform", platform.OS)
			return newMock(opts), nil
		}
		return e, nil

	default:
		return nil, fmt.Errorf("unknown audio engine type: %v", opts.Type)
	}
}

func newMock(opts Options) *MockEngine {
	m := NewMockEngine(opts.SampleRate)
	if opts.MockClock > 0 {
		m.StartClock(opts.MockClock)
	}
	return m
}
