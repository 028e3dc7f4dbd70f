package engine

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// MockEngine renders connected readers in software. Rendering happens on
// explicit Render calls, or on a clock started with StartClock.
type MockEngine struct {
	mu         sync.Mutex
	state      State
	sampleRate int
	outputs    []*mockOutput
	stopClock  chan struct{}
	clockDone  chan struct{}

	// Test hooks
	FailConnect error
	FailResume  error

	// Test counters
	Connects    int
	Disconnects int
	Resumes     int
	Suspends    int
	Frames      int
}

// NewMockEngine returns a running mock engine.
func NewMockEngine(sampleRate int) *MockEngine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	log.Debug("Creating mock audio engine", "sample_rate", sampleRate)
	return &MockEngine{
		state:      StateRunning,
		sampleRate: sampleRate,
	}
}

// NewSuspendedMockEngine returns a mock engine that needs Resume before it
// renders anything, like an output that hasn't been activated yet.
func NewSuspendedMockEngine(sampleRate int) *MockEngine {
	m := NewMockEngine(sampleRate)
	m.state = StateSuspended
	return m
}

// Connect implements Engine.
func (m *MockEngine) Connect(r io.Reader) (Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return nil, ErrClosed
	}
	if m.FailConnect != nil {
		return nil, m.FailConnect
	}

	out := &mockOutput{engine: m, reader: r}
	m.outputs = append(m.outputs, out)
	m.Connects++
	return out, nil
}

// State implements Engine.
func (m *MockEngine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Resume implements Engine.
func (m *MockEngine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return ErrClosed
	}
	if m.FailResume != nil {
		return m.FailResume
	}
	if m.state == StateSuspended {
		m.state = StateRunning
		m.Resumes++
	}
	return nil
}

// Suspend implements Engine.
func (m *MockEngine) Suspend() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return ErrClosed
	}
	if m.state == StateRunning {
		m.state = StateSuspended
		m.Suspends++
	}
	return nil
}

// Close implements Engine.
func (m *MockEngine) Close() error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return nil
	}
	m.state = StateClosed
	m.Disconnects += len(m.outputs)
	for _, o := range m.outputs {
		o.closed = true
	}
	m.outputs = nil
	stop, done := m.stopClock, m.clockDone
	m.stopClock, m.clockDone = nil, nil
	m.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	log.Debug("Mock audio engine closed")
	return nil
}

// SampleRate implements Engine.
func (m *MockEngine) SampleRate() int {
	return m.sampleRate
}

// ChannelCount implements Engine.
func (m *MockEngine) ChannelCount() int {
	return Channels
}

// Active returns the number of connected outputs.
func (m *MockEngine) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outputs)
}

// Render pulls frames from every connected reader. Nothing is pulled while
// the engine is suspended. It returns the number of frames rendered per
// output.
func (m *MockEngine) Render(frames int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRunning || frames <= 0 {
		return 0
	}

	buf := make([]byte, frames*BytesPerFrame)
	kept := m.outputs[:0]
	for _, o := range m.outputs {
		n, err := io.ReadFull(o.reader, buf)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			// Reader finished; drop it like a real device would.
			o.closed = true
			m.Disconnects++
			continue
		}
		o.rendered += n / BytesPerFrame
		kept = append(kept, o)
	}
	m.outputs = kept
	m.Frames += frames
	return frames
}

// StartClock renders in real time on a background goroutine until Close.
func (m *MockEngine) StartClock(period time.Duration) {
	m.mu.Lock()
	if m.stopClock != nil || m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	m.stopClock, m.clockDone = stop, done
	m.mu.Unlock()

	frames := int(time.Duration(m.sampleRate) * period / time.Second)
	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.Render(frames)
			}
		}
	}()
}

type mockOutput struct {
	engine   *MockEngine
	reader   io.Reader
	closed   bool
	rendered int
}

func (o *mockOutput) Close() error {
	m := o.engine
	m.mu.Lock()
	defer m.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	for i, other := range m.outputs {
		if other == o {
			m.outputs = append(m.outputs[:i], m.outputs[i+1:]...)
			break
		}
	}
	m.Disconnects++
	return nil
}
