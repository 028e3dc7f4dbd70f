// Package engine provides the process wide audio output used by playback
// sessions. A real engine is backed by oto; a mock engine renders in
// software for tests and machines without a sound card.
package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Output format shared by every engine: interleaved stereo float32 little
// endian.
const (
	DefaultSampleRate = 44100
	Channels          = 2
	BytesPerSample    = 4
	BytesPerFrame     = Channels * BytesPerSample
)

var (
	// ErrClosed is returned once an engine or provider has been released.
	ErrClosed = errors.New("audio engine closed")
	// ErrUnavailable is returned when no audio output can be opened.
	ErrUnavailable = errors.New("audio engine unavailable")
)

// State is the engine run state.
type State int

const (
	// StateSuspended means the engine exists but drops all output.
	StateSuspended State = iota
	// StateRunning means connected readers are being pulled.
	StateRunning
	// StateClosed means the engine was released and cannot be reused.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Engine is a single audio output. Connected readers must produce
// interleaved stereo float32 frames at SampleRate.
type Engine interface {
	// Connect attaches r to the output and starts pulling from it.
	Connect(r io.Reader) (Output, error)

	// State returns the current run state.
	State() State

	// Resume starts (or restarts) pulling connected readers.
	Resume() error

	// Suspend stops pulling connected readers without disconnecting them.
	Suspend() error

	// Close disconnects everything and releases the device.
	Close() error

	SampleRate() int
	ChannelCount() int
}

// Output is one connection to an engine.
type Output interface {
	// Close disconnects the reader. It is safe to call more than once.
	Close() error
}

// Type selects the engine implementation.
type Type int

const (
	// TypeAuto picks production when an audio device is present and
	// falls back to mock otherwise.
	TypeAuto Type = iota
	// TypeProduction always uses the system audio device.
	TypeProduction
	// TypeMock renders in software.
	TypeMock
)

func (t Type) String() string {
	switch t {
	case TypeAuto:
		return "auto"
	case TypeProduction:
		return "production"
	case TypeMock:
		return "mock"
	default:
		return "unknown"
	}
}

// ParseType parses an engine type name.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return TypeAuto, nil
	case "production", "oto":
		return TypeProduction, nil
	case "mock":
		return TypeMock, nil
	default:
		return TypeAuto, fmt.Errorf("unknown audio engine type: %q", s)
	}
}
