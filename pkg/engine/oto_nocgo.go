//go:build nocgo
// +build nocgo

package engine

import (
	"fmt"
	"io"
	"time"
)

// OtoEngine stub for builds without cgo.
type OtoEngine struct{}

// NewOtoEngine always fails in nocgo builds.
func NewOtoEngine(platform *PlatformInfo, sampleRate int, bufferSize time.Duration) (*OtoEngine, error) {
	return nil, fmt.Errorf("%w: audio not available in nocgo build", ErrUnavailable)
}

func (e *OtoEngine) Connect(r io.Reader) (Output, error) {
	return nil, fmt.Errorf("%w: audio not available in nocgo build", ErrUnavailable)
}

func (e *OtoEngine) State() State { return StateClosed }

func (e *OtoEngine) Resume() error { return ErrClosed }

func (e *OtoEngine) Suspend() error { return ErrClosed }

func (e *OtoEngine) Close() error { return nil }

func (e *OtoEngine) SampleRate() int { return DefaultSampleRate }

func (e *OtoEngine) ChannelCount() int { return Channels }
