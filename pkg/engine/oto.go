//go:build !nocgo
// +build !nocgo

package engine

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// OtoEngine plays through the system audio device. Only one may exist per
// process, which is what Provider enforces.
type OtoEngine struct {
	mu         sync.Mutex
	context    *oto.Context
	state      State
	sampleRate int
	players    map[*otoOutput]struct{}
}

// NewOtoEngine opens the audio device with platform specific retries.
// bufferSize of zero picks the platform default.
func NewOtoEngine(platform *PlatformInfo, sampleRate int, bufferSize time.Duration) (*OtoEngine, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if bufferSize <= 0 {
		bufferSize = time.Millisecond * time.Duration(platform.BufferSizeMillis())
	}

	maxRetries, retryDelay := platform.RetryPolicy()

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			log.Debug("Retrying audio engine initialization", "attempt", i+1, "of", maxRetries)
			time.Sleep(retryDelay)
		}

		ctx, err := openContext(platform, sampleRate, bufferSize)
		if err != nil {
			lastErr = err
			log.Debug("Audio engine initialization failed", "attempt", i+1, "error", err)
			continue
		}

		log.Info("Audio engine initialized", "sample_rate", sampleRate, "buffer", bufferSize, "attempt", i+1)
		return &OtoEngine{
			context:    ctx,
			state:      StateRunning,
			sampleRate: sampleRate,
			players:    make(map[*otoOutput]struct{}),
		}, nil
	}

	return nil, fmt.Errorf("%w: failed after %d attempts: %w", ErrUnavailable, maxRetries, lastErr)
}

func openContext(platform *PlatformInfo, sampleRate int, bufferSize time.Duration) (*oto.Context, error) {
	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}

	log.Debug("Opening audio context",
		"platform", platform.OS,
		"audio_subsystem", platform.AudioSubsystem,
		"sample_rate", options.SampleRate,
		"buffer_size", options.BufferSize)

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	readyTimeout := 5 * time.Second
	if platform.OS == PlatformDarwin {
		readyTimeout = 10 * time.Second
	}

	select {
	case <-ready:
		return ctx, nil
	case <-time.After(readyTimeout):
		// oto contexts can't be closed; it stays allocated until exit.
		return nil, fmt.Errorf("audio context initialization timeout after %v", readyTimeout)
	}
}

// Connect implements Engine.
func (e *OtoEngine) Connect(r io.Reader) (Output, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed {
		return nil, ErrClosed
	}
	if err := e.context.Err(); err != nil {
		return nil, fmt.Errorf("audio context failed: %w", err)
	}

	out := &otoOutput{engine: e, player: e.context.NewPlayer(r)}
	e.players[out] = struct{}{}
	out.player.Play()

	log.Debug("Connected player", "players", len(e.players))
	return out, nil
}

// State implements Engine.
func (e *OtoEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Resume implements Engine.
func (e *OtoEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateClosed:
		return ErrClosed
	case StateRunning:
		return nil
	}
	if err := e.context.Resume(); err != nil {
		return fmt.Errorf("unable to resume audio context: %w", err)
	}
	e.state = StateRunning
	log.Debug("Audio engine resumed")
	return nil
}

// Suspend implements Engine.
func (e *OtoEngine) Suspend() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateClosed:
		return ErrClosed
	case StateSuspended:
		return nil
	}
	if err := e.context.Suspend(); err != nil {
		return fmt.Errorf("unable to suspend audio context: %w", err)
	}
	e.state = StateSuspended
	log.Debug("Audio engine suspended")
	return nil
}

// Close implements Engine.
func (e *OtoEngine) Close() error {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return nil
	}
	players := make([]*otoOutput, 0, len(e.players))
	for p := range e.players {
		players = append(players, p)
	}
	e.mu.Unlock()

	for _, p := range players {
		_ = p.Close()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// oto contexts have no Close; suspending stops the device callback.
	err := e.context.Suspend()
	e.state = StateClosed
	log.Debug("Audio engine closed")
	return err
}

// SampleRate implements Engine.
func (e *OtoEngine) SampleRate() int {
	return e.sampleRate
}

// ChannelCount implements Engine.
func (e *OtoEngine) ChannelCount() int {
	return Channels
}

type otoOutput struct {
	engine *OtoEngine
	player *oto.Player
	once   sync.Once
	err    error
}

func (o *otoOutput) Close() error {
	o.once.Do(func() {
		o.player.Pause()
		o.err = o.player.Close()

		o.engine.mu.Lock()
		delete(o.engine.players, o)
		o.engine.mu.Unlock()
	})
	return o.err
}
