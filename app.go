package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/internal/haptic"
	"github.com/mindwave/mindwave/internal/playback"
	"github.com/mindwave/mindwave/internal/watch"
	"github.com/mindwave/mindwave/pkg/engine"
	"github.com/mindwave/mindwave/utils"
)

// mockClock lets the mock engine render in real time so the waveform moves
// even without a sound card.
const mockClock = 10 * time.Millisecond

// app holds the long-lived pieces shared by the TUI and headless modes.
type app struct {
	cfg       brainwave.Config
	ctrl      *playback.Controller
	lifecycle *playback.Lifecycle
}

func newApp(cfg brainwave.Config, bell io.Writer) (*app, error) {
	typ, err := engine.ParseType(cfg.Audio.Engine)
	if err != nil {
		return nil, err
	}
	provider := engine.NewProvider(engine.Options{
		Type:       typ,
		SampleRate: cfg.Audio.SampleRate,
		BufferSize: cfg.Audio.BufferSize,
		MockClock:  mockClock,
	})

	vib, err := haptic.New(cfg.Haptics.Driver, bell)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		ctrl:      playback.New(provider, playback.WithVibrator(vib)),
		lifecycle: playback.NewLifecycle(),
	}
	a.lifecycle.Register(playback.NewControllerComponent(a.ctrl))
	return a, nil
}

// startWatcher replays the parameters file on every change when watching
// is enabled.
func (a *app) startWatcher() error {
	if !a.cfg.Watch || a.cfg.ParamsFile == "" {
		return nil
	}

	w, err := watch.New(utils.ExpandPath(a.cfg.ParamsFile), func(p brainwave.Parameters) {
		if err := a.ctrl.Play(p); err != nil {
			log.Error("Unable to play reloaded parameters", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("unable to watch parameters file: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Parameters watcher stopped", "error", err)
		}
	}()

	a.lifecycle.Register(playback.NewFuncComponent("parameters watcher", func(context.Context) error {
		cancel()
		return w.Close()
	}))
	return nil
}

// Close shuts everything down in reverse registration order.
func (a *app) Close() error {
	return a.lifecycle.Shutdown()
}
