// Package playback owns the single active binaural session and the
// Idle/Playing state around it.
package playback

import (
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/internal/graph"
	"github.com/mindwave/mindwave/internal/haptic"
	"github.com/mindwave/mindwave/pkg/engine"
)

// SessionBuilder builds and starts a session.
type SessionBuilder interface {
	Build(params brainwave.Parameters) (*graph.Session, error)
}

// Controller serializes play, stop and toggle requests and guarantees at
// most one session exists at a time.
type Controller struct {
	mu       sync.Mutex
	builder  SessionBuilder
	provider *engine.Provider
	vibrator haptic.Vibrator
	machine  *brainwave.StateMachine
	session  *graph.Session
	last     *brainwave.Parameters
	closed   bool

	// Subscribers are called with the controller lock held; they must not
	// call back into the controller.
	subs []func(tea.Msg)

	logger *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithVibrator sets the haptic driver. The default is haptic.Nop.
func WithVibrator(v haptic.Vibrator) Option {
	return func(c *Controller) { c.vibrator = v }
}

// WithBuilder replaces the session builder, mostly for tests.
func WithBuilder(b SessionBuilder) Option {
	return func(c *Controller) { c.builder = b }
}

// New returns an idle controller that builds sessions on the engine handed
// out by p. The engine is only created on the first Play.
func New(p *engine.Provider, opts ...Option) *Controller {
	c := &Controller{
		builder:  graph.NewBuilder(p),
		provider: p,
		vibrator: haptic.Nop{},
		machine:  brainwave.NewStateMachine(),
		logger:   log.WithPrefix("playback"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.setupStateMachine()
	return c
}

func (c *Controller) setupStateMachine() {
	notify := func(to brainwave.StateType) func(brainwave.StateType) {
		return func(from brainwave.StateType) {
			c.logger.Debug("State changed", "from", from, "to", to)
			c.emit(brainwave.StateChangedMsg{
				State:     to,
				PrevState: from,
				Timestamp: time.Now(),
			})
		}
	}
	c.machine.OnEnter(brainwave.StatePlaying, notify(brainwave.StatePlaying))
	c.machine.OnEnter(brainwave.StateIdle, notify(brainwave.StateIdle))
}

// Subscribe registers fn for PlayingMsg, StoppedMsg and StateChangedMsg.
func (c *Controller) Subscribe(fn func(tea.Msg)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Controller) emit(msg tea.Msg) {
	for _, fn := range c.subs {
		fn(msg)
	}
}

// Play starts a session for params. A running session is stopped first. On
// error the controller is left idle and the previous parameters are kept
// for Toggle.
func (c *Controller) Play(params brainwave.Parameters) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked(params)
}

func (c *Controller) playLocked(params brainwave.Parameters) error {
	if c.closed {
		return brainwave.ConstructionError("play", engine.ErrClosed)
	}

	c.stopLocked(brainwave.ReasonReplaced)

	if err := params.Validate(); err != nil {
		return err
	}
	for _, w := range params.Warnings() {
		c.logger.Warn("Unusual parameters", "warning", w)
	}

	s, err := c.builder.Build(params)
	if err != nil {
		c.logger.Error("Unable to start session", "error", err)
		return err
	}

	c.session = s
	if !c.machine.Transition(brainwave.StatePlaying) {
		// Unreachable while stopLocked leaves us idle.
		s.Stop()
		c.session = nil
		return errors.New("controller is not idle")
	}

	p := params
	c.last = &p

	c.vibrate(haptic.Pattern(params.BinauralBeat))

	c.logger.Info("Playing",
		"mood", params.Mood,
		"wave", params.WaveType,
		"base", params.BaseLabel(),
		"beat", params.BeatLabel())
	c.emit(brainwave.PlayingMsg{Params: params, Started: s.Started()})
	return nil
}

// Stop tears down the active session. It is a no-op when idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked(brainwave.ReasonUser)
}

func (c *Controller) stopLocked(reason string) {
	if c.session == nil {
		return
	}
	c.session.Stop()
	c.session = nil
	c.vibrate(nil)
	c.machine.Transition(brainwave.StateIdle)
	c.logger.Debug("Stopped", "reason", reason)
	c.emit(brainwave.StoppedMsg{Reason: reason})
}

func (c *Controller) vibrate(pattern []time.Duration) {
	err := c.vibrator.Vibrate(pattern)
	switch {
	case err == nil:
	case errors.Is(err, brainwave.ErrHapticUnsupported):
		c.logger.Debug("Haptics unavailable", "error", err)
	default:
		c.logger.Warn("Haptic feedback failed", "error", err)
	}
}

// Toggle stops a running session, or replays the last parameters when
// idle. Without previous parameters it does nothing.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.stopLocked(brainwave.ReasonUser)
		return nil
	}
	if c.last == nil {
		return nil
	}
	return c.playLocked(*c.last)
}

// IsPlaying reports whether a session is active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// State returns the current playback state.
func (c *Controller) State() brainwave.StateType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Current returns the parameters of the active session, or nil.
func (c *Controller) Current() *brainwave.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	p := c.session.Parameters()
	return &p
}

// Last returns the parameters of the last successful Play, or nil.
func (c *Controller) Last() *brainwave.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	p := *c.last
	return &p
}

// Tap returns the analysis tap of the active session, or nil when idle.
func (c *Controller) Tap() *graph.Tap {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Tap()
}

// Started returns when the active session started, or the zero time.
func (c *Controller) Started() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return time.Time{}
	}
	return c.session.Started()
}

// Elapsed returns how much audio the active session has rendered.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.Rendered()
}

// SetSuspended suspends or resumes the engine without touching the
// session. It does nothing before the engine exists.
func (c *Controller) SetSuspended(suspended bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.provider.Engine()
	if e == nil || c.closed {
		return nil
	}
	if suspended {
		if e.State() != engine.StateRunning {
			return nil
		}
		c.logger.Debug("Suspending audio engine")
		return e.Suspend()
	}
	if e.State() != engine.StateSuspended {
		return nil
	}
	c.logger.Debug("Resuming audio engine")
	return e.Resume()
}

// Close stops playback and releases the engine. It is safe to call more
// than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked(brainwave.ReasonShutdown)
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.provider.Release(); err != nil {
		c.logger.Warn("Error releasing audio engine", "error", err)
		return err
	}
	return nil
}
