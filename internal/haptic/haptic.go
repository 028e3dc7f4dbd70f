// Package haptic turns a beat frequency into vibration patterns and drives
// whatever vibration the host offers.
package haptic

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mindwave/mindwave/brainwave"
)

// Repetitions is the number of entries in a pattern.
const Repetitions = 20

// Period returns the pulse length for a beat frequency, rounded to the
// millisecond. It returns 0 for beats that can't produce a pattern.
func Period(beat float64) time.Duration {
	if beat <= 0 || math.IsNaN(beat) || math.IsInf(beat, 0) {
		return 0
	}
	ms := math.Round(1000 / beat)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// Pattern returns alternating on/off durations, Repetitions entries of
// Period(beat). It returns nil when no pattern should be issued.
func Pattern(beat float64) []time.Duration {
	p := Period(beat)
	if p == 0 {
		return nil
	}
	out := make([]time.Duration, Repetitions)
	for i := range out {
		out[i] = p
	}
	return out
}

// Vibrator plays a pattern of alternating on/off durations. An empty
// pattern cancels whatever is playing.
type Vibrator interface {
	Vibrate(pattern []time.Duration) error
}

// New returns the vibrator for a configured driver name.
func New(driver string, w io.Writer) (Vibrator, error) {
	switch strings.ToLower(driver) {
	case "", brainwave.HapticsNone:
		return Nop{}, nil
	case brainwave.HapticsBell:
		return NewBell(w), nil
	default:
		return nil, fmt.Errorf("unknown haptics driver %q", driver)
	}
}

// Nop is used on hosts without vibration.
type Nop struct{}

// Vibrate always reports ErrHapticUnsupported.
func (Nop) Vibrate([]time.Duration) error {
	return brainwave.ErrHapticUnsupported
}

// Bell rings the terminal bell at the start of every "on" entry.
type Bell struct {
	w      io.Writer
	mu     sync.Mutex
	cancel chan struct{}
	done   chan struct{}
}

// NewBell returns a bell vibrator writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Vibrate implements Vibrator. Any running pattern is cancelled first.
func (b *Bell) Vibrate(pattern []time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		close(b.cancel)
		<-b.done
		b.cancel, b.done = nil, nil
	}
	if len(pattern) == 0 {
		return nil
	}

	cancel := make(chan struct{})
	done := make(chan struct{})
	b.cancel, b.done = cancel, done

	steps := make([]time.Duration, len(pattern))
	copy(steps, pattern)

	go func() {
		defer close(done)
		timer := time.NewTimer(0)
		defer timer.Stop()
		<-timer.C

		for i, d := range steps {
			if i%2 == 0 {
				if _, err := io.WriteString(b.w, "\a"); err != nil {
					log.Debug("Unable to ring bell", "error", err)
					return
				}
			}
			timer.Reset(d)
			select {
			case <-cancel:
				return
			case <-timer.C:
			}
		}
	}()
	return nil
}

// Recorder keeps every pattern it is asked to play. It is useful in tests
// and headless runs.
type Recorder struct {
	mu       sync.Mutex
	patterns [][]time.Duration
	Err      error
}

// Vibrate implements Vibrator.
func (r *Recorder) Vibrate(pattern []time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]time.Duration, len(pattern))
	copy(cp, pattern)
	r.patterns = append(r.patterns, cp)
	return r.Err
}

// Patterns returns the recorded patterns.
func (r *Recorder) Patterns() [][]time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]time.Duration, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Last returns the most recent pattern, or nil.
func (r *Recorder) Last() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.patterns) == 0 {
		return nil
	}
	return r.patterns[len(r.patterns)-1]
}
