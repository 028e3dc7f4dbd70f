package haptic

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mindwave/mindwave/brainwave"
)

func TestPattern(t *testing.T) {
	tests := []struct {
		name   string
		beat   float64
		period time.Duration
	}{
		{"theta 8 Hz", 8, 125 * time.Millisecond},
		{"alpha 10 Hz", 10, 100 * time.Millisecond},
		{"rounds 3 Hz", 3, 333 * time.Millisecond},
		{"rounds 7 Hz", 7, 143 * time.Millisecond},
		{"gamma 40 Hz", 40, 25 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pattern(tt.beat)
			if len(p) != Repetitions {
				t.Fatalf("len(Pattern(%v)) = %d, want %d", tt.beat, len(p), Repetitions)
			}
			for i, d := range p {
				if d != tt.period {
					t.Fatalf("Pattern(%v)[%d] = %v, want %v", tt.beat, i, d, tt.period)
				}
			}
		})
	}
}

func TestPatternNonPositive(t *testing.T) {
	for _, beat := range []float64{0, -4} {
		if p := Pattern(beat); p != nil {
			t.Errorf("Pattern(%v) = %v, want nil", beat, p)
		}
	}
}

func TestNew(t *testing.T) {
	if v, err := New("none", nil); err != nil || v != (Nop{}) {
		t.Errorf("New(none) = %v, %v", v, err)
	}
	if v, err := New("bell", &bytes.Buffer{}); err != nil {
		t.Errorf("New(bell) error = %v", err)
	} else if _, ok := v.(*Bell); !ok {
		t.Errorf("New(bell) = %T, want *Bell", v)
	}
	if _, err := New("rumble", nil); err == nil {
		t.Error("New(rumble) should fail")
	}
}

func TestNopUnsupported(t *testing.T) {
	if err := (Nop{}).Vibrate(Pattern(8)); !errors.Is(err, brainwave.ErrHapticUnsupported) {
		t.Errorf("Nop.Vibrate() = %v, want ErrHapticUnsupported", err)
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestBellRingsAndCancels(t *testing.T) {
	out := &syncBuffer{}
	b := NewBell(out)

	pattern := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond}
	if err := b.Vibrate(pattern); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for out.String() != "\a\a" {
		if time.Now().After(deadline) {
			t.Fatalf("bell output = %q, want two rings", out.String())
		}
		time.Sleep(time.Millisecond)
	}

	long := []time.Duration{time.Hour, time.Hour, time.Hour}
	if err := b.Vibrate(long); err != nil {
		t.Fatal(err)
	}
	// Cancelling must return promptly even though the pattern is hours long.
	done := make(chan struct{})
	go func() {
		_ = b.Vibrate(nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not stop the running pattern")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	if r.Last() != nil {
		t.Error("Last() on empty recorder should be nil")
	}
	_ = r.Vibrate(Pattern(8))
	_ = r.Vibrate(nil)

	if got := len(r.Patterns()); got != 2 {
		t.Fatalf("len(Patterns()) = %d, want 2", got)
	}
	if len(r.Last()) != 0 {
		t.Errorf("Last() = %v, want cancel pattern", r.Last())
	}
}
