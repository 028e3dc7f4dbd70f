package brainwave

import (
	"context"
	"errors"
	"testing"
)

func TestPresetsValidate(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.Name, func(t *testing.T) {
			if err := p.Params.Validate(); err != nil {
				t.Errorf("preset %s does not validate: %v", p.Name, err)
			}
			if w := p.Params.Warnings(); len(w) > 0 {
				t.Errorf("preset %s has warnings: %v", p.Name, w)
			}
		})
	}
}

func TestLookupPreset(t *testing.T) {
	p, err := LookupPreset("Focus")
	if err != nil {
		t.Fatalf("LookupPreset() error = %v", err)
	}
	if p.Params.WaveType != WaveBeta {
		t.Errorf("focus wave type = %v, want Beta", p.Params.WaveType)
	}

	if _, err := LookupPreset("nope"); err == nil {
		t.Error("LookupPreset(nope) should fail")
	}
}

func TestPresetAnalyzer(t *testing.T) {
	a := NewPresetAnalyzer("")

	tests := []struct {
		mood string
		want WaveType
	}{
		{"I can't sleep, I'm exhausted", WaveDelta},
		{"feeling anxious and stressed", WaveAlpha},
		{"need to focus on my study session", WaveBeta},
		{"want to meditate", WaveTheta},
		{"chasing clarity and insight", WaveGamma},
		{"purple elephant", WaveAlpha}, // fallback
	}

	for _, tt := range tests {
		t.Run(tt.mood, func(t *testing.T) {
			p, err := a.Analyze(context.Background(), tt.mood)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if p.WaveType != tt.want {
				t.Errorf("Analyze(%q) wave = %v, want %v", tt.mood, p.WaveType, tt.want)
			}
			if p.Mood != tt.mood {
				t.Errorf("Analyze() mood = %q, want %q", p.Mood, tt.mood)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("Analyze() returned invalid parameters: %v", err)
			}
		})
	}
}

func TestPresetAnalyzerErrors(t *testing.T) {
	a := NewPresetAnalyzer("")

	if _, err := a.Analyze(context.Background(), "   "); !errors.Is(err, ErrNoMatch) {
		t.Errorf("empty mood error = %v, want ErrNoMatch", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Analyze(ctx, "calm"); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context error = %v, want context.Canceled", err)
	}
}
