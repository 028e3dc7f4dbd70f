package brainwave

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"engine", func(c *Config) { c.Audio.Engine = "alsa" }},
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 100 }},
		{"buffer size", func(c *Config) { c.Audio.BufferSize = 2 * time.Second }},
		{"haptics", func(c *Config) { c.Haptics.Driver = "rumble" }},
		{"fps", func(c *Config) { c.Visualizer.FPS = 0 }},
		{"trail alpha", func(c *Config) { c.Visualizer.TrailAlpha = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()
	viper.Set("audio.engine", "MOCK")
	viper.Set("audio.buffer_size", "80ms")
	viper.Set("haptics.driver", "bell")
	viper.Set("visualizer.fps", 30)
	viper.Set("preset", "focus")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}
	if cfg.Audio.Engine != EngineMock {
		t.Errorf("Audio.Engine = %q, want mock", cfg.Audio.Engine)
	}
	if cfg.Audio.BufferSize != 80*time.Millisecond {
		t.Errorf("Audio.BufferSize = %v, want 80ms", cfg.Audio.BufferSize)
	}
	if cfg.Haptics.Driver != HapticsBell {
		t.Errorf("Haptics.Driver = %q, want bell", cfg.Haptics.Driver)
	}
	if cfg.Visualizer.FrameInterval() != time.Second/30 {
		t.Errorf("FrameInterval() = %v", cfg.Visualizer.FrameInterval())
	}
	if cfg.Preset != "focus" {
		t.Errorf("Preset = %q, want focus", cfg.Preset)
	}
}

func TestLoadConfigFromViperInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("visualizer.fps", 1000)
	if _, err := LoadConfigFromViper(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfigFromViper() error = %v, want ErrInvalidConfig", err)
	}
}
