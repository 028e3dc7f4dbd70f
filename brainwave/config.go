package brainwave

import (
	"fmt"
	"strings"
	"time"
)

// Config contains all playback configuration options.
type Config struct {
	Audio      AudioConfig      `yaml:"audio"`
	Haptics    HapticsConfig    `yaml:"haptics"`
	Visualizer VisualizerConfig `yaml:"visualizer"`

	// Preset played on start when no parameters are given.
	Preset     string `yaml:"preset" env:"MINDWAVE_PRESET"`
	ParamsFile string `yaml:"params_file" env:"MINDWAVE_PARAMS_FILE"`
	Watch      bool   `yaml:"watch" env:"MINDWAVE_WATCH" envDefault:"false"`
}

// AudioConfig selects and tunes the audio engine.
type AudioConfig struct {
	Engine           string        `yaml:"engine" env:"MINDWAVE_AUDIO_ENGINE" envDefault:"auto"`
	SampleRate       int           `yaml:"sample_rate" env:"MINDWAVE_AUDIO_SAMPLE_RATE" envDefault:"44100"`
	BufferSize       time.Duration `yaml:"buffer_size" env:"MINDWAVE_AUDIO_BUFFER_SIZE" envDefault:"0s"`
	PauseOnFocusLoss bool          `yaml:"pause_on_focus_loss" env:"MINDWAVE_AUDIO_PAUSE_ON_FOCUS_LOSS" envDefault:"false"`
}

// HapticsConfig selects the vibration driver.
type HapticsConfig struct {
	Driver string `yaml:"driver" env:"MINDWAVE_HAPTICS_DRIVER" envDefault:"none"`
}

// VisualizerConfig tunes the waveform display.
type VisualizerConfig struct {
	FPS        int     `yaml:"fps" env:"MINDWAVE_VISUALIZER_FPS" envDefault:"60"`
	TrailAlpha float64 `yaml:"trail_alpha" env:"MINDWAVE_VISUALIZER_TRAIL_ALPHA" envDefault:"0.4"`
}

// Engine names accepted by audio.engine.
const (
	EngineAuto       = "auto"
	EngineProduction = "production"
	EngineMock       = "mock"
)

// Haptic driver names accepted by haptics.driver.
const (
	HapticsNone = "none"
	HapticsBell = "bell"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			Engine:     EngineAuto,
			SampleRate: 44100,
		},
		Haptics: HapticsConfig{
			Driver: HapticsNone,
		},
		Visualizer: VisualizerConfig{
			FPS:        60,
			TrailAlpha: 0.4,
		},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch strings.ToLower(c.Audio.Engine) {
	case EngineAuto, EngineProduction, EngineMock:
	default:
		return fmt.Errorf("%w: audio.engine must be auto, production or mock, got %q", ErrInvalidConfig, c.Audio.Engine)
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("%w: audio.sample_rate must be between 8000 and 192000, got %d", ErrInvalidConfig, c.Audio.SampleRate)
	}
	if c.Audio.BufferSize < 0 || c.Audio.BufferSize > time.Second {
		return fmt.Errorf("%w: audio.buffer_size must be between 0 and 1s, got %v", ErrInvalidConfig, c.Audio.BufferSize)
	}
	switch strings.ToLower(c.Haptics.Driver) {
	case HapticsNone, HapticsBell:
	default:
		return fmt.Errorf("%w: haptics.driver must be none or bell, got %q", ErrInvalidConfig, c.Haptics.Driver)
	}
	if c.Visualizer.FPS < 1 || c.Visualizer.FPS > 240 {
		return fmt.Errorf("%w: visualizer.fps must be between 1 and 240, got %d", ErrInvalidConfig, c.Visualizer.FPS)
	}
	if c.Visualizer.TrailAlpha <= 0 || c.Visualizer.TrailAlpha > 1 {
		return fmt.Errorf("%w: visualizer.trail_alpha must be in (0, 1], got %v", ErrInvalidConfig, c.Visualizer.TrailAlpha)
	}
	return nil
}

// FrameInterval is the time between two visualizer frames.
func (v VisualizerConfig) FrameInterval() time.Duration {
	if v.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(v.FPS)
}
