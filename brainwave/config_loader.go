package brainwave

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SetDefaults registers the configuration defaults with Viper.
func SetDefaults() {
	d := DefaultConfig()
	viper.SetDefault("audio.engine", d.Audio.Engine)
	viper.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	viper.SetDefault("audio.buffer_size", d.Audio.BufferSize.String())
	viper.SetDefault("audio.pause_on_focus_loss", d.Audio.PauseOnFocusLoss)
	viper.SetDefault("haptics.driver", d.Haptics.Driver)
	viper.SetDefault("visualizer.fps", d.Visualizer.FPS)
	viper.SetDefault("visualizer.trail_alpha", d.Visualizer.TrailAlpha)
	viper.SetDefault("preset", "")
	viper.SetDefault("params_file", "")
	viper.SetDefault("watch", false)
}

// LoadConfigFromViper loads the playback configuration from Viper.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("audio.engine") {
		cfg.Audio.Engine = strings.ToLower(viper.GetString("audio.engine"))
	}
	if viper.IsSet("audio.sample_rate") {
		cfg.Audio.SampleRate = viper.GetInt("audio.sample_rate")
	}
	if viper.IsSet("audio.buffer_size") {
		cfg.Audio.BufferSize = viper.GetDuration("audio.buffer_size")
	}
	if viper.IsSet("audio.pause_on_focus_loss") {
		cfg.Audio.PauseOnFocusLoss = viper.GetBool("audio.pause_on_focus_loss")
	}

	if viper.IsSet("haptics.driver") {
		cfg.Haptics.Driver = strings.ToLower(viper.GetString("haptics.driver"))
	}

	if viper.IsSet("visualizer.fps") {
		cfg.Visualizer.FPS = viper.GetInt("visualizer.fps")
	}
	if viper.IsSet("visualizer.trail_alpha") {
		cfg.Visualizer.TrailAlpha = viper.GetFloat64("visualizer.trail_alpha")
	}

	cfg.Preset = viper.GetString("preset")
	cfg.ParamsFile = viper.GetString("params_file")
	cfg.Watch = viper.GetBool("watch")

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
