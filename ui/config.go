package ui

import "github.com/mindwave/mindwave/brainwave"

// Config contains TUI-specific configuration.
type Config struct {
	Visualizer       brainwave.VisualizerConfig
	PauseOnFocusLoss bool

	// Played as soon as the program starts. May be nil.
	Initial *brainwave.Parameters

	GlamourStyle string `env:"GLAMOUR_STYLE" envDefault:"auto"`
	ShowHelp     bool   `env:"MINDWAVE_SHOW_HELP" envDefault:"false"`

	// Rows reserved for the waveform; zero uses half the screen.
	VisualizerRows int `env:"MINDWAVE_VISUALIZER_ROWS" envDefault:"0"`
}
