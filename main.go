// Package main provides the entry point for the mindwave CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/internal/playback"
	"github.com/mindwave/mindwave/ui"
	"github.com/mindwave/mindwave/utils"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile        string
	defaultConfigFile string
	presetName        string
	paramsFile        string
	baseFreq          float64
	beatFreq          float64
	waveName          string
	watchFile         bool
	engineName        string
	hapticName        string

	rootCmd = &cobra.Command{
		Use:   "mindwave [MOOD...]",
		Short: "Binaural beats for your terminal",
		Long: paragraph(
			fmt.Sprintf("\nPlay %s tuned to how you feel, with a live waveform.", keyword("binaural beats")),
		),
		Example: paragraph("mindwave\nmindwave --preset focus\nmindwave --base 220 --beat 10\nmindwave anxious before my exam"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file %s: %w", configFile, err)
		}
		log.Debug("Using configuration file", "path", configFile)
	}

	presetName = viper.GetString("preset")
	paramsFile = viper.GetString("params_file")
	watchFile = viper.GetBool("watch")

	if watchFile && paramsFile == "" {
		return errors.New("--watch needs a parameters file (--params)")
	}

	custom := cmd.Flags().Changed("base") || cmd.Flags().Changed("beat")
	sources := 0
	for _, set := range []bool{custom, cmd.Flags().Changed("preset"), cmd.Flags().Changed("params")} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("use only one of --preset, --params or --base/--beat")
	}
	if cmd.Flags().Changed("wave") && !custom {
		return errors.New("--wave only applies together with --base/--beat")
	}
	return nil
}

// resolveParams works out what to play on start, if anything.
func resolveParams(cmd *cobra.Command, args []string) (*brainwave.Parameters, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("base") || flags.Changed("beat"):
		p, err := customParams(baseFreq, beatFreq, waveName)
		if err != nil {
			return nil, err
		}
		return &p, nil

	case len(args) > 0:
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		p, err := brainwave.NewPresetAnalyzer(presetName).Analyze(ctx, strings.Join(args, " "))
		if err != nil {
			return nil, err
		}
		return &p, nil

	case paramsFile != "":
		p, err := brainwave.LoadParametersFile(utils.ExpandPath(paramsFile))
		if err != nil {
			return nil, err
		}
		return &p, nil

	case presetName != "":
		preset, err := brainwave.LookupPreset(presetName)
		if err != nil {
			return nil, err
		}
		p := preset.Params
		return &p, nil
	}
	return nil, nil
}

// customParams builds parameters from flags. Without a wave name the wave
// type is taken from the band the beat falls in.
func customParams(base, beat float64, wave string) (brainwave.Parameters, error) {
	p := brainwave.Parameters{
		Mood:          "custom",
		BaseFrequency: base,
		BinauralBeat:  beat,
	}
	if wave != "" {
		w, err := brainwave.ParseWaveType(wave)
		if err != nil {
			return p, err
		}
		p.WaveType = w
	} else {
		p.WaveType = waveForBeat(beat)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func waveForBeat(beat float64) brainwave.WaveType {
	best := brainwave.WaveAlpha
	bestDist := -1.0
	for _, w := range brainwave.WaveTypes() {
		lo, hi := w.BeatRange()
		if beat >= lo && beat <= hi {
			return w
		}
		dist := min(abs(beat-lo), abs(beat-hi))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = w, dist
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func execute(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interface needs a terminal; use `mindwave play` instead")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initial, err := resolveParams(cmd, args)
	if err != nil {
		return err
	}
	return runTUI(cfg, initial)
}

func loadConfig() (brainwave.Config, error) {
	if engineName != "" {
		viper.Set("audio.engine", engineName)
	}
	if hapticName != "" {
		viper.Set("haptics.driver", hapticName)
	}
	return brainwave.LoadConfigFromViper()
}

func runTUI(cfg brainwave.Config, initial *brainwave.Parameters) error {
	// Read environment to get debugging stuff
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	uiCfg.Visualizer = cfg.Visualizer
	uiCfg.PauseOnFocusLoss = cfg.Audio.PauseOnFocusLoss
	uiCfg.Initial = initial

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	p := ui.NewProgram(uiCfg, a.ctrl, brainwave.NewPresetAnalyzer(""))
	a.lifecycle.Register(playback.NewFuncComponent("tui", func(context.Context) error {
		p.Quit()
		return nil
	}))

	if err := a.startWatcher(); err != nil {
		return err
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringVarP(&presetName, "preset", "p", "", "play a preset ("+strings.Join(brainwave.PresetNames(), ", ")+")")
	flags.StringVarP(&paramsFile, "params", "f", "", "play a parameters file (YAML or JSON)")
	flags.Float64Var(&baseFreq, "base", 0, "carrier frequency in Hz")
	flags.Float64Var(&beatFreq, "beat", 0, "binaural beat in Hz")
	flags.StringVar(&waveName, "wave", "", "wave type label (delta, theta, alpha, beta, gamma)")
	flags.BoolVarP(&watchFile, "watch", "w", false, "replay the parameters file whenever it changes")
	flags.StringVar(&engineName, "engine", "", "audio engine (auto, production, mock)")
	flags.StringVar(&hapticName, "haptics", "", "haptic feedback (none, bell)")

	// Config bindings
	_ = viper.BindPFlag("preset", flags.Lookup("preset"))
	_ = viper.BindPFlag("params_file", flags.Lookup("params"))
	_ = viper.BindPFlag("watch", flags.Lookup("watch"))

	brainwave.SetDefaults()

	rootCmd.AddCommand(playCmd, presetsCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "mindwave")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "mindwave")}, dirs...)
	}

	if c := os.Getenv("MINDWAVE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("mindwave")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("mindwave")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}
	defaultConfigFile = filepath.Join(dirs[0], "mindwave.yml")
}
