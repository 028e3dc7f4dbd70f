package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/spf13/cobra"
)

var playDuration time.Duration

var playCmd = &cobra.Command{
	Use:   "play [MOOD...]",
	Short: "Play without the interface",
	Long: paragraph(fmt.Sprintf("\n%s a session in the foreground until interrupted or until --duration runs out.",
		keyword("Play"))),
	Example: paragraph("mindwave play --preset sleep --duration 20m\nmindwave play -f session.yml --watch"),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		params, err := resolveParams(cmd, args)
		if err != nil {
			return err
		}
		if params == nil {
			return errors.New("nothing to play: pass a mood, --preset, --params or --base/--beat")
		}
		return runHeadless(cfg, *params, playDuration)
	},
}

func runHeadless(cfg brainwave.Config, params brainwave.Parameters, d time.Duration) error {
	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if err := a.ctrl.Play(params); err != nil {
		return err
	}
	if err := a.startWatcher(); err != nil {
		return err
	}
	a.lifecycle.Start()

	fmt.Println(playingLine(params))
	started := time.Now()

	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-a.lifecycle.ShuttingDown():
	case <-timeout:
		log.Debug("Play duration reached", "duration", d)
	}

	if err := a.Close(); err != nil {
		return err
	}
	played := strings.TrimSpace(humanize.RelTime(started, time.Now(), "", ""))
	fmt.Println(paragraph(fmt.Sprintf("Played for %s.", played)))
	return nil
}

func playingLine(p brainwave.Parameters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s ", keyword("Playing"), p.Title())
	fmt.Fprintf(&b, "(%s beat over %s)", p.BeatLabel(), p.BaseLabel())
	return paragraph(b.String())
}

func init() {
	playCmd.Flags().DurationVarP(&playDuration, "duration", "d", 0, "stop after this long (default: until interrupted)")
}
