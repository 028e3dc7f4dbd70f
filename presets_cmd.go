package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Short:   "List the built-in presets",
	Args:    cobra.NoArgs,
	Example: paragraph("mindwave presets\nmindwave --preset focus"),
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), presetTable(brainwave.Presets()))
	},
}

func presetTable(presets []brainwave.Preset) string {
	nameWidth := 0
	for _, p := range presets {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}

	var b strings.Builder
	for _, p := range presets {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Params.DisplayColor())).Render("●")
		name := lipgloss.NewStyle().Width(nameWidth).Render(p.Name)
		fmt.Fprintf(&b, "  %s %s  %-6s %5s Hz beat  %5s Hz base  %s\n",
			swatch,
			keyword(name),
			p.Params.WaveType,
			humanize.FtoaWithDigits(p.Params.BinauralBeat, 1),
			humanize.FtoaWithDigits(p.Params.BaseFrequency, 1),
			strings.Join(p.Keywords[:min(3, len(p.Keywords))], ", "),
		)
	}
	return b.String()
}
