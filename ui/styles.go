package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
)

var (
	violet     = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	fuchsia    = lipgloss.Color("#EE6FF8")
	cream      = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	gray       = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray    = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	red        = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	mintGreen  = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen  = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	statusBg   = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	statusNote = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}

	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(violet).
			Padding(0, 1).
			Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusNote).
				Background(statusBg).
				Render

	statusBarPlayingStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(fuchsia).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusNote).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(red).
				Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(gray).
			Background(statusBg).
			Render

	labelStyle = lipgloss.NewStyle().Foreground(gray).Render
	faintStyle = lipgloss.NewStyle().Foreground(midGray).Render
)

func logoView() string {
	return logoStyle("mindwave")
}

// titleStyle renders a session title in its display color.
func titleStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(hex))
}

func indentText(s string, n uint) string {
	return indent.String(s, n)
}
