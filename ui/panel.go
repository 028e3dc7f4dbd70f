package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/muesli/reflow/wordwrap"
	te "github.com/muesli/termenv"
)

const labelWidth = 9

// panel shows what is playing.
type panel struct {
	width int
	style string

	// Rendering markdown is slow; the last result is kept.
	descSource string
	descWidth  int
	descOut    string
}

func newPanel(glamourStyle string) *panel {
	if glamourStyle == "" || glamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			glamourStyle = styles.DarkStyle
		} else {
			glamourStyle = styles.LightStyle
		}
	}
	return &panel{style: glamourStyle}
}

func (p *panel) SetWidth(w int) {
	p.width = w
}

func field(label, value string) string {
	return labelStyle(runewidth.FillRight(label, labelWidth)) + value
}

// View renders the parameters. started is zero when nothing plays.
func (p *panel) View(params *brainwave.Parameters, started time.Time, elapsed time.Duration) string {
	if params == nil {
		return wordwrap.String(faintStyle(
			"Nothing playing. Press / to describe how you feel, or ←/→ to browse presets."),
			max(p.width, 20))
	}

	var b strings.Builder
	b.WriteString(titleStyle(params.DisplayColor()).Render(params.Title()))
	b.WriteString("\n\n")

	rows := []string{
		field("Wave", params.WaveType.String()),
		field("Beat", params.BeatLabel()),
		field("Carrier", params.BaseLabel()),
		field("Ears", fmt.Sprintf("L %s  R %s",
			hz(params.LeftFrequency()), hz(params.RightFrequency()))),
	}
	if !started.IsZero() {
		rows = append(rows,
			field("Started", humanize.Time(started)),
			field("Played", elapsed.Truncate(time.Second).String()))
	}
	b.WriteString(strings.Join(rows, "\n"))

	for _, w := range params.Warnings() {
		b.WriteString("\n" + faintStyle("! "+w))
	}

	if desc := p.description(params.Description); desc != "" {
		b.WriteString("\n" + desc)
	}
	return b.String()
}

func hz(f float64) string {
	return humanize.FtoaWithDigits(f, 2) + " Hz"
}

func (p *panel) description(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width := max(p.width, 20)
	if md == p.descSource && width == p.descWidth {
		return p.descOut
	}

	out, err := p.render(md, width)
	if err != nil {
		log.Debug("Unable to render description", "error", err)
		out = wordwrap.String(md, width)
	}
	p.descSource, p.descWidth, p.descOut = md, width, strings.TrimRight(out, "\n")
	return p.descOut
}

func (p *panel) render(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}
