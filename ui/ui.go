// Package ui provides the terminal interface for mindwave.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/mindwave/mindwave/brainwave"
	"github.com/mindwave/mindwave/internal/playback"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	statusMessageTimeout = time.Second * 3
	ellipsis             = "…"
	statusBarHeight      = 1
	eventBuffer          = 64
)

// NewProgram returns a new Tea program driving ctrl.
func NewProgram(cfg Config, ctrl *playback.Controller, analyzer brainwave.Analyzer) *tea.Program {
	log.Debug("Starting mindwave",
		"fps", cfg.Visualizer.FPS,
		"trail_alpha", cfg.Visualizer.TrailAlpha,
		"pause_on_focus_loss", cfg.PauseOnFocusLoss)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.PauseOnFocusLoss {
		opts = append(opts, tea.WithReportFocus())
	}
	return tea.NewProgram(newModel(cfg, ctrl, analyzer), opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	playRequestMsg          struct{ params brainwave.Parameters }
	analyzedMsg             struct{ params brainwave.Parameters }
	statusMessageTimeoutMsg struct{ id int }
)

// state is the top-level input state.
type state int

const (
	stateBrowse state = iota
	stateMoodInput
)

func (s state) String() string {
	return map[state]string{
		stateBrowse:    "browsing",
		stateMoodInput: "entering mood",
	}[s]
}

type statusMessage struct {
	text  string
	isErr bool
}

type model struct {
	cfg      Config
	ctrl     *playback.Controller
	analyzer brainwave.Analyzer
	events   chan tea.Msg

	state  state
	width  int
	height int

	vis   *visualizer
	panel *panel
	input textinput.Model

	presets     []brainwave.Preset
	presetIndex int

	showHelp bool

	status   *statusMessage
	statusID int
}

func newModel(cfg Config, ctrl *playback.Controller, analyzer brainwave.Analyzer) *model {
	ti := textinput.New()
	ti.Prompt = "mood › "
	ti.Placeholder = "how do you feel?"
	ti.CharLimit = 120

	m := &model{
		cfg:         cfg,
		ctrl:        ctrl,
		analyzer:    analyzer,
		events:      make(chan tea.Msg, eventBuffer),
		vis:         newVisualizer(cfg.Visualizer),
		panel:       newPanel(cfg.GlamourStyle),
		input:       ti,
		presets:     brainwave.Presets(),
		presetIndex: -1,
		showHelp:    cfg.ShowHelp,
	}

	// Plays may also come from the file watcher, so controller events are
	// fed back into the program.
	ctrl.Subscribe(func(msg tea.Msg) {
		select {
		case m.events <- msg:
		default:
			log.Debug("Dropping playback event", "msg", fmt.Sprintf("%T", msg))
		}
	})
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{brainwave.WaitForEvent(m.events), textinput.Blink}
	if m.cfg.Initial != nil {
		p := *m.cfg.Initial
		cmds = append(cmds, func() tea.Msg { return playRequestMsg{p} })
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case tea.FocusMsg:
		if m.cfg.PauseOnFocusLoss {
			if err := m.ctrl.SetSuspended(false); err != nil {
				cmds = append(cmds, m.showError(err))
			}
		}

	case tea.BlurMsg:
		if m.cfg.PauseOnFocusLoss {
			if err := m.ctrl.SetSuspended(true); err != nil {
				cmds = append(cmds, m.showError(err))
			}
		}

	case frameMsg:
		return m, m.vis.Update(msg)

	case playRequestMsg:
		cmds = append(cmds, m.play(msg.params))

	case analyzedMsg:
		cmds = append(cmds, m.play(msg.params))

	case brainwave.PlayingMsg, brainwave.StoppedMsg, brainwave.StateChangedMsg:
		cmds = append(cmds, m.syncTap(), brainwave.WaitForEvent(m.events))

	case errMsg:
		cmds = append(cmds, m.showError(msg.err))

	case statusMessageTimeoutMsg:
		if msg.id == m.statusID {
			m.status = nil
		}

	case tea.KeyMsg:
		if m.state == stateMoodInput {
			return m, m.updateMoodInput(msg)
		}
		return m, m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.vis.Stop()
		return tea.Quit

	case " ":
		if err := m.ctrl.Toggle(); err != nil {
			return tea.Batch(m.syncTap(), m.showError(err))
		}
		if !m.ctrl.IsPlaying() && m.ctrl.Last() == nil {
			return m.showStatus("nothing to play yet", false)
		}
		return m.syncTap()

	case "s":
		m.ctrl.Stop()
		return m.syncTap()

	case "left", "h":
		return m.cyclePreset(-1)

	case "right", "l":
		return m.cyclePreset(1)

	case "/":
		m.state = stateMoodInput
		m.input.SetValue("")
		return m.input.Focus()

	case "c":
		cur := m.ctrl.Current()
		if cur == nil {
			cur = m.ctrl.Last()
		}
		if cur == nil {
			return m.showStatus("nothing to copy", false)
		}
		doc, err := cur.YAML()
		if err == nil {
			err = clipboard.WriteAll(doc)
		}
		if err != nil {
			return m.showError(fmt.Errorf("unable to copy: %w", err))
		}
		return m.showStatus("copied parameters", false)

	case "?":
		m.showHelp = !m.showHelp
		m.layout()
	}
	return nil
}

func (m *model) updateMoodInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.state = stateBrowse
		m.input.Blur()
		return nil
	case "enter":
		m.state = stateBrowse
		m.input.Blur()
		mood := m.input.Value()
		if strings.TrimSpace(mood) == "" {
			return nil
		}
		// A new mood silences the current session while it is analyzed.
		m.ctrl.Stop()
		m.vis.Stop()
		return m.analyze(mood)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) analyze(mood string) tea.Cmd {
	a := m.analyzer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		p, err := a.Analyze(ctx, mood)
		if err != nil {
			return errMsg{err}
		}
		return analyzedMsg{p}
	}
}

func (m *model) cyclePreset(delta int) tea.Cmd {
	if len(m.presets) == 0 {
		return nil
	}
	n := len(m.presets)
	m.presetIndex = ((m.presetIndex+delta)%n + n) % n
	return m.play(m.presets[m.presetIndex].Params)
}

func (m *model) play(p brainwave.Parameters) tea.Cmd {
	if err := m.ctrl.Play(p); err != nil {
		return tea.Batch(m.syncTap(), m.showError(err))
	}
	return m.syncTap()
}

// syncTap points the visualizer at the controller's current tap.
func (m *model) syncTap() tea.Cmd {
	if cur := m.ctrl.Current(); cur != nil {
		m.vis.canvas.SetColor(cur.DisplayColor())
	}
	return m.vis.SetTap(m.ctrl.Tap())
}

func (m *model) showStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	id := m.statusID
	m.status = &statusMessage{text: text, isErr: isErr}
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id}
	})
}

func (m *model) showError(err error) tea.Cmd {
	log.Error("mindwave", "error", err)
	return m.showStatus(err.Error(), true)
}

func (m *model) helpLines() []string {
	return []string{
		"space    play / stop          /        describe a mood",
		"s        stop                 c        copy parameters",
		"←/h →/l  browse presets       ?        close help",
		"q        quit",
	}
}

func (m *model) layout() {
	rows := m.cfg.VisualizerRows
	if rows <= 0 {
		rows = m.height / 2
	}
	reserved := statusBarHeight
	if m.showHelp {
		reserved += len(m.helpLines())
	}
	rows = max(0, min(rows, m.height-reserved))
	m.vis.Resize(m.width, rows)
	m.panel.SetWidth(max(0, m.width-4))
}

func (m *model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	_, visRows := m.vis.canvas.Cells()
	if visRows > 0 {
		b.WriteString(m.vis.View())
		b.WriteString("\n")
	}

	body := m.panel.View(m.ctrl.Current(), m.ctrl.Started(), m.ctrl.Elapsed())
	if m.state == stateMoodInput {
		body = m.input.View() + "\n\n" + body
	}
	bodyRows := m.height - visRows - statusBarHeight
	if m.showHelp {
		bodyRows -= len(m.helpLines())
	}
	if bodyRows > 0 {
		b.WriteString(fitLines(indentText(body, 2), bodyRows))
		b.WriteString("\n")
	}

	m.statusBarView(&b)

	if m.showHelp {
		b.WriteString("\n" + m.helpView())
	}
	return b.String()
}

// fitLines pads or cuts s to exactly n lines.
func fitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *model) statusBarView(b *strings.Builder) {
	logo := logoView()
	helpNote := statusBarHelpStyle(" ? Help ")

	var note string
	style := statusBarNoteStyle
	switch {
	case m.status != nil:
		note = m.status.text
		style = statusBarMessageStyle
		if m.status.isErr {
			style = statusBarErrorStyle
		}
	case m.ctrl.IsPlaying():
		if cur := m.ctrl.Current(); cur != nil {
			note = "▶ " + cur.String()
		}
		style = statusBarPlayingStyle
	default:
		note = "■ idle"
	}

	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	note = style(note)

	padding := max(0,
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(helpNote),
	)
	fmt.Fprintf(b, "%s%s%s%s", logo, note, style(strings.Repeat(" ", padding)), helpNote)
}

func (m *model) helpView() string {
	s := indentText(strings.Join(m.helpLines(), "\n"), 2)

	// Fill up empty cells with spaces for background coloring
	lines := strings.Split(s, "\n")
	for i := range lines {
		n := max(m.width-runewidth.StringWidth(lines[i]), 0)
		lines[i] += strings.Repeat(" ", n)
	}
	return helpViewStyle(strings.Join(lines, "\n"))
}
