package brainwave

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages published by the playback controller. They are plain values so
// they can travel through a Bubble Tea program unchanged.

// PlayingMsg is sent after a session started.
type PlayingMsg struct {
	Params  Parameters
	Started time.Time
}

// StoppedMsg is sent after a session was torn down.
type StoppedMsg struct {
	Reason string // user, replaced, shutdown
}

// StateChangedMsg is sent on every state transition.
type StateChangedMsg struct {
	State     StateType
	PrevState StateType
	Timestamp time.Time
}

// ErrorMsg reports a failed play request.
type ErrorMsg struct {
	Err         error
	Recoverable bool
}

// Stop reasons.
const (
	ReasonUser     = "user"
	ReasonReplaced = "replaced"
	ReasonShutdown = "shutdown"
)

// WaitForEvent returns a command that delivers the next message from ch. It
// returns nil once ch is closed.
func WaitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
