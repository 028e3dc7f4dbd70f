package brainwave

import (
	"errors"
	"fmt"
	"strings"
)

// Errors surfaced by playback.
var (
	// ErrConstruction means the audio graph could not be built, usually
	// because no audio subsystem is available. Playback is disabled but the
	// process keeps running.
	ErrConstruction = errors.New("audio graph construction failed")
	// ErrInvalidParameters means a parameter set was rejected before any
	// audio node was created.
	ErrInvalidParameters = errors.New("invalid brainwave parameters")
	// ErrHapticUnsupported means the host has no way to vibrate. It is
	// logged and otherwise ignored.
	ErrHapticUnsupported = errors.New("haptic feedback not supported")

	ErrUnknownWaveType = errors.New("unknown wave type")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNoMatch         = errors.New("no preset matches mood")
)

// ErrorSeverity represents the severity of an error.
type ErrorSeverity int

const (
	// SeverityInfo is for informational messages.
	SeverityInfo ErrorSeverity = iota
	// SeverityWarning is for problems that don't stop playback.
	SeverityWarning
	// SeverityError is for errors that prevent playback.
	SeverityError
)

// String returns the lower case severity name.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Error carries the component and action that produced an error.
type Error struct {
	Err       error         // The underlying error
	Component string        // graph, playback, haptic, engine, ...
	Action    string        // What was being done
	Severity  ErrorSeverity
	Context   map[string]interface{}
}

// NewError wraps err with component and action details.
func NewError(err error, component, action string) *Error {
	return &Error{
		Err:       err,
		Component: component,
		Action:    action,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Component != "" {
		b.WriteString(e.Component)
		if e.Action != "" {
			b.WriteString(" ")
			b.WriteString(e.Action)
		}
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithSeverity sets the error severity.
func (e *Error) WithSeverity(severity ErrorSeverity) *Error {
	e.Severity = severity
	return e
}

// WithContext adds a key/value pair to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ConstructionError wraps cause so that it matches ErrConstruction.
func ConstructionError(action string, cause error) *Error {
	var err error = ErrConstruction
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrConstruction, cause)
	}
	return NewError(err, "graph", action)
}

// IsRecoverable reports whether retrying play with other parameters may
// succeed. Construction failures mean the audio subsystem is missing.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	return !errors.Is(err, ErrConstruction)
}
