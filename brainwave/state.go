package brainwave

// StateType is the public playback state. There are no transitional states.
type StateType int

const (
	// StateIdle means no session exists.
	StateIdle StateType = iota
	// StatePlaying means exactly one session is running.
	StatePlaying
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// StateMachine guards playback state transitions.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func(from StateType)
	onExit      map[StateType]func(to StateType)
}

// NewStateMachine creates a state machine in StateIdle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:    {StatePlaying},
			StatePlaying: {StateIdle},
		},
		onEnter: make(map[StateType]func(StateType)),
		onExit:  make(map[StateType]func(StateType)),
	}
}

// Transition attempts to move to the given state. It returns false if the
// transition isn't allowed.
func (sm *StateMachine) Transition(to StateType) bool {
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	from := sm.current
	if exitFn := sm.onExit[from]; exitFn != nil {
		exitFn(to)
	}

	sm.current = to

	if enterFn := sm.onEnter[to]; enterFn != nil {
		enterFn(from)
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func(from StateType)) {
	sm.onEnter[state] = fn
}

// OnExit registers a callback for leaving a state.
func (sm *StateMachine) OnExit(state StateType, fn func(to StateType)) {
	sm.onExit[state] = fn
}
