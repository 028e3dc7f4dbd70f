package brainwave

import "testing"

func TestStateTypeString(t *testing.T) {
	tests := []struct {
		state    StateType
		expected string
	}{
		{StateIdle, "idle"},
		{StatePlaying, "playing"},
		{StateType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("StateType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStateMachineTransitions(t *testing.T) {
	sm := NewStateMachine()
	if sm.Current() != StateIdle {
		t.Fatalf("initial state = %v, want idle", sm.Current())
	}

	if sm.Transition(StateIdle) {
		t.Error("idle -> idle should be rejected")
	}
	if !sm.Transition(StatePlaying) {
		t.Fatal("idle -> playing should be allowed")
	}
	if sm.Transition(StatePlaying) {
		t.Error("playing -> playing should be rejected")
	}
	if !sm.Transition(StateIdle) {
		t.Fatal("playing -> idle should be allowed")
	}
}

func TestStateMachineCallbacks(t *testing.T) {
	sm := NewStateMachine()

	var calls []string
	sm.OnExit(StateIdle, func(to StateType) { calls = append(calls, "exit idle to "+to.String()) })
	sm.OnEnter(StatePlaying, func(from StateType) { calls = append(calls, "enter playing from "+from.String()) })

	sm.Transition(StatePlaying)

	want := []string{"exit idle to playing", "enter playing from idle"}
	if len(calls) != len(want) {
		t.Fatalf("callbacks = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("callback %d = %q, want %q", i, calls[i], want[i])
		}
	}
}
