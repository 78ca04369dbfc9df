package reviews

import "fmt"

// State is a step of the intake lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateFileSelected     State = "file_selected"
	StateExtracting       State = "extracting"
	StatePrompting        State = "prompting"
	StateAwaitingAnalysis State = "awaiting_analysis"
	StateRendered         State = "rendered"
	StateError            State = "error"
)

var transitions = map[State][]State{
	StateIdle:             {StateFileSelected},
	StateFileSelected:     {StateExtracting},
	StateExtracting:       {StatePrompting, StateError},
	StatePrompting:        {StateAwaitingAnalysis},
	StateAwaitingAnalysis: {StateRendered, StateError},
}

// CanTransition reports whether next may follow s. Rendered and error are terminal.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// TransitionError describes a transition the lifecycle does not allow.
type TransitionError struct {
	From State
	To   State
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("invalid review transition %s->%s", e.From, e.To)
}
