package lifecycle

import "fmt"

// State is the lifecycle phase of a Controller.
type State string

const (
	StateNotStarted State = "not_started"
	StateStarting   State = "starting"
	StateReady      State = "ready"
	StateClosing    State = "closing"
	StateClosed     State = "closed"
)

func (s State) String() string {
	return string(s)
}

// busy reports whether an operation is in flight.
func (s State) busy() bool {
	return s == StateStarting || s == StateClosing
}

// TransitionError is returned when a hook is called in a state that does not
// allow it, for example a start while the previous server is still closing.
type TransitionError struct {
	Hook string
	From State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("lifecycle: %s not allowed while %s", e.Hook, e.From)
}
