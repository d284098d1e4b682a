package ad

import "errors"

var (
	// ErrInvalidTransition indicates a close requested from a state that cannot close.
	ErrInvalidTransition = errors.New("invalid ad state transition")

	// ErrUnknownReason indicates a close reason name that is not recognized
	ErrUnknownReason = errors.New("unknown close reason")

	// ErrUnknownInstance indicates an instance id that is not tracked
	ErrUnknownInstance = errors.New("unknown ad instance")

	// ErrReleased indicates a transition on an instance that was torn down
	ErrReleased = errors.New("ad instance released")
)

// TransitionError reports a close requested from a state that cannot close.
type TransitionError struct {
	From   State
	Reason CloseReason
}

// Error returns the source state and the rejected reason.
func (e *TransitionError) Error() string {
	return "cannot close ad in state " + e.From.String() + " with reason " + e.Reason.String()
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
