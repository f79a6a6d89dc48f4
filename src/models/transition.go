package models

import "fmt"

// Transition is the outcome of a single signal evaluation. Before and After are the
// position states on either side of the evaluation, so consumers never need to read
// the strategy's mutable state to find out which side was closed.
type Transition struct {
	Signal  SignalAction
	Before  PositionState
	After   PositionState
	Entered bool
}

func NewNoopTransition(state PositionState) Transition {
	return Transition{
		Signal: SignalActionNone,
		Before: state,
		After:  state,
	}
}

// IsReversal reports a direct long <-> short flip without an intervening close.
func (t Transition) IsReversal() bool {
	return t.Entered && t.Before.IsOpen() && t.Before != t.After
}

// ClosedSide returns the side that this transition took off the book, or flat when
// nothing was closed.
func (t Transition) ClosedSide() PositionState {
	if t.Signal == SignalActionClose || t.IsReversal() {
		return t.Before
	}

	return PositionStateFlat
}

func (t Transition) String() string {
	return fmt.Sprintf("%s (%s -> %s)", t.Signal, t.Before, t.After)
}
