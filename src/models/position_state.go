package models

import "fmt"

type PositionState string

const (
	PositionStateFlat  PositionState = "flat"
	PositionStateLong  PositionState = "long"
	PositionStateShort PositionState = "short"
)

func (s PositionState) Validate() error {
	switch s {
	case PositionStateFlat, PositionStateLong, PositionStateShort:
		return nil
	default:
		return fmt.Errorf("%q: %w", string(s), ErrUnknownPositionState)
	}
}

// Sign is +1 for long, -1 for short and 0 when flat.
func (s PositionState) Sign() float64 {
	switch s {
	case PositionStateLong:
		return 1
	case PositionStateShort:
		return -1
	default:
		return 0
	}
}

func (s PositionState) IsOpen() bool {
	return s == PositionStateLong || s == PositionStateShort
}

func (s PositionState) String() string {
	return string(s)
}
