package models

import "fmt"

type SignalAction string

const (
	SignalActionNone  SignalAction = "none"
	SignalActionBuy   SignalAction = "buy"
	SignalActionSell  SignalAction = "sell"
	SignalActionClose SignalAction = "close"
)

func (s SignalAction) Validate() error {
	switch s {
	case SignalActionNone, SignalActionBuy, SignalActionSell, SignalActionClose:
		return nil
	default:
		return fmt.Errorf("%q: %w", string(s), ErrUnknownSignal)
	}
}

func (s SignalAction) String() string {
	return string(s)
}
