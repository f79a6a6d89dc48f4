package models

import "fmt"

var (
	ErrInvalidConfiguration = fmt.Errorf("invalid configuration")
	ErrInvalidInput         = fmt.Errorf("invalid input")
	ErrStateDesync          = fmt.Errorf("strategy and engine state out of sync")
	ErrUnknownSignal        = fmt.Errorf("unknown signal")
	ErrUnknownPositionState = fmt.Errorf("unknown position state")
	ErrPositionNotFound     = fmt.Errorf("position not found")
	ErrInvalidOrderVolume   = fmt.Errorf("invalid order volume: must be greater than zero")
	ErrInvalidOrderSide     = fmt.Errorf("invalid order side")
	ErrUnsupportedInterval  = fmt.Errorf("unsupported interval")
	ErrUnknownDataSource    = fmt.Errorf("unknown data source")
	ErrNoPriceAvailable     = fmt.Errorf("no price available")
)

type ErrorDTO struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorDTO(errType string, message string) *ErrorDTO {
	return &ErrorDTO{
		Type: errType,
		Msg:  message,
	}
}
