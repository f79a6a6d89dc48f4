package models

import (
	"fmt"
	"math"
	"time"
)

type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

type Candles []*Candle

func (c Candles) Closes() []float64 {
	closes := make([]float64, len(c))
	for i, candle := range c {
		closes[i] = candle.Close
	}

	return closes
}

func (c Candles) Last() *Candle {
	if len(c) == 0 {
		return nil
	}

	return c[len(c)-1]
}

// Validate checks that every candle carries a usable close and that timestamps are
// strictly increasing. Gaps between bars are allowed.
func (c Candles) Validate() error {
	for i, candle := range c {
		if candle == nil {
			return fmt.Errorf("candle %d is nil: %w", i, ErrInvalidInput)
		}

		if math.IsNaN(candle.Close) || math.IsInf(candle.Close, 0) {
			return fmt.Errorf("candle %d (%s): missing close price: %w", i, candle.Timestamp.Format(time.RFC3339), ErrInvalidInput)
		}

		if i > 0 && !candle.Timestamp.After(c[i-1].Timestamp) {
			return fmt.Errorf("candle %d (%s): timestamp is not after %s: %w", i, candle.Timestamp.Format(time.RFC3339), c[i-1].Timestamp.Format(time.RFC3339), ErrInvalidInput)
		}
	}

	return nil
}

// FetchRange returns the candles with start <= timestamp < end.
func (c Candles) FetchRange(start, end time.Time) Candles {
	var out Candles
	for _, candle := range c {
		if (candle.Timestamp.Equal(start) || candle.Timestamp.After(start)) && candle.Timestamp.Before(end) {
			out = append(out, candle)
		}
	}

	return out
}
