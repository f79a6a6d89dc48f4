package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var candleTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CandleDTO is the csv row layout of an exported price series.
type CandleDTO struct {
	Timestamp string   `csv:"time" json:"time"`
	Open      float64  `csv:"open" json:"open"`
	High      float64  `csv:"high" json:"high"`
	Low       float64  `csv:"low" json:"low"`
	Close     *float64 `csv:"close,omitempty" json:"close"`
	Volume    float64  `csv:"volume,omitempty" json:"volume"`
}

func (c *CandleDTO) ToModel() (*Candle, error) {
	t, err := parseCandleTime(c.Timestamp)
	if err != nil {
		return nil, err
	}

	// a missing close is kept as NaN so Candles.Validate reports it with its position
	closePrice := math.NaN()
	if c.Close != nil {
		closePrice = *c.Close
	}

	return &Candle{
		Timestamp: t,
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     closePrice,
		Volume:    c.Volume,
	}, nil
}

func parseCandleTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range candleTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("error parsing time %q: %w", value, ErrInvalidInput)
}

type CandleDTOs []*CandleDTO

func (dtos CandleDTOs) ToModel() (Candles, error) {
	candles := make(Candles, 0, len(dtos))
	for i, dto := range dtos {
		c, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		candles = append(candles, c)
	}

	return candles, nil
}
