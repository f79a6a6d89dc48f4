package models

import (
	"fmt"
	"time"

	"github.com/jiaming2012/mean-reversion-trader/src/data"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/strategy"
)

// BacktestRequest is the body of POST /backtests. When Candles is set the provider is
// not called and From, To and Interval are ignored.
type BacktestRequest struct {
	Symbol   string            `json:"symbol"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Interval string            `json:"interval"`
	Strategy strategy.Config   `json:"strategy"`
	Candles  models.CandleDTOs `json:"candles,omitempty"`
}

// BacktestQuery is decoded from the query string of GET /backtests/{symbol}.
type BacktestQuery struct {
	From           string  `schema:"from"`
	To             string  `schema:"to"`
	Interval       string  `schema:"interval"`
	LookbackPeriod int     `schema:"lookback_period"`
	EntryThreshold float64 `schema:"entry_threshold"`
	ExitThreshold  float64 `schema:"exit_threshold"`
	LotSize        float64 `schema:"lot_size"`
}

func (q BacktestQuery) ToRequest(symbol string) *BacktestRequest {
	return &BacktestRequest{
		Symbol:   symbol,
		From:     q.From,
		To:       q.To,
		Interval: q.Interval,
		Strategy: strategy.Config{
			LookbackPeriod: q.LookbackPeriod,
			EntryThreshold: q.EntryThreshold,
			ExitThreshold:  q.ExitThreshold,
			LotSize:        q.LotSize,
		},
	}
}

type HistoricalRange struct {
	From     time.Time
	To       time.Time
	Interval models.Interval
}

func (r *BacktestRequest) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required: %w", models.ErrInvalidInput)
	}

	return r.Strategy.Validate()
}

func (r *BacktestRequest) Range() (*HistoricalRange, error) {
	from, err := data.ParseDate(r.From)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	to, err := data.ParseDate(r.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	if !to.After(from) {
		return nil, fmt.Errorf("to must be after from: %w", models.ErrInvalidInput)
	}

	interval := r.Interval
	if interval == "" {
		interval = "1d"
	}

	i, err := models.ParseInterval(interval)
	if err != nil {
		return nil, fmt.Errorf("interval: %v: %w", err, models.ErrInvalidInput)
	}

	return &HistoricalRange{
		From:     from,
		To:       to,
		Interval: i,
	}, nil
}
