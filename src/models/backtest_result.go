package models

import "time"

// BacktestRow is one replayed bar. Profit is nil when nothing was realized on the bar,
// which is different from a realized profit of zero.
type BacktestRow struct {
	Timestamp time.Time     `json:"timestamp"`
	Close     float64       `json:"close"`
	Signal    SignalAction  `json:"signal"`
	Position  PositionState `json:"position"`
	Profit    *float64      `json:"profit"`
	Synthetic bool          `json:"synthetic"`
}

func (r *BacktestRow) AddProfit(profit float64) {
	if r.Profit == nil {
		r.Profit = &profit
		return
	}

	total := *r.Profit + profit
	r.Profit = &total
}

type ClosedTrade struct {
	Side       PositionState `json:"side"`
	EntryTime  time.Time     `json:"entry_time"`
	EntryPrice float64       `json:"entry_price"`
	ExitTime   time.Time     `json:"exit_time"`
	ExitPrice  float64       `json:"exit_price"`
	Volume     float64       `json:"volume"`
	Profit     float64       `json:"profit"`
	Synthetic  bool          `json:"synthetic"`
}

type BacktestResult struct {
	Symbol         string         `json:"symbol"`
	LookbackPeriod int            `json:"lookback_period"`
	Rows           []*BacktestRow `json:"rows"`
	Trades         []*ClosedTrade `json:"trades"`
	TotalProfit    float64        `json:"total_profit"`
}

func NewEmptyBacktestResult(symbol string, lookbackPeriod int) *BacktestResult {
	return &BacktestResult{
		Symbol:         symbol,
		LookbackPeriod: lookbackPeriod,
		Rows:           []*BacktestRow{},
		Trades:         []*ClosedTrade{},
	}
}
