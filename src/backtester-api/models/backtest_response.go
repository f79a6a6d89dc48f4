package models

import (
	"github.com/google/uuid"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

type BacktestResponse struct {
	RunID       uuid.UUID               `json:"run_id"`
	Symbol      string                  `json:"symbol"`
	Summary     *models.BacktestSummary `json:"summary"`
	Rows        []*models.BacktestRow   `json:"rows"`
	Trades      []*models.ClosedTrade   `json:"trades"`
	TotalProfit float64                 `json:"total_profit"`
}

func NewBacktestResponse(result *models.BacktestResult, summary *models.BacktestSummary) *BacktestResponse {
	return &BacktestResponse{
		RunID:       uuid.New(),
		Symbol:      result.Symbol,
		Summary:     summary,
		Rows:        result.Rows,
		Trades:      result.Trades,
		TotalProfit: result.TotalProfit,
	}
}
