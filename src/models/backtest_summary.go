package models

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type BacktestSummary struct {
	Symbol        string  `json:"symbol"`
	Bars          int     `json:"bars"`
	Trades        int     `json:"trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	AverageProfit float64 `json:"average_profit"`
	BestTrade     float64 `json:"best_trade"`
	WorstTrade    float64 `json:"worst_trade"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	TotalProfit   float64 `json:"total_profit"`
}

func NewBacktestSummary(result *BacktestResult) (*BacktestSummary, error) {
	summary := &BacktestSummary{
		Symbol:      result.Symbol,
		Bars:        len(result.Rows),
		Trades:      len(result.Trades),
		TotalProfit: result.TotalProfit,
	}

	if len(result.Trades) == 0 {
		return summary, nil
	}

	profits := make([]float64, 0, len(result.Trades))
	for _, tr := range result.Trades {
		profits = append(profits, tr.Profit)
		if tr.Profit > 0 {
			summary.Wins++
		} else if tr.Profit < 0 {
			summary.Losses++
		}
	}

	var err error
	if summary.AverageProfit, err = stats.Mean(profits); err != nil {
		return nil, fmt.Errorf("failed to calculate average profit: %w", err)
	}

	if summary.BestTrade, err = stats.Max(profits); err != nil {
		return nil, fmt.Errorf("failed to calculate best trade: %w", err)
	}

	if summary.WorstTrade, err = stats.Min(profits); err != nil {
		return nil, fmt.Errorf("failed to calculate worst trade: %w", err)
	}

	summary.WinRate = float64(summary.Wins) / float64(summary.Trades)
	summary.MaxDrawdown = maxDrawdown(profits)

	return summary, nil
}

// maxDrawdown is the largest peak-to-trough fall of the cumulative realized profit.
func maxDrawdown(profits []float64) float64 {
	var equity, peak, drawdown float64
	for _, p := range profits {
		equity += p
		if equity > peak {
			peak = equity
		}

		if peak-equity > drawdown {
			drawdown = peak - equity
		}
	}

	return drawdown
}

func (s BacktestSummary) String() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	display.WriteString(fmt.Sprintf("Backtest summary: %s\n", s.Symbol))

	table.Append([]string{"Bars", p.Sprintf("%d", s.Bars)})
	table.Append([]string{"Trades", p.Sprintf("%d", s.Trades)})
	table.Append([]string{"Wins / Losses", fmt.Sprintf("%d / %d", s.Wins, s.Losses)})
	table.Append([]string{"Win rate", fmt.Sprintf("%.0f%%", s.WinRate*100)})
	table.Append([]string{"Average profit", p.Sprintf("%.2f", s.AverageProfit)})
	table.Append([]string{"Best trade", p.Sprintf("%.2f", s.BestTrade)})
	table.Append([]string{"Worst trade", p.Sprintf("%.2f", s.WorstTrade)})
	table.Append([]string{"Max drawdown", p.Sprintf("%.2f", s.MaxDrawdown)})
	table.Append([]string{"Total profit", p.Sprintf("%.2f", s.TotalProfit)})

	table.Render()
	return display.String()
}
