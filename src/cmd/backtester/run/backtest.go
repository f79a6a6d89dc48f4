package run

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/backtester"
	"github.com/jiaming2012/mean-reversion-trader/src/data"
	"github.com/jiaming2012/mean-reversion-trader/src/export"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/strategy"
)

type BacktestArgs struct {
	Config        *models.BacktestConfigYAML
	Symbols       []string
	OutDir        string
	PolygonAPIKey string
	MaxWorkers    int
}

type BacktestOutput struct {
	Symbol     string
	Summary    *models.BacktestSummary
	RowsFile   string
	TradesFile string
}

// Backtest replays the configured range for every symbol and writes one rows file and
// one trades file per symbol. A failing symbol fails the whole command.
func Backtest(ctx context.Context, args BacktestArgs) ([]*BacktestOutput, error) {
	cfg := args.Config
	strategyCfg := strategy.NewConfigFromYAML(*cfg)
	if err := strategyCfg.Validate(); err != nil {
		return nil, err
	}

	symbols := args.Symbols
	if len(symbols) == 0 {
		symbols = []string{cfg.Symbol}
	}

	provider, err := data.NewProvider(cfg.Data, args.PolygonAPIKey)
	if err != nil {
		return nil, err
	}

	start, end, interval, err := parseDataRange(cfg.Data)
	if err != nil {
		return nil, err
	}

	jobs := make([]backtester.Job, 0, len(symbols))
	for _, symbol := range symbols {
		candles, err := provider.GetHistoricalData(ctx, symbol, start, end, interval)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", symbol, err)
		}

		log.Infof("fetched %d candles for %s", len(candles), symbol)

		jobs = append(jobs, backtester.Job{
			Symbol:  symbol,
			Candles: candles,
			Config:  strategyCfg,
		})
	}

	outDir := args.OutDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	var outputs []*BacktestOutput
	for _, res := range backtester.RunBatch(ctx, jobs, args.MaxWorkers) {
		if res.Err != nil {
			return nil, fmt.Errorf("backtest %s: %w", res.Symbol, res.Err)
		}

		summary, err := models.NewBacktestSummary(res.Result)
		if err != nil {
			return nil, fmt.Errorf("summary %s: %w", res.Symbol, err)
		}

		rowsFile, err := export.ResultsToCsv(outDir, fmt.Sprintf("%s_rows", res.Symbol), res.Result)
		if err != nil {
			return nil, err
		}

		tradesFile, err := export.TradesToCsv(outDir, fmt.Sprintf("%s_trades", res.Symbol), res.Result)
		if err != nil {
			return nil, err
		}

		outputs = append(outputs, &BacktestOutput{
			Symbol:     res.Symbol,
			Summary:    summary,
			RowsFile:   rowsFile,
			TradesFile: tradesFile,
		})
	}

	return outputs, nil
}

// parseDataRange leaves start and end zero when the config omits them, which the csv
// provider reads as an open range.
func parseDataRange(cfg models.DataConfigYAML) (start, end time.Time, interval models.Interval, err error) {
	if cfg.Start != "" {
		if start, err = data.ParseDate(cfg.Start); err != nil {
			return
		}
	}

	if cfg.End != "" {
		if end, err = data.ParseDate(cfg.End); err != nil {
			return
		}
	}

	if cfg.Source == models.DataSourcePolygon && (start.IsZero() || end.IsZero()) {
		err = fmt.Errorf("data.start and data.end are required for polygon: %w", models.ErrInvalidConfiguration)
		return
	}

	interval, err = models.ParseInterval(cfg.Interval)
	return
}
