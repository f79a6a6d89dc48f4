package backtester

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/strategy"
)

// Engine replays a price series through a fresh MeanReversion strategy per run.
type Engine struct {
	cfg strategy.Config
}

func NewEngine(cfg strategy.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() strategy.Config {
	return e.cfg
}

type openTrade struct {
	side       models.PositionState
	entryPrice float64
	entryTime  time.Time
}

type ledger struct {
	lotSize float64
	open    *openTrade
	trades  []*models.ClosedTrade
	total   float64
}

func (l *ledger) enter(side models.PositionState, c *models.Candle) {
	l.open = &openTrade{
		side:       side,
		entryPrice: c.Close,
		entryTime:  c.Timestamp,
	}
}

// exit realizes the open trade at the candle close. The sign comes from the side that
// was open, never from the state after the close.
func (l *ledger) exit(c *models.Candle, synthetic bool) float64 {
	profit := l.open.side.Sign() * (c.Close - l.open.entryPrice) * l.lotSize

	l.trades = append(l.trades, &models.ClosedTrade{
		Side:       l.open.side,
		EntryTime:  l.open.entryTime,
		EntryPrice: l.open.entryPrice,
		ExitTime:   c.Timestamp,
		ExitPrice:  c.Close,
		Volume:     l.lotSize,
		Profit:     profit,
		Synthetic:  synthetic,
	})

	l.total += profit
	l.open = nil

	return profit
}

// Run validates the series and replays it bar by bar. Each decision at index i uses the
// closes of the LookbackPeriod bars before i and fills at the close of bar i. A series
// not longer than the lookback period yields an empty result.
func (e *Engine) Run(symbol string, candles models.Candles) (*models.BacktestResult, error) {
	if err := candles.Validate(); err != nil {
		return nil, fmt.Errorf("Run: %s: %w", symbol, err)
	}

	lookback := e.cfg.LookbackPeriod
	result := models.NewEmptyBacktestResult(symbol, lookback)

	if len(candles) <= lookback {
		log.Debugf("Run: %s: %d candles is not more than lookback period %d, nothing to replay", symbol, len(candles), lookback)
		return result, nil
	}

	strat, err := strategy.NewMeanReversion(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("Run: failed to create strategy: %w", err)
	}

	closes := candles.Closes()
	book := &ledger{lotSize: e.cfg.LotSize}
	rows := make([]*models.BacktestRow, 0, len(candles)-lookback)

	for i := lookback; i < len(candles); i++ {
		tr, err := strat.GenerateSignal(closes[i-lookback : i])
		if err != nil {
			return nil, fmt.Errorf("Run: %s: bar %d: %w", symbol, i, err)
		}

		c := candles[i]
		row := &models.BacktestRow{
			Timestamp: c.Timestamp,
			Close:     c.Close,
			Signal:    tr.Signal,
			Position:  tr.After,
		}

		if err := apply(book, tr, c, row); err != nil {
			return nil, fmt.Errorf("Run: %s: bar %d (%s): %w", symbol, i, c.Timestamp.Format(time.RFC3339), err)
		}

		if tr.Signal != models.SignalActionNone {
			log.Debugf("%s %s: %v @ %.4f", symbol, c.Timestamp.Format(time.RFC3339), tr, c.Close)
		}

		rows = append(rows, row)
	}

	if book.open != nil {
		last := rows[len(rows)-1]
		profit := book.exit(candles.Last(), true)
		last.AddProfit(profit)
		last.Synthetic = true

		log.Debugf("%s: closed open position at end of series: profit %.4f", symbol, profit)
	}

	result.Rows = rows
	result.Trades = book.trades
	result.TotalProfit = book.total

	log.Infof("backtest %s: %d bars, %d trades, total profit %.4f", symbol, len(rows), len(book.trades), book.total)

	return result, nil
}

func apply(book *ledger, tr models.Transition, c *models.Candle, row *models.BacktestRow) error {
	switch tr.Signal {
	case models.SignalActionNone:
		return nil
	case models.SignalActionClose:
		if book.open == nil {
			return fmt.Errorf("close signal with no recorded entry price: %w", models.ErrStateDesync)
		}

		if book.open.side != tr.Before {
			return fmt.Errorf("close signal for %s but the open trade is %s: %w", tr.Before, book.open.side, models.ErrStateDesync)
		}

		row.AddProfit(book.exit(c, false))
		return nil
	case models.SignalActionBuy, models.SignalActionSell:
		if !tr.Entered {
			// still on the same side: the original entry price stands
			return nil
		}

		if tr.IsReversal() {
			if book.open == nil || book.open.side != tr.Before {
				return fmt.Errorf("reversal from %s without a matching open trade: %w", tr.Before, models.ErrStateDesync)
			}

			row.AddProfit(book.exit(c, false))
		} else if book.open != nil {
			return fmt.Errorf("entry from %s while a %s trade is open: %w", tr.Before, book.open.side, models.ErrStateDesync)
		}

		book.enter(tr.After, c)
		return nil
	default:
		return fmt.Errorf("%v: %w", tr.Signal, models.ErrUnknownSignal)
	}
}
