package trader

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/data"
	"github.com/jiaming2012/mean-reversion-trader/src/eventpubsub"
	"github.com/jiaming2012/mean-reversion-trader/src/indicators"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/strategy"
)

// Runner polls a provider and feeds the closes of completed bars to the strategy.
// Every signal other than NONE is published on eventpubsub.SignalTransitionEvent.
type Runner struct {
	Provider     data.IHistoricalDataProvider
	Strategy     *strategy.MeanReversion
	Bus          *eventpubsub.Bus
	Symbol       string
	Interval     models.Interval
	PollInterval time.Duration

	now           func() time.Time
	lastEvaluated time.Time
}

func NewRunner(provider data.IHistoricalDataProvider, s *strategy.MeanReversion, bus *eventpubsub.Bus, symbol string, interval models.Interval, pollInterval time.Duration) (*Runner, error) {
	if symbol == "" {
		return nil, fmt.Errorf("NewRunner: symbol is required: %w", models.ErrInvalidConfiguration)
	}

	if interval <= 0 || pollInterval <= 0 {
		return nil, fmt.Errorf("NewRunner: interval and poll interval must be positive: %w", models.ErrInvalidConfiguration)
	}

	return &Runner{
		Provider:     provider,
		Strategy:     s,
		Bus:          bus,
		Symbol:       symbol,
		Interval:     interval,
		PollInterval: pollInterval,
		now:          time.Now,
	}, nil
}

// Step evaluates the newest completed bar once. It returns a NONE transition when
// there is not enough history or the newest completed bar was already evaluated.
func (r *Runner) Step(ctx context.Context) (models.Transition, error) {
	noop := models.NewNoopTransition(r.Strategy.State())

	lookback := r.Strategy.Config().LookbackPeriod
	now := r.now()
	start := now.Add(-time.Duration(lookback+1) * 3 * r.Interval.Duration())

	candles, err := r.Provider.GetHistoricalData(ctx, r.Symbol, start, now, r.Interval)
	if err != nil {
		return noop, fmt.Errorf("Step: failed to fetch candles: %w", err)
	}

	completed := completedBars(candles, r.Interval.Duration(), now)
	if err := completed.Validate(); err != nil {
		return noop, fmt.Errorf("Step: %w", err)
	}

	if len(completed) < lookback {
		log.Debugf("Step: %s: %d completed bars, waiting for %d", r.Symbol, len(completed), lookback)
		return noop, nil
	}

	last := completed.Last()
	if !last.Timestamp.After(r.lastEvaluated) {
		return noop, nil
	}

	window := completed[len(completed)-lookback:].Closes()

	tr, err := r.Strategy.GenerateSignal(window)
	if err != nil {
		return noop, fmt.Errorf("Step: %w", err)
	}

	r.lastEvaluated = last.Timestamp

	bands, err := indicators.CalculateBollingerBands(window, r.Strategy.Config().EntryThreshold)
	if err != nil {
		return tr, fmt.Errorf("Step: %w", err)
	}

	log.Debugf("%s close %.4f, entry bands %s, position %s", r.Symbol, last.Close, bands, tr.After)

	if tr.Signal != models.SignalActionNone {
		log.Infof("%s %s @ %.4f: %s", r.Symbol, last.Timestamp.Format(time.RFC3339), last.Close, tr)

		r.Bus.Publish(eventpubsub.SignalTransitionEvent, eventpubsub.SignalEvent{
			Symbol:     r.Symbol,
			Candle:     last,
			Transition: tr,
			EntryBands: bands,
		})
	}

	return tr, nil
}

// Run starts flat and calls Step every PollInterval until ctx is done. Step errors
// are logged, not returned.
func (r *Runner) Run(ctx context.Context) error {
	r.Strategy.Reset()
	r.lastEvaluated = time.Time{}

	ticker := time.NewTicker(r.PollInterval)
	defer ticker.Stop()

	log.Infof("trading %s every %s on %s bars", r.Symbol, r.PollInterval, r.Interval)

	for {
		if _, err := r.Step(ctx); err != nil {
			log.Errorf("trader: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Infof("trader: stopping %s: %v", r.Symbol, ctx.Err())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// completedBars drops a trailing bar whose period has not ended yet.
func completedBars(candles models.Candles, period time.Duration, now time.Time) models.Candles {
	last := candles.Last()
	if last != nil && last.Timestamp.Add(period).After(now) {
		return candles[:len(candles)-1]
	}

	return candles
}
