package run

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/data"
	"github.com/jiaming2012/mean-reversion-trader/src/eventpubsub"
	"github.com/jiaming2012/mean-reversion-trader/src/execution"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/strategy"
	"github.com/jiaming2012/mean-reversion-trader/src/trader"
)

func NewBroker(brokerType models.BrokerType) (execution.IBroker, error) {
	switch brokerType {
	case models.BrokerTypePaper, "":
		return execution.NewPaperBroker(), nil
	case models.BrokerTypeTradier:
		tradesAccountID := os.Getenv("TRADIER_TRADES_ACCOUNT_ID")
		token := os.Getenv("TRADIER_TRADES_BEARER_TOKEN")
		ordersTemplate := os.Getenv("TRADIER_TRADES_URL_TEMPLATE")
		positionsTemplate := os.Getenv("TRADIER_POSITIONS_URL_TEMPLATE")

		if tradesAccountID == "" || token == "" || ordersTemplate == "" || positionsTemplate == "" {
			return nil, fmt.Errorf("tradier broker needs TRADIER_TRADES_ACCOUNT_ID, TRADIER_TRADES_BEARER_TOKEN, TRADIER_TRADES_URL_TEMPLATE and TRADIER_POSITIONS_URL_TEMPLATE: %w", models.ErrInvalidConfiguration)
		}

		return execution.NewTradierBroker(
			fmt.Sprintf(ordersTemplate, tradesAccountID),
			fmt.Sprintf(positionsTemplate, tradesAccountID),
			token,
		), nil
	default:
		return nil, fmt.Errorf("unknown broker %q: %w", brokerType, models.ErrInvalidConfiguration)
	}
}

// SubscribeExecutor sends every published transition to the broker. Orders are placed
// off the publishing goroutine, one transition at a time. Paper brokers are marked at the
// close of the signal bar before the order is placed.
func SubscribeExecutor(bus *eventpubsub.Bus, broker execution.IBroker, lotSize float64) error {
	executor := execution.NewSignalExecutor(broker, lotSize)

	return bus.SubscribeAsync(eventpubsub.SignalTransitionEvent, func(ev eventpubsub.SignalEvent) {
		if paper, ok := broker.(*execution.PaperBroker); ok && ev.Candle != nil {
			paper.UpdatePrice(ev.Symbol, ev.Candle.Close)
		}

		if err := executor.Execute(context.Background(), ev.Symbol, ev.Transition); err != nil {
			log.Errorf("failed to execute %s for %s: %v", ev.Transition, ev.Symbol, err)
			bus.Publish(eventpubsub.OrderFailedEvent, err)
		}
	})
}

func Trade(ctx context.Context, cfg *models.BacktestConfigYAML, polygonAPIKey string) error {
	s, err := strategy.NewMeanReversion(strategy.NewConfigFromYAML(*cfg))
	if err != nil {
		return err
	}

	provider, err := data.NewProvider(cfg.Data, polygonAPIKey)
	if err != nil {
		return err
	}

	interval, err := models.ParseInterval(cfg.Data.Interval)
	if err != nil {
		return err
	}

	pollInterval, err := time.ParseDuration(cfg.Live.PollInterval)
	if err != nil {
		return fmt.Errorf("live.poll_interval: %v: %w", err, models.ErrInvalidConfiguration)
	}

	broker, err := NewBroker(cfg.Live.Broker)
	if err != nil {
		return err
	}

	bus := eventpubsub.NewBus()
	if err := SubscribeExecutor(bus, broker, cfg.LotSize); err != nil {
		return fmt.Errorf("failed to subscribe executor: %w", err)
	}

	runner, err := trader.NewRunner(provider, s, bus, cfg.Symbol, interval, pollInterval)
	if err != nil {
		return err
	}

	err = runner.Run(ctx)
	bus.WaitAsync()

	if err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
