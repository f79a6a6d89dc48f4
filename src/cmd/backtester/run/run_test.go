package run

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/mean-reversion-trader/src/eventpubsub"
	"github.com/jiaming2012/mean-reversion-trader/src/execution"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

const roundTripCsv = `time,open,high,low,close
2024-05-01,110,110,110,110
2024-05-02,108,108,108,108
2024-05-03,101,101,101,101
2024-05-06,100,100,100,100
2024-05-07,101,101,101,101
2024-05-08,105,105,105,105
`

func testConfig(t *testing.T) *models.BacktestConfigYAML {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "spy.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(roundTripCsv), 0644))

	return &models.BacktestConfigYAML{
		Symbol:         "SPY",
		LookbackPeriod: 3,
		EntryThreshold: 1,
		ExitThreshold:  0.5,
		LotSize:        2,
		Data: models.DataConfigYAML{
			Source:   models.DataSourceCSV,
			CsvPath:  csvPath,
			Interval: "1d",
		},
		Output: models.OutputConfigYAML{Dir: filepath.Join(dir, "results")},
		Live:   models.LiveConfigYAML{PollInterval: "1s", Broker: models.BrokerTypePaper},
	}
}

func TestBacktest(t *testing.T) {
	ctx := context.Background()

	t.Run("single symbol", func(t *testing.T) {
		cfg := testConfig(t)

		outputs, err := Backtest(ctx, BacktestArgs{Config: cfg})
		require.NoError(t, err)
		require.Len(t, outputs, 1)

		out := outputs[0]
		assert.Equal(t, "SPY", out.Symbol)
		assert.InDelta(t, 10.0, out.Summary.TotalProfit, 1e-9)
		assert.Equal(t, 3, out.Summary.Bars)
		assert.FileExists(t, out.RowsFile)
		assert.FileExists(t, out.TradesFile)
		assert.Equal(t, cfg.Output.Dir, filepath.Dir(out.RowsFile))
	})

	t.Run("several symbols keep their order", func(t *testing.T) {
		cfg := testConfig(t)

		outputs, err := Backtest(ctx, BacktestArgs{Config: cfg, Symbols: []string{"SPY", "QQQ"}, OutDir: t.TempDir(), MaxWorkers: 2})
		require.NoError(t, err)
		require.Len(t, outputs, 2)
		assert.Equal(t, "SPY", outputs[0].Symbol)
		assert.Equal(t, "QQQ", outputs[1].Symbol)
	})

	t.Run("date range", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Data.Start = "2024-05-02"

		outputs, err := Backtest(ctx, BacktestArgs{Config: cfg})
		require.NoError(t, err)
		assert.Equal(t, 2, outputs[0].Summary.Bars)
	})

	t.Run("invalid strategy", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.LookbackPeriod = 0

		_, err := Backtest(ctx, BacktestArgs{Config: cfg})
		assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
	})

	t.Run("polygon needs a range", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Data.Source = models.DataSourcePolygon

		_, err := Backtest(ctx, BacktestArgs{Config: cfg, PolygonAPIKey: "key"})
		assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
	})
}

func TestNewBroker(t *testing.T) {
	b, err := NewBroker(models.BrokerTypePaper)
	require.NoError(t, err)
	assert.IsType(t, &execution.PaperBroker{}, b)

	t.Setenv("TRADIER_TRADES_ACCOUNT_ID", "")
	_, err = NewBroker(models.BrokerTypeTradier)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	t.Setenv("TRADIER_TRADES_ACCOUNT_ID", "VA123")
	t.Setenv("TRADIER_TRADES_BEARER_TOKEN", "token")
	t.Setenv("TRADIER_TRADES_URL_TEMPLATE", "https://sandbox.tradier.com/v1/accounts/%s/orders")
	t.Setenv("TRADIER_POSITIONS_URL_TEMPLATE", "https://sandbox.tradier.com/v1/accounts/%s/positions")
	b, err = NewBroker(models.BrokerTypeTradier)
	require.NoError(t, err)
	assert.IsType(t, &execution.TradierBroker{}, b)

	_, err = NewBroker("mt5")
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestSubscribeExecutor(t *testing.T) {
	bus := eventpubsub.NewBus()
	broker := execution.NewPaperBroker()
	require.NoError(t, SubscribeExecutor(bus, broker, 1))

	var failures []error
	require.NoError(t, bus.Subscribe(eventpubsub.OrderFailedEvent, func(err error) {
		failures = append(failures, err)
	}))

	ts := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

	bus.Publish(eventpubsub.SignalTransitionEvent, eventpubsub.SignalEvent{
		Symbol:     "SPY",
		Candle:     &models.Candle{Timestamp: ts, Close: 100},
		Transition: models.Transition{Signal: models.SignalActionBuy, Before: models.PositionStateFlat, After: models.PositionStateLong, Entered: true},
	})

	bus.Publish(eventpubsub.SignalTransitionEvent, eventpubsub.SignalEvent{
		Symbol:     "SPY",
		Candle:     &models.Candle{Timestamp: ts.Add(time.Minute), Close: 103},
		Transition: models.Transition{Signal: models.SignalActionClose, Before: models.PositionStateLong, After: models.PositionStateFlat},
	})

	bus.WaitAsync()

	assert.Empty(t, failures)
	assert.Equal(t, 3.0, broker.RealizedProfit())

	bus.Publish(eventpubsub.SignalTransitionEvent, eventpubsub.SignalEvent{
		Symbol:     "SPY",
		Candle:     &models.Candle{Timestamp: ts.Add(2 * time.Minute), Close: 103},
		Transition: models.Transition{Signal: models.SignalActionClose, Before: models.PositionStateShort, After: models.PositionStateFlat},
	})

	bus.WaitAsync()

	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], models.ErrPositionNotFound)
}

func TestNewRouter(t *testing.T) {
	srv := httptest.NewServer(NewRouter(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTrade(t *testing.T) {
	cfg := testConfig(t)
	cfg.Live.PollInterval = "5ms"

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, Trade(ctx, cfg, ""))

	cfg.Live.PollInterval = "soon"
	assert.ErrorIs(t, Trade(context.Background(), cfg, ""), models.ErrInvalidConfiguration)
}
