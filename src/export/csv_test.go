package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

func testResult() *models.BacktestResult {
	t0 := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	zero := 0.0
	six := 6.0

	return &models.BacktestResult{
		Symbol:         "SPY",
		LookbackPeriod: 2,
		Rows: []*models.BacktestRow{
			{Timestamp: t0, Close: 10, Signal: models.SignalActionSell, Position: models.PositionStateShort},
			{Timestamp: t0.Add(time.Minute), Close: 10, Signal: models.SignalActionClose, Position: models.PositionStateFlat, Profit: &zero},
			{Timestamp: t0.Add(2 * time.Minute), Close: 4, Signal: models.SignalActionBuy, Position: models.PositionStateLong},
			{Timestamp: t0.Add(3 * time.Minute), Close: 10, Signal: models.SignalActionNone, Position: models.PositionStateLong, Profit: &six, Synthetic: true},
		},
		Trades: []*models.ClosedTrade{
			{Side: models.PositionStateShort, EntryTime: t0, EntryPrice: 10, ExitTime: t0.Add(time.Minute), ExitPrice: 10, Volume: 1},
			{Side: models.PositionStateLong, EntryTime: t0.Add(2 * time.Minute), EntryPrice: 4, ExitTime: t0.Add(3 * time.Minute), ExitPrice: 10, Volume: 1, Profit: 6, Synthetic: true},
		},
		TotalProfit: 6,
	}
}

func readLines(t *testing.T, path string) []string {
	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(bytes)), "\n")
}

func TestResultsToCsv(t *testing.T) {
	now = func() time.Time { return time.Date(2024, 5, 4, 18, 25, 0, 0, time.UTC) }
	defer func() { now = time.Now }()

	dir := filepath.Join(t.TempDir(), "out")

	path, err := ResultsToCsv(dir, "SPY_rows", testResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "SPY_rows_2024-05-04_18-25-00.csv"), path)

	lines := readLines(t, path)
	require.Len(t, lines, 5)
	assert.Equal(t, "time,close,signal,position,profit,synthetic", lines[0])
	assert.Equal(t, "2024-05-03T09:00:00Z,10,sell,short,,false", lines[1])
	assert.Equal(t, "2024-05-03T09:01:00Z,10,close,flat,0,false", lines[2])
	assert.Equal(t, "2024-05-03T09:03:00Z,10,none,long,6,true", lines[4])
}

func TestTradesToCsv(t *testing.T) {
	path, err := TradesToCsv(t.TempDir(), "SPY_trades", testResult())
	require.NoError(t, err)

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, "side,entry_time,entry_price,exit_time,exit_price,volume,profit,synthetic", lines[0])
	assert.Equal(t, "long,2024-05-03T09:02:00Z,4,2024-05-03T09:03:00Z,10,1,6,true", lines[2])
}
