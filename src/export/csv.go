package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

var now = time.Now

type backtestRowCsv struct {
	Time      string  `csv:"time"`
	Close     float64 `csv:"close"`
	Signal    string  `csv:"signal"`
	Position  string  `csv:"position"`
	Profit    string  `csv:"profit"`
	Synthetic bool    `csv:"synthetic"`
}

type closedTradeCsv struct {
	Side       string  `csv:"side"`
	EntryTime  string  `csv:"entry_time"`
	EntryPrice float64 `csv:"entry_price"`
	ExitTime   string  `csv:"exit_time"`
	ExitPrice  float64 `csv:"exit_price"`
	Volume     float64 `csv:"volume"`
	Profit     float64 `csv:"profit"`
	Synthetic  bool    `csv:"synthetic"`
}

// ResultsToCsv writes one line per replayed bar. The profit column is empty on bars
// where nothing was realized.
func ResultsToCsv(outDir string, outFilePrefix string, result *models.BacktestResult) (string, error) {
	rows := make([]*backtestRowCsv, 0, len(result.Rows))
	for _, r := range result.Rows {
		profit := ""
		if r.Profit != nil {
			profit = strconv.FormatFloat(*r.Profit, 'f', -1, 64)
		}

		rows = append(rows, &backtestRowCsv{
			Time:      r.Timestamp.Format(time.RFC3339),
			Close:     r.Close,
			Signal:    string(r.Signal),
			Position:  string(r.Position),
			Profit:    profit,
			Synthetic: r.Synthetic,
		})
	}

	return writeCsv(outDir, outFilePrefix, &rows)
}

func TradesToCsv(outDir string, outFilePrefix string, result *models.BacktestResult) (string, error) {
	trades := make([]*closedTradeCsv, 0, len(result.Trades))
	for _, t := range result.Trades {
		trades = append(trades, &closedTradeCsv{
			Side:       string(t.Side),
			EntryTime:  t.EntryTime.Format(time.RFC3339),
			EntryPrice: t.EntryPrice,
			ExitTime:   t.ExitTime.Format(time.RFC3339),
			ExitPrice:  t.ExitPrice,
			Volume:     t.Volume,
			Profit:     t.Profit,
			Synthetic:  t.Synthetic,
		})
	}

	return writeCsv(outDir, outFilePrefix, &trades)
}

func writeCsv(outDir string, outFilePrefix string, in interface{}) (string, error) {
	outFilePath := path.Join(outDir, fmt.Sprintf("%s_%s.csv", outFilePrefix, now().Format("2006-01-02_15-04-05")))

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("writeCsv: failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outFilePath)
	if err != nil {
		return "", fmt.Errorf("writeCsv: failed to create file: %w", err)
	}

	defer file.Close()

	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		return gocsv.NewSafeCSVWriter(csv.NewWriter(out))
	})

	if err := gocsv.MarshalFile(in, file); err != nil {
		return "", fmt.Errorf("writeCsv: failed to write to file: %w", err)
	}

	return outFilePath, nil
}
