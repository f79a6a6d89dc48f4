package data

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

// CsvProvider reads a single exported series: time,open,high,low,close[,volume].
// The symbol and interval arguments are not checked against the file.
type CsvProvider struct {
	path string
}

func NewCsvProvider(path string) *CsvProvider {
	return &CsvProvider{path: path}
}

func (p *CsvProvider) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) (models.Candles, error) {
	candles, err := LoadCandlesFromCsv(p.path)
	if err != nil {
		return nil, err
	}

	var out models.Candles
	for _, c := range candles {
		if !start.IsZero() && c.Timestamp.Before(start) {
			continue
		}

		if !end.IsZero() && !c.Timestamp.Before(end) {
			continue
		}

		out = append(out, c)
	}

	log.Debugf("CsvProvider: %s: %d of %d candles in range", symbol, len(out), len(candles))

	return out, nil
}

func LoadCandlesFromCsv(path string) (models.Candles, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadCandlesFromCsv: error opening file: %w", err)
	}

	defer f.Close()

	var dtos models.CandleDTOs
	if err := gocsv.UnmarshalFile(f, &dtos); err != nil {
		return nil, fmt.Errorf("LoadCandlesFromCsv: error unmarshalling %s: %w", path, err)
	}

	candles, err := dtos.ToModel()
	if err != nil {
		return nil, fmt.Errorf("LoadCandlesFromCsv: %s: %w", path, err)
	}

	return candles, nil
}
