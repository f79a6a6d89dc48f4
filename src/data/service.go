package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

type IHistoricalDataProvider interface {
	GetHistoricalData(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) (models.Candles, error)
}

// NewProvider builds the provider named by the data source of a config. Polygon
// results are cached because the vendor API is rate limited.
func NewProvider(cfg models.DataConfigYAML, polygonAPIKey string) (IHistoricalDataProvider, error) {
	switch cfg.Source {
	case models.DataSourceCSV:
		if cfg.CsvPath == "" {
			return nil, fmt.Errorf("NewProvider: csv_path is required for the csv source: %w", models.ErrInvalidConfiguration)
		}

		return NewCsvProvider(cfg.CsvPath), nil
	case models.DataSourcePolygon:
		if polygonAPIKey == "" {
			return nil, fmt.Errorf("NewProvider: missing POLYGON_API_KEY: %w", models.ErrInvalidConfiguration)
		}

		return NewCachedProvider(NewPolygonProvider(polygonAPIKey)), nil
	default:
		return nil, fmt.Errorf("NewProvider: %q: %w", cfg.Source, models.ErrUnknownDataSource)
	}
}

func ParseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("ParseDate: invalid date %q: %w", value, models.ErrInvalidInput)
}
