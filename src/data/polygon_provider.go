package data

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

type PolygonProvider struct {
	Client *polygon.Client
}

func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		Client: polygon.New(apiKey),
	}
}

func (p *PolygonProvider) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) (models.Candles, error) {
	params, err := newListAggsParams(symbol, start, end, interval)
	if err != nil {
		return nil, fmt.Errorf("PolygonProvider: %w", err)
	}

	log.Debugf("fetching polygon aggregates for %s from %s to %s (%s)", symbol, start.Format(time.RFC3339), end.Format(time.RFC3339), interval)

	iter := p.Client.ListAggs(ctx, params)

	var candles models.Candles
	for iter.Next() {
		candle := aggToCandle(iter.Item())
		if !candle.Timestamp.Before(end) {
			continue
		}

		candles = append(candles, candle)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("PolygonProvider: failed to list aggregates for %s: %w", symbol, err)
	}

	return candles, nil
}

func newListAggsParams(symbol string, start, end time.Time, interval models.Interval) (*polygonmodels.ListAggsParams, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", models.ErrInvalidInput)
	}

	if !end.After(start) {
		return nil, fmt.Errorf("end %s is not after start %s: %w", end.Format(time.RFC3339), start.Format(time.RFC3339), models.ErrInvalidInput)
	}

	ts, err := interval.ToTimespan()
	if err != nil {
		return nil, err
	}

	return polygonmodels.ListAggsParams{
		Ticker:     symbol,
		Multiplier: ts.Multiplier,
		Timespan:   polygonmodels.Timespan(ts.Unit),
		From:       polygonmodels.Millis(start),
		To:         polygonmodels.Millis(end),
	}.WithOrder(polygonmodels.Asc).WithAdjusted(true), nil
}

func aggToCandle(agg polygonmodels.Agg) *models.Candle {
	return &models.Candle{
		Timestamp: time.Time(agg.Timestamp).UTC(),
		Open:      agg.Open,
		High:      agg.High,
		Low:       agg.Low,
		Close:     agg.Close,
		Volume:    agg.Volume,
	}
}
