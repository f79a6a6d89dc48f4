package data

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

// CachedProvider memoizes another provider's results for a short time. Errors are not cached.
type CachedProvider struct {
	next  IHistoricalDataProvider
	cache *cache.Cache
}

func NewCachedProvider(next IHistoricalDataProvider) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (p *CachedProvider) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) (models.Candles, error) {
	key := fmt.Sprintf("%s|%d|%d|%s", symbol, start.UnixNano(), end.UnixNano(), interval)

	if value, found := p.cache.Get(key); found {
		log.Tracef("CachedProvider: hit %s", key)
		return value.(models.Candles), nil
	}

	candles, err := p.next.GetHistoricalData(ctx, symbol, start, end, interval)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, candles, cache.DefaultExpiration)

	return candles, nil
}

func (p *CachedProvider) Flush() {
	p.cache.Flush()
}
