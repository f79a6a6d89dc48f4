package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// RunCache keeps recent backtest responses so clients can fetch them again by run id.
type RunCache struct {
	cache *cache.Cache
}

func NewRunCache(expiration time.Duration) *RunCache {
	return &RunCache{
		cache: cache.New(expiration, 2*expiration),
	}
}

func (c *RunCache) Store(resp *BacktestResponse) {
	c.cache.Set(resp.RunID.String(), resp, cache.DefaultExpiration)
	log.Tracef("%v: run stored in cache", resp.RunID)
}

func (c *RunCache) Get(runID uuid.UUID) (*BacktestResponse, bool) {
	item, found := c.cache.Get(runID.String())
	if !found {
		return nil, false
	}

	return item.(*BacktestResponse), true
}
