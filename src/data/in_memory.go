package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

// InMemoryProvider serves candles stored per symbol. The interval argument is ignored.
type InMemoryProvider struct {
	mu      sync.RWMutex
	candles map[string]models.Candles
	calls   int
}

func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		candles: make(map[string]models.Candles),
	}
}

func (p *InMemoryProvider) Set(symbol string, candles models.Candles) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.candles[symbol] = candles
}

func (p *InMemoryProvider) Append(symbol string, candle *models.Candle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.candles[symbol] = append(p.candles[symbol], candle)
}

func (p *InMemoryProvider) Calls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.calls
}

func (p *InMemoryProvider) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time, interval models.Interval) (models.Candles, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++

	candles, found := p.candles[symbol]
	if !found {
		return nil, fmt.Errorf("InMemoryProvider: no candles for symbol %s", symbol)
	}

	return candles.FetchRange(start, end), nil
}
