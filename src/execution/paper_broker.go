package execution

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

// PaperBroker fills every order immediately at the last price set with UpdatePrice.
type PaperBroker struct {
	mu        sync.Mutex
	marks     map[string]float64
	positions []*models.Position
	orders    []*models.OrderResult
	realized  float64
	now       func() time.Time
}

func NewPaperBroker() *PaperBroker {
	return &PaperBroker{
		marks: make(map[string]float64),
		now:   time.Now,
	}
}

func (b *PaperBroker) UpdatePrice(symbol string, price float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.marks[symbol] = price
}

func (b *PaperBroker) RealizedProfit() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.realized
}

func (b *PaperBroker) Orders() []*models.OrderResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]*models.OrderResult(nil), b.orders...)
}

func (b *PaperBroker) SubmitOrder(ctx context.Context, symbol string, side models.OrderSide, volume float64) (*models.OrderResult, error) {
	if err := side.Validate(); err != nil {
		return nil, fmt.Errorf("PaperBroker.SubmitOrder: %w", err)
	}

	if volume <= 0 || math.IsNaN(volume) || math.IsInf(volume, 0) {
		return nil, fmt.Errorf("PaperBroker.SubmitOrder: %v: %w", volume, models.ErrInvalidOrderVolume)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	price, found := b.marks[symbol]
	if !found {
		return nil, fmt.Errorf("PaperBroker.SubmitOrder: %s: %w", symbol, models.ErrNoPriceAvailable)
	}

	now := b.now()

	switch side {
	case models.OrderSideBuy:
		b.open(symbol, models.PositionStateLong, volume, price, now)
	case models.OrderSideSellShort:
		b.open(symbol, models.PositionStateShort, volume, price, now)
	case models.OrderSideSell:
		if err := b.reduce(symbol, models.PositionStateLong, volume, price); err != nil {
			return nil, fmt.Errorf("PaperBroker.SubmitOrder: %w", err)
		}
	case models.OrderSideBuyToCover:
		if err := b.reduce(symbol, models.PositionStateShort, volume, price); err != nil {
			return nil, fmt.Errorf("PaperBroker.SubmitOrder: %w", err)
		}
	}

	result := &models.OrderResult{
		OrderID:   uuid.New().String(),
		Symbol:    symbol,
		Side:      side,
		Volume:    volume,
		Price:     price,
		Status:    models.OrderStatusFilled,
		Timestamp: now,
	}

	b.orders = append(b.orders, result)

	log.Debugf("PaperBroker: filled %s %.2f %s @ %.4f", side, volume, symbol, price)

	return result, nil
}

func (b *PaperBroker) ClosePosition(ctx context.Context, positionID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, p := range b.positions {
		if p.ID != positionID {
			continue
		}

		price, found := b.marks[p.Symbol]
		if !found {
			return false, fmt.Errorf("PaperBroker.ClosePosition: %s: %w", p.Symbol, models.ErrNoPriceAvailable)
		}

		b.realized += p.Side.Sign() * (price - p.OpenPrice) * p.Volume
		b.positions = append(b.positions[:i], b.positions[i+1:]...)

		return true, nil
	}

	return false, nil
}

func (b *PaperBroker) GetOpenPositions(ctx context.Context) ([]*models.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*models.Position, 0, len(b.positions))
	for _, p := range b.positions {
		cp := *p
		out = append(out, &cp)
	}

	return out, nil
}

func (b *PaperBroker) open(symbol string, side models.PositionState, volume, price float64, now time.Time) {
	b.positions = append(b.positions, &models.Position{
		ID:        uuid.New().String(),
		Symbol:    symbol,
		Side:      side,
		Volume:    volume,
		OpenPrice: price,
		OpenedAt:  now,
	})
}

// reduce takes volume off the oldest positions of the given side first.
func (b *PaperBroker) reduce(symbol string, side models.PositionState, volume, price float64) error {
	var available float64
	for _, p := range b.positions {
		if p.Symbol == symbol && p.Side == side {
			available += p.Volume
		}
	}

	if available < volume {
		return fmt.Errorf("%s %s: have %.2f, need %.2f: %w", side, symbol, available, volume, models.ErrPositionNotFound)
	}

	remaining := volume
	kept := b.positions[:0]
	for _, p := range b.positions {
		if remaining > 0 && p.Symbol == symbol && p.Side == side {
			qty := math.Min(p.Volume, remaining)
			b.realized += side.Sign() * (price - p.OpenPrice) * qty
			remaining -= qty
			p.Volume -= qty

			if p.Volume <= 0 {
				continue
			}
		}

		kept = append(kept, p)
	}

	b.positions = kept

	return nil
}
