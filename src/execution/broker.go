package execution

import (
	"context"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

type IBroker interface {
	SubmitOrder(ctx context.Context, symbol string, side models.OrderSide, volume float64) (*models.OrderResult, error)
	ClosePosition(ctx context.Context, positionID string) (bool, error)
	GetOpenPositions(ctx context.Context) ([]*models.Position, error)
}
