package execution

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

// SignalExecutor turns strategy transitions into broker orders.
type SignalExecutor struct {
	Broker  IBroker
	LotSize float64
}

func NewSignalExecutor(broker IBroker, lotSize float64) *SignalExecutor {
	return &SignalExecutor{
		Broker:  broker,
		LotSize: lotSize,
	}
}

func (e *SignalExecutor) OnBuy(ctx context.Context, symbol string, lot float64) error {
	_, err := e.Broker.SubmitOrder(ctx, symbol, models.OrderSideBuy, lot)
	return err
}

func (e *SignalExecutor) OnSell(ctx context.Context, symbol string, lot float64) error {
	_, err := e.Broker.SubmitOrder(ctx, symbol, models.OrderSideSellShort, lot)
	return err
}

// OnClose closes every open position of the given side in symbol. lot is used only for logging.
func (e *SignalExecutor) OnClose(ctx context.Context, symbol string, lot float64, side models.PositionState) error {
	positions, err := e.Broker.GetOpenPositions(ctx)
	if err != nil {
		return fmt.Errorf("OnClose: %w", err)
	}

	closed := 0
	for _, p := range positions {
		if p.Symbol != symbol || p.Side != side {
			continue
		}

		ok, err := e.Broker.ClosePosition(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("OnClose: position %s: %w", p.ID, err)
		}

		if ok {
			closed++
		}
	}

	if closed == 0 {
		return fmt.Errorf("OnClose: no %s position in %s: %w", side, symbol, models.ErrPositionNotFound)
	}

	log.Infof("closed %d %s position(s) in %s (lot %.2f)", closed, side, symbol, lot)

	return nil
}

func (e *SignalExecutor) Execute(ctx context.Context, symbol string, tr models.Transition) error {
	switch tr.Signal {
	case models.SignalActionNone:
		return nil
	case models.SignalActionClose:
		return e.OnClose(ctx, symbol, e.LotSize, tr.Before)
	case models.SignalActionBuy, models.SignalActionSell:
		if !tr.Entered {
			return nil
		}

		if tr.IsReversal() {
			if err := e.OnClose(ctx, symbol, e.LotSize, tr.ClosedSide()); err != nil {
				return fmt.Errorf("Execute: reversal: %w", err)
			}
		}

		if tr.Signal == models.SignalActionBuy {
			return e.OnBuy(ctx, symbol, e.LotSize)
		}

		return e.OnSell(ctx, symbol, e.LotSize)
	default:
		return fmt.Errorf("Execute: %q: %w", tr.Signal, models.ErrUnknownSignal)
	}
}
