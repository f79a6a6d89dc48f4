package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/models"
	"github.com/jiaming2012/mean-reversion-trader/src/utils"
)

type TradierBroker struct {
	ordersURL    string
	positionsURL string
	token        string
	client       *http.Client
	now          func() time.Time
}

func NewTradierBroker(ordersURL, positionsURL, token string) *TradierBroker {
	return &TradierBroker{
		ordersURL:    ordersURL,
		positionsURL: positionsURL,
		token:        token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (b *TradierBroker) SubmitOrder(ctx context.Context, symbol string, side models.OrderSide, volume float64) (*models.OrderResult, error) {
	if err := side.Validate(); err != nil {
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: %w", err)
	}

	if volume <= 0 || volume != math.Trunc(volume) {
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: equity orders need a whole share count, got %v: %w", volume, models.ErrInvalidOrderVolume)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.ordersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: failed to create request: %w", err)
	}

	symbol = strings.ToUpper(symbol)

	q := httpReq.URL.Query()
	q.Add("class", "equity")
	q.Add("type", "market")
	q.Add("duration", "day")
	q.Add("symbol", symbol)
	q.Add("quantity", strconv.Itoa(int(volume)))
	q.Add("side", string(side))

	httpReq.URL.RawQuery = q.Encode()
	b.setHeaders(httpReq)

	log.Infof("TradierBroker: placing order: %v", httpReq.URL.String())

	res, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: failed to place order: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		bytesErr, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: %s, http code %v", string(bytesErr), res.Status)
	}

	var response models.TradierOrderResponseDTO
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: failed to decode response: %w", err)
	}

	if response.Errors != nil {
		return nil, fmt.Errorf("TradierBroker.SubmitOrder: order rejected: %v", response.Errors.Error)
	}

	status := models.OrderStatusPending
	if response.Order.Status != "ok" {
		status = models.OrderStatusRejected
	}

	return &models.OrderResult{
		OrderID:   strconv.Itoa(response.Order.ID),
		Symbol:    symbol,
		Side:      side,
		Volume:    volume,
		Status:    status,
		Timestamp: b.now(),
	}, nil
}

// ClosePosition sends an opposing market order for the full volume of the position.
func (b *TradierBroker) ClosePosition(ctx context.Context, positionID string) (bool, error) {
	positions, err := b.GetOpenPositions(ctx)
	if err != nil {
		return false, fmt.Errorf("TradierBroker.ClosePosition: %w", err)
	}

	for _, p := range positions {
		if p.ID != positionID {
			continue
		}

		side := models.OrderSideSell
		if p.Side == models.PositionStateShort {
			side = models.OrderSideBuyToCover
		}

		if _, err := b.SubmitOrder(ctx, p.Symbol, side, p.Volume); err != nil {
			return false, fmt.Errorf("TradierBroker.ClosePosition: %w", err)
		}

		return true, nil
	}

	return false, nil
}

func (b *TradierBroker) GetOpenPositions(ctx context.Context) ([]*models.Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.positionsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("TradierBroker.GetOpenPositions: failed to create request: %w", err)
	}

	b.setHeaders(req)

	res, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TradierBroker.GetOpenPositions: failed to fetch positions: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TradierBroker.GetOpenPositions: failed to fetch positions: %s", res.Status)
	}

	bytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("TradierBroker.GetOpenPositions: failed to read response body: %w", err)
	}

	dtos, err := utils.ParseTradierResponse[models.TradierPositionDTO](bytes)
	if err != nil {
		return nil, fmt.Errorf("TradierBroker.GetOpenPositions: failed to parse response: %w", err)
	}

	positions := make([]*models.Position, 0, len(dtos))
	for _, dto := range dtos {
		p, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("TradierBroker.GetOpenPositions: %w", err)
		}

		positions = append(positions, p)
	}

	return positions, nil
}

func (b *TradierBroker) setHeaders(req *http.Request) {
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", b.token))
}
