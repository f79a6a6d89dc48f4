package models

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

type TradierPositionDTO struct {
	CostBasis    float64 `json:"cost_basis"`
	DateAcquired string  `json:"date_acquired"`
	ID           int     `json:"id"`
	Quantity     float64 `json:"quantity"`
	Symbol       string  `json:"symbol"`
}

// ToModel maps a signed tradier quantity onto a side and an unsigned volume.
func (dto TradierPositionDTO) ToModel() (*Position, error) {
	if dto.Quantity == 0 {
		return nil, fmt.Errorf("TradierPositionDTO: position %d has zero quantity: %w", dto.ID, ErrInvalidInput)
	}

	openedAt, err := time.Parse(time.RFC3339, dto.DateAcquired)
	if err != nil {
		return nil, fmt.Errorf("TradierPositionDTO: failed to parse date_acquired: %w", err)
	}

	side := PositionStateLong
	if dto.Quantity < 0 {
		side = PositionStateShort
	}

	volume := math.Abs(dto.Quantity)

	return &Position{
		ID:        strconv.Itoa(dto.ID),
		Symbol:    dto.Symbol,
		Side:      side,
		Volume:    volume,
		OpenPrice: math.Abs(dto.CostBasis) / volume,
		OpenedAt:  openedAt,
	}, nil
}

type TradierOrderResponseDTO struct {
	Order struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	} `json:"order"`
	Errors *struct {
		Error []string `json:"error"`
	} `json:"errors,omitempty"`
}
