package models

import (
	"fmt"
	"time"
)

type OrderSide string

const (
	OrderSideBuy        OrderSide = "buy"
	OrderSideSell       OrderSide = "sell"
	OrderSideBuyToCover OrderSide = "buy_to_cover"
	OrderSideSellShort  OrderSide = "sell_short"
)

func (s OrderSide) Validate() error {
	switch s {
	case OrderSideBuy, OrderSideSell, OrderSideBuyToCover, OrderSideSellShort:
		return nil
	default:
		return fmt.Errorf("%q: %w", string(s), ErrInvalidOrderSide)
	}
}

// IsBuy reports whether the order adds long exposure (or removes short exposure).
func (s OrderSide) IsBuy() bool {
	return s == OrderSideBuy || s == OrderSideBuyToCover
}

type OrderStatus string

const (
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusRejected OrderStatus = "rejected"
)

type OrderResult struct {
	OrderID   string      `json:"order_id"`
	Symbol    string      `json:"symbol"`
	Side      OrderSide   `json:"side"`
	Volume    float64     `json:"volume"`
	Price     float64     `json:"price"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

type Position struct {
	ID        string        `json:"id"`
	Symbol    string        `json:"symbol"`
	Side      PositionState `json:"side"`
	Volume    float64       `json:"volume"`
	OpenPrice float64       `json:"open_price"`
	OpenedAt  time.Time     `json:"opened_at"`
}
