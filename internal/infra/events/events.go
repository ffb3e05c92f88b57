package events

import (
	"context"
	"time"

	"marketplace/internal/domain/model"

	"github.com/google/uuid"
)

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// 注文まわりの通知
type OrderEvent struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	OrderID        int64             `json:"orderId"`
	CustomerID     int64             `json:"customerId"`
	VendorID       int64             `json:"vendorId"`
	Status         model.OrderStatus `json:"status"`
	PreviousStatus model.OrderStatus `json:"previousStatus,omitempty"`
	Total          int64             `json:"totalAmount"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

// routing key（店舗ごとに購読できるように店舗IDを付ける）
func (e OrderEvent) RoutingKey() string {
	return e.Type + ".vendor." + itoa(e.VendorID)
}

type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
	Close() error
}

func NewOrderPlaced(o model.Order, now time.Time) OrderEvent {
	return OrderEvent{
		ID:         uuid.NewString(),
		Type:       TypeOrderPlaced,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		VendorID:   o.VendorID,
		Status:     o.Status,
		Total:      o.Total,
		OccurredAt: now.UTC(),
	}
}

func NewOrderStatusChanged(o model.Order, from model.OrderStatus, now time.Time) OrderEvent {
	return OrderEvent{
		ID:             uuid.NewString(),
		Type:           TypeOrderStatusChanged,
		OrderID:        o.ID,
		CustomerID:     o.CustomerID,
		VendorID:       o.VendorID,
		Status:         o.Status,
		PreviousStatus: from,
		Total:          o.Total,
		OccurredAt:     now.UTC(),
	}
}

// 送り先が無い時
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (NoopPublisher) Close() error                              { return nil }
