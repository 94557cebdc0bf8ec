package service

import (
	"context"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

type OrderItemEvent struct {
	ProductID  uuid.UUID  `json:"product_id"`
	VariantID  *uuid.UUID `json:"variant_id,omitempty"`
	Quantity   int32      `json:"quantity"`
	PriceCents int64      `json:"price_cents"`
	LineTotal  int64      `json:"line_total_cents"`
}

type OrderCreatedEvent struct {
	OrderCode  string             `json:"order_code"`
	Source     models.OrderSource `json:"source"`
	Items      []OrderItemEvent   `json:"items"`
	TotalCents int64              `json:"total_cents"`
	CreatedAt  time.Time          `json:"created_at"`
}

type OrderStateChangedEvent struct {
	OrderCode string            `json:"order_code"`
	FromState models.OrderState `json:"from_state"`
	ToState   models.OrderState `json:"to_state"`
	ChangedAt time.Time         `json:"changed_at"`
}

type DriverAssignedEvent struct {
	OrderCode  string    `json:"order_code"`
	DriverID   uuid.UUID `json:"driver_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderStateChanged(ctx context.Context, e OrderStateChangedEvent) error
	PublishDriverAssigned(ctx context.Context, e DriverAssignedEvent) error
}
