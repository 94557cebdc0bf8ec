package dto

import (
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

type CreateOrderItemRequest struct {
	ProductID         uuid.UUID   `json:"product_id" binding:"required"`
	Quantity          int32       `json:"quantity" binding:"required,gt=0"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids"`
}

type CreateOrderRequest struct {
	Source string                   `json:"source" binding:"required,oneof=ADMIN CUSTOMER"`
	Items  []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type TransitionRequest struct {
	State string `json:"state" binding:"required,oneof=PLACED DELIVERING RETURNED COMPLETED"`
}

type AssignDriverRequest struct {
	DriverID uuid.UUID `json:"driver_id" binding:"required"`
}

type OrderItemResponse struct {
	ProductID         uuid.UUID   `json:"product_id"`
	VariantID         *uuid.UUID  `json:"variant_id,omitempty"`
	Quantity          int32       `json:"quantity"`
	UnitPriceCents    int64       `json:"unit_price_cents"`
	LineTotalCents    int64       `json:"line_total_cents"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids,omitempty"`
}

type OrderResponse struct {
	Code        string              `json:"code"`
	State       string              `json:"state"`
	Source      string              `json:"source"`
	CustomerID  *uuid.UUID          `json:"customer_id,omitempty"`
	DriverID    *uuid.UUID          `json:"driver_id,omitempty"`
	AssignedAt  *time.Time          `json:"assigned_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	TotalCents  int64               `json:"total_cents"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		Code:        o.Code,
		State:       string(o.State),
		Source:      string(o.Source),
		CustomerID:  o.CustomerID,
		DriverID:    o.DriverID,
		AssignedAt:  o.AssignedAt,
		CompletedAt: o.CompletedAt,
		TotalCents:  o.TotalCents,
		CreatedAt:   o.CreatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			Quantity:          it.Quantity,
			UnitPriceCents:    it.UnitPriceCents,
			LineTotalCents:    it.LineTotalCents,
			SelectedOptionIDs: it.OptionDetails.SelectedOptionIDs,
		})
	}
	return resp
}

type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
}
