package service

import (
	"context"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
)

type CreateOrderItem struct {
	ProductID         uuid.UUID
	Quantity          int32
	SelectedOptionIDs []uuid.UUID
}

type CreateOrderInput struct {
	Source models.OrderSource
	Items  []CreateOrderItem
}

type OrderListFilter struct {
	State      *models.OrderState
	Source     *models.OrderSource
	DriverID   *uuid.UUID
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

// StockCheckResult — результат dry-run проверки одной строки заказа
type StockCheckResult struct {
	ProductID         uuid.UUID  `json:"product_id"`
	VariantID         *uuid.UUID `json:"variant_id,omitempty"`
	IsValid           bool       `json:"is_valid"`
	AvailableStock    int32      `json:"available_stock"`
	RequestedQuantity int32      `json:"requested_quantity"`
}

type StockValidation struct {
	OrderCode string             `json:"order_code"`
	IsValid   bool               `json:"is_valid"`
	Results   []StockCheckResult `json:"results"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, code string) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)

	// ApplyStockTransition переводит заказ в toState; списание/возврат остатков
	// привязаны к ребру перехода, а не к состоянию назначения
	ApplyStockTransition(ctx context.Context, code string, toState models.OrderState) (*models.Order, error)
	AssignDriver(ctx context.Context, code string, driverID uuid.UUID) (*models.Order, error)
	ValidateStockForOrder(ctx context.Context, code string) (*StockValidation, error)
}

func toRepoOrderFilter(f OrderListFilter) repository.OrderListFilter {
	return repository.OrderListFilter{
		State:      f.State,
		Source:     f.Source,
		DriverID:   f.DriverID,
		CustomerID: f.CustomerID,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}
