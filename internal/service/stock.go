package service

import (
	"context"

	"github.com/google/uuid"
)

const LowStockThreshold = 10

type StockNodeType string

const (
	StockNodeGroup  StockNodeType = "group"
	StockNodeOption StockNodeType = "option"
)

type StockNode struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Type     StockNodeType `json:"type"`
	Level    int32         `json:"level"`
	Stock    int64         `json:"stock"`
	Children []*StockNode  `json:"children,omitempty"`
}

type ProductStockTree struct {
	ProductID   uuid.UUID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	TotalStock  int64        `json:"total_stock"`
	Nodes       []*StockNode `json:"nodes"`
}

type VariantStockInfo struct {
	VariantID  uuid.UUID `json:"variant_id"`
	Name       string    `json:"name"`
	OptionPath string    `json:"option_path"`
	Stock      int32     `json:"stock"`
}

type StockSummary struct {
	ProductID     uuid.UUID          `json:"product_id"`
	TotalVariants int64              `json:"total_variants"`
	TotalStock    int64              `json:"total_stock"`
	LowStock      []VariantStockInfo `json:"low_stock"`
	OutOfStock    []VariantStockInfo `json:"out_of_stock"`
}

// TreeCache — read-through кэш деревьев остатков (Redis); nil отключает кэширование.
type TreeCache interface {
	GetStockTree(ctx context.Context, productID uuid.UUID) (*ProductStockTree, bool)
	SetStockTree(ctx context.Context, productID uuid.UUID, tree *ProductStockTree) error
	InvalidateProduct(ctx context.Context, productID uuid.UUID) error
}

type StockService interface {
	GetHierarchicalStock(ctx context.Context, productID uuid.UUID) (*ProductStockTree, error)
	GetStockSummary(ctx context.Context, productID uuid.UUID) (*StockSummary, error)
}
