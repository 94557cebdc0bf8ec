package service

import (
	"context"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

type VariantInput struct {
	Name                 string
	OptionIDs            []uuid.UUID
	Stock                int32
	PriceAdjustmentCents *int64 // nil — посчитать из опций
	IsActive             bool
}

// GenerateResult — итог прогона генерации: по имени комбинации в каждую корзину
type GenerateResult struct {
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
	Errors  []string `json:"errors"`
}

type VariantService interface {
	GenerateVariants(ctx context.Context, productID uuid.UUID) (*GenerateResult, error)
	ResolveVariant(ctx context.Context, productID uuid.UUID, selectedOptionIDs []uuid.UUID) (*models.Variant, error)
	CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (*models.Variant, error)
	ListVariants(ctx context.Context, productID uuid.UUID) ([]models.Variant, error)
	UpdateVariantStock(ctx context.Context, variantID uuid.UUID, stock int32) (*models.Variant, error)
}
