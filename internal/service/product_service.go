package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	Quantity    int32
	IsActive    *bool
}

type ProductPatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Quantity    *int32
	IsActive    *bool
}

type ProductListFilter struct {
	Query      string
	OnlyActive *bool
	Limit      int
	Offset     int
}

type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo  *repository.Repository
	cache TreeCache
	now   func() time.Time
}

func NewProductService(repo *repository.Repository, cache TreeCache) ProductService {
	return &productService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.PriceCents < 0 {
		return nil, ErrPriceValueRequired
	}
	if in.Quantity < 0 {
		return nil, ErrStockNegative
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	p := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		Quantity:    in.Quantity,
		IsActive:    active,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents < 0 {
			return nil, ErrPriceValueRequired
		}
		fields["price_cents"] = *patch.PriceCents
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, ErrStockNegative
		}
		fields["quantity"] = *patch.Quantity
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	// Цена входит в дерево остатков (надбавки PERCENTAGE считаются от базы)
	if patch.PriceCents != nil && s.cache != nil {
		_ = s.cache.InvalidateProduct(ctx, id)
	}

	return s.repo.Products.GetByID(ctx, id)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, repository.ProductListFilter{
		Query:      f.Query,
		OnlyActive: f.OnlyActive,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}

	ok, err := s.repo.Products.Delete(ctx, id)
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrProductReferenced
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}

	if s.cache != nil {
		_ = s.cache.InvalidateProduct(ctx, id)
	}
	return nil
}
