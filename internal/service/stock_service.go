package service

import (
	"context"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stockService struct {
	repo  *repository.Repository
	cache TreeCache
	log   *zap.Logger
}

func NewStockService(repo *repository.Repository, cache TreeCache, log *zap.Logger) StockService {
	return &stockService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *stockService) loadCatalog(ctx context.Context, productID uuid.UUID) (*models.Product, []models.OptionGroup, map[uuid.UUID][]models.Option, []models.Variant, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if p == nil {
		return nil, nil, nil, nil, ErrProductNotFound
	}

	groups, err := s.repo.Groups.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	groupIDs := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}
	options, err := s.repo.Options.ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	optionsByGroup := make(map[uuid.UUID][]models.Option)
	for _, o := range options {
		optionsByGroup[o.OptionGroupID] = append(optionsByGroup[o.OptionGroupID], o)
	}

	variants, err := s.repo.Variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return p, groups, optionsByGroup, variants, nil
}

func (s *stockService) GetHierarchicalStock(ctx context.Context, productID uuid.UUID) (*ProductStockTree, error) {
	if s.cache != nil {
		if tree, ok := s.cache.GetStockTree(ctx, productID); ok {
			return tree, nil
		}
	}

	p, groups, optionsByGroup, variants, err := s.loadCatalog(ctx, productID)
	if err != nil {
		return nil, err
	}

	tree := BuildStockTree(p, groups, optionsByGroup, variants)

	if s.cache != nil {
		if err := s.cache.SetStockTree(ctx, productID, tree); err != nil {
			s.log.Warn("Не удалось записать дерево остатков в кэш", zap.Error(err))
		}
	}
	return tree, nil
}

func (s *stockService) GetStockSummary(ctx context.Context, productID uuid.UUID) (*StockSummary, error) {
	p, groups, optionsByGroup, variants, err := s.loadCatalog(ctx, productID)
	if err != nil {
		return nil, err
	}

	sum := &StockSummary{
		ProductID:  productID,
		LowStock:   []VariantStockInfo{},
		OutOfStock: []VariantStockInfo{},
	}

	if len(variants) == 0 {
		// Без вариантов сводка считает то же, что и дерево: сумму
		// собственных остатков опций, а для товара без групп — плоское
		// количество
		sum.TotalStock = BuildStockTree(p, groups, optionsByGroup, nil).TotalStock
		return sum, nil
	}

	for _, v := range variants {
		if !v.IsActive {
			continue
		}
		sum.TotalVariants++
		sum.TotalStock += int64(v.Stock)

		info := VariantStockInfo{
			VariantID:  v.ID,
			Name:       v.Name,
			OptionPath: v.OptionPath,
			Stock:      v.Stock,
		}
		switch {
		case v.Stock == 0:
			sum.OutOfStock = append(sum.OutOfStock, info)
		case v.Stock <= LowStockThreshold:
			sum.LowStock = append(sum.LowStock, info)
		}
	}
	return sum, nil
}
