package service

import (
	"context"
	"strings"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type variantService struct {
	repo  *repository.Repository
	cache TreeCache
	log   *zap.Logger
	now   func() time.Time
}

func NewVariantService(repo *repository.Repository, cache TreeCache, log *zap.Logger) VariantService {
	return &variantService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// adjustmentCents — денежный вклад опции в вариант.
// PERCENTAGE считается от базовой цены товара.
func adjustmentCents(o models.Option, basePriceCents int64) int64 {
	switch o.PriceType {
	case models.PriceBase, models.PriceFixed:
		return o.PriceValue
	case models.PricePercentage:
		return basePriceCents * o.PriceValue / 100
	}
	return 0
}

func comboName(combo []models.Option) string {
	parts := make([]string, 0, len(combo))
	for _, o := range combo {
		parts = append(parts, o.Name)
	}
	return strings.Join(parts, " / ")
}

func comboPath(groupsByID map[uuid.UUID]models.OptionGroup, combo []models.Option) string {
	parts := make([]string, 0, len(combo))
	for _, o := range combo {
		g := groupsByID[o.OptionGroupID]
		parts = append(parts, g.Name+": "+o.Name)
	}
	return strings.Join(parts, " > ")
}

func comboOptionIDs(combo []models.Option) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(combo))
	for _, o := range combo {
		ids = append(ids, o.ID)
	}
	return ids
}

// GenerateVariants — идемпотентный апсерт по option_hash: существующие комбинации
// не трогаются (кроме дрейфа имени/цены/пути), недостающие — создаются со stock=0.
func (s *variantService) GenerateVariants(ctx context.Context, productID uuid.UUID) (*GenerateResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	groups, err := s.repo.Groups.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	groupIDs := make([]uuid.UUID, 0, len(groups))
	groupsByID := make(map[uuid.UUID]models.OptionGroup, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
		groupsByID[g.ID] = g
	}
	options, err := s.repo.Options.ListByGroupIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	optionsByGroup := make(map[uuid.UUID][]models.Option)
	for _, o := range options {
		optionsByGroup[o.OptionGroupID] = append(optionsByGroup[o.OptionGroupID], o)
	}

	combos := ExpandCombinations(groups, optionsByGroup)

	res := &GenerateResult{
		Created: []string{},
		Updated: []string{},
		Skipped: []string{},
		Errors:  []string{},
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		for _, combo := range combos {
			name := comboName(combo)
			hash := OptionHash(comboOptionIDs(combo))
			path := comboPath(groupsByID, combo)

			var adj int64
			for _, o := range combo {
				adj += adjustmentCents(o, p.PriceCents)
			}

			existing, err := tx.Variants.GetByProductAndHash(ctx, productID, hash)
			if err != nil {
				return err
			}

			if existing == nil {
				v := &models.Variant{
					ProductID:            productID,
					Name:                 name,
					Stock:                0,
					PriceAdjustmentCents: adj,
					OptionHash:           hash,
					OptionPath:           path,
					IsActive:             true,
				}
				for _, o := range combo {
					v.Options = append(v.Options, models.VariantOption{OptionID: o.ID})
				}
				if err := tx.Variants.Create(ctx, v); err != nil {
					s.log.Warn("Не удалось создать вариант", zap.String("combo", name), zap.Error(err))
					res.Errors = append(res.Errors, name)
					continue
				}
				res.Created = append(res.Created, name)
				continue
			}

			// Дрейф имени/цены/пути правим, остаток никогда не трогаем
			if existing.Name != name || existing.PriceAdjustmentCents != adj || existing.OptionPath != path {
				if err := tx.Variants.UpdateFields(ctx, existing.ID, map[string]any{
					"name":                   name,
					"price_adjustment_cents": adj,
					"option_path":            path,
				}); err != nil {
					return err
				}
				res.Updated = append(res.Updated, name)
			} else {
				res.Skipped = append(res.Skipped, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Генерация вариантов завершена",
		zap.String("product_id", productID.String()),
		zap.Int("created", len(res.Created)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("errors", len(res.Errors)),
	)

	s.invalidate(ctx, productID)
	return res, nil
}

func (s *variantService) ResolveVariant(ctx context.Context, productID uuid.UUID, selectedOptionIDs []uuid.UUID) (*models.Variant, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	variants, err := s.repo.Variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	// nil — не ошибка: вызывающий падает обратно на плоский остаток товара
	return MatchVariant(variants, selectedOptionIDs), nil
}

func (s *variantService) CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (*models.Variant, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if len(in.OptionIDs) == 0 {
		return nil, ErrOptionNotFound
	}
	if in.Stock < 0 {
		return nil, ErrStockNegative
	}

	hash := OptionHash(in.OptionIDs)
	if existing, err := s.repo.Variants.GetByProductAndHash(ctx, productID, hash); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateVariant
	}

	var adj int64
	names := make([]string, 0, len(in.OptionIDs))
	for _, oid := range in.OptionIDs {
		o, err := s.repo.Options.GetByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, ErrOptionNotFound
		}
		adj += adjustmentCents(*o, p.PriceCents)
		names = append(names, o.Name)
	}
	if in.PriceAdjustmentCents != nil {
		adj = *in.PriceAdjustmentCents
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.Join(names, " / ")
	}

	v := &models.Variant{
		ProductID:            productID,
		Name:                 name,
		Stock:                in.Stock,
		PriceAdjustmentCents: adj,
		OptionHash:           hash,
		OptionPath:           strings.Join(names, " > "),
		IsActive:             in.IsActive,
	}
	for _, oid := range in.OptionIDs {
		v.Options = append(v.Options, models.VariantOption{OptionID: oid})
	}

	if err := s.repo.Variants.Create(ctx, v); err != nil {
		return nil, err
	}

	s.invalidate(ctx, productID)
	return v, nil
}

func (s *variantService) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.Variant, error) {
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return s.repo.Variants.ListByProduct(ctx, productID)
}

func (s *variantService) UpdateVariantStock(ctx context.Context, variantID uuid.UUID, stock int32) (*models.Variant, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, ErrStockNegative
	}

	v, err := s.repo.Variants.GetByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVariantNotFound
	}

	if _, err := s.repo.Variants.SetStock(ctx, variantID, stock); err != nil {
		return nil, err
	}

	s.invalidate(ctx, v.ProductID)
	return s.repo.Variants.GetByID(ctx, variantID)
}

func (s *variantService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateProduct(ctx, productID)
	}
}
