package service

import (
	"context"
	"strings"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
)

type catalogService struct {
	repo  *repository.Repository
	cache TreeCache
	now   func() time.Time
}

func NewCatalogService(repo *repository.Repository, cache TreeCache) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// walkToRoot проверяет, что groupID не встречается среди предков parent
// (дерево, не DAG). Заодно возвращает уровень родителя.
func (s *catalogService) walkToRoot(ctx context.Context, parent *models.OptionGroup, groupID uuid.UUID) error {
	cur := parent
	for depth := 0; cur != nil; depth++ {
		if depth > 64 {
			return ErrGroupCycle // защита от испорченных данных
		}
		if cur.ID == groupID {
			return ErrGroupCycle
		}
		if cur.ParentGroupID == nil {
			return nil
		}
		next, err := s.repo.Groups.GetByID(ctx, *cur.ParentGroupID)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func (s *catalogService) CreateGroup(ctx context.Context, productID uuid.UUID, in GroupInput) (*models.OptionGroup, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	selType := in.SelectionType
	if selType == "" {
		selType = models.SelectionSingle
	}

	// Уровень всегда выводится из родителя, а не берётся из запроса
	level := int32(1)
	if in.ParentGroupID != nil {
		parent, err := s.repo.Groups.GetByID(ctx, *in.ParentGroupID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrGroupNotFound
		}
		if parent.ProductID != productID {
			return nil, ErrParentOtherProduct
		}
		if !parent.IsParent {
			return nil, ErrParentNotEligible
		}
		if err := s.walkToRoot(ctx, parent, uuid.Nil); err != nil {
			return nil, err
		}
		level = parent.Level + 1
	}

	g := &models.OptionGroup{
		ProductID:     productID,
		Name:          name,
		SelectionType: selType,
		Level:         level,
		ParentGroupID: in.ParentGroupID,
		IsParent:      in.IsParent,
		SortOrder:     in.SortOrder,
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Groups.Create(ctx, g); err != nil {
			return err
		}
		if !p.HasOptions {
			return tx.Products.UpdateFields(ctx, productID, map[string]any{"has_options": true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, productID)
	return g, nil
}

func (s *catalogService) UpdateGroup(ctx context.Context, groupID uuid.UUID, patch GroupPatch) (*models.OptionGroup, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	g, err := s.repo.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	fields := map[string]any{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if patch.SelectionType != nil {
		fields["selection_type"] = *patch.SelectionType
	}
	if patch.IsParent != nil {
		fields["is_parent"] = *patch.IsParent
	}
	if patch.SortOrder != nil {
		fields["sort_order"] = *patch.SortOrder
	}

	if patch.ParentGroupID != nil {
		parent, err := s.repo.Groups.GetByID(ctx, *patch.ParentGroupID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrGroupNotFound
		}
		if parent.ProductID != g.ProductID {
			return nil, ErrParentOtherProduct
		}
		if !parent.IsParent {
			return nil, ErrParentNotEligible
		}
		// Группа не может оказаться собственным предком
		if err := s.walkToRoot(ctx, parent, g.ID); err != nil {
			return nil, err
		}
		fields["parent_group_id"] = *patch.ParentGroupID
		fields["level"] = parent.Level + 1
	}

	if len(fields) == 0 {
		return g, nil
	}

	if err := s.repo.Groups.UpdateFields(ctx, groupID, fields); err != nil {
		return nil, err
	}

	s.invalidate(ctx, g.ProductID)
	return s.repo.Groups.GetByID(ctx, groupID)
}

func (s *catalogService) ListGroups(ctx context.Context, productID uuid.UUID) ([]models.OptionGroup, error) {
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

	ids := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	options, err := s.repo.Options.ListByGroupIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byGroup := make(map[uuid.UUID][]models.Option)
	for _, o := range options {
		byGroup[o.OptionGroupID] = append(byGroup[o.OptionGroupID], o)
	}
	for i := range groups {
		groups[i].Options = byGroup[groups[i].ID]
	}
	return groups, nil
}

// collectDescendants строит замыкание parent-child повторными выборками,
// уровень за уровнем. Возвращает срезы id по глубине: [0] — сама группа.
func collectDescendants(ctx context.Context, tx *repository.Repository, groupID uuid.UUID) ([][]uuid.UUID, error) {
	levels := [][]uuid.UUID{{groupID}}
	frontier := []uuid.UUID{groupID}
	for len(frontier) > 0 {
		next, err := tx.Groups.ListByParentIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			break
		}
		ids := make([]uuid.UUID, 0, len(next))
		for _, g := range next {
			ids = append(ids, g.ID)
		}
		levels = append(levels, ids)
		frontier = ids
	}
	return levels, nil
}

func (s *catalogService) DeleteGroup(ctx context.Context, groupID uuid.UUID) (*GroupCascadeResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	g, err := s.repo.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	res := &GroupCascadeResult{}

	// Проверка «referenced in orders» и весь каскад — одна транзакция:
	// частичное удаление ломает дерево
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		levels, err := collectDescendants(ctx, tx, groupID)
		if err != nil {
			return err
		}

		var allIDs []uuid.UUID
		for _, lvl := range levels {
			allIDs = append(allIDs, lvl...)
		}

		options, err := tx.Options.ListByGroupIDs(ctx, allIDs)
		if err != nil {
			return err
		}
		optionIDs := make([]uuid.UUID, 0, len(options))
		for _, o := range options {
			optionIDs = append(optionIDs, o.ID)
		}

		variantIDs, err := tx.Variants.ListIDsByOptionIDs(ctx, optionIDs)
		if err != nil {
			return err
		}

		refs, err := tx.Items.CountByVariantIDs(ctx, variantIDs)
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrVariantReferenced
		}

		if res.VariantsDeleted, err = tx.Variants.DeleteByIDs(ctx, variantIDs); err != nil {
			return err
		}
		if res.OptionsDeleted, err = tx.Options.DeleteByGroupIDs(ctx, allIDs); err != nil {
			return err
		}

		// Самые глубокие уровни первыми — иначе самоссылочный FK не даст удалить
		for i := len(levels) - 1; i >= 0; i-- {
			n, err := tx.Groups.DeleteByIDs(ctx, levels[i])
			if err != nil {
				return err
			}
			res.GroupsDeleted += n
		}

		left, err := tx.Groups.CountByProduct(ctx, g.ProductID)
		if err != nil {
			return err
		}
		if left == 0 {
			return tx.Products.UpdateFields(ctx, g.ProductID, map[string]any{"has_options": false})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, g.ProductID)
	return res, nil
}

func (s *catalogService) CreateOption(ctx context.Context, groupID uuid.UUID, in OptionInput) (*models.Option, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	g, err := s.repo.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	priceType := in.PriceType
	if priceType == "" {
		priceType = models.PriceFree
	}

	var priceValue int64
	if priceType != models.PriceFree {
		if in.PriceValue == nil || *in.PriceValue < 0 {
			return nil, ErrPriceValueRequired
		}
		priceValue = *in.PriceValue
	}

	if in.Stock < 0 {
		return nil, ErrStockNegative
	}

	o := &models.Option{
		OptionGroupID: groupID,
		Name:          name,
		PriceType:     priceType,
		PriceValue:    priceValue,
		IsDefault:     in.IsDefault,
		IsAvailable:   in.IsAvailable,
		Stock:         in.Stock,
		SortOrder:     in.SortOrder,
	}

	if err := s.repo.Options.Create(ctx, o); err != nil {
		return nil, err
	}

	s.invalidate(ctx, g.ProductID)
	return o, nil
}

func (s *catalogService) UpdateOption(ctx context.Context, optionID uuid.UUID, patch OptionPatch) (*models.Option, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	o, err := s.repo.Options.GetByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOptionNotFound
	}

	fields := map[string]any{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}

	if patch.PriceValue != nil {
		if *patch.PriceValue < 0 {
			return nil, ErrPriceValueRequired
		}
		fields["price_value"] = *patch.PriceValue
	}
	if patch.PriceType != nil {
		fields["price_type"] = *patch.PriceType
		switch {
		case *patch.PriceType == models.PriceFree:
			fields["price_value"] = int64(0)
		case patch.PriceValue == nil:
			// Смена типа цены без явного значения оставила бы старые
			// центы трактоваться как проценты (и наоборот)
			return nil, ErrPriceValueRequired
		}
	}

	if patch.IsDefault != nil {
		fields["is_default"] = *patch.IsDefault
	}
	if patch.IsAvailable != nil {
		fields["is_available"] = *patch.IsAvailable
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, ErrStockNegative
		}
		fields["stock"] = *patch.Stock
	}
	if patch.SortOrder != nil {
		fields["sort_order"] = *patch.SortOrder
	}

	if len(fields) == 0 {
		return o, nil
	}

	if err := s.repo.Options.UpdateFields(ctx, optionID, fields); err != nil {
		return nil, err
	}

	if g, err := s.repo.Groups.GetByID(ctx, o.OptionGroupID); err == nil && g != nil {
		s.invalidate(ctx, g.ProductID)
	}
	return s.repo.Options.GetByID(ctx, optionID)
}

func (s *catalogService) DeleteOption(ctx context.Context, optionID uuid.UUID) (*OptionCascadeResult, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	o, err := s.repo.Options.GetByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOptionNotFound
	}

	res := &OptionCascadeResult{}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		variantIDs, err := tx.Variants.ListIDsByOptionIDs(ctx, []uuid.UUID{optionID})
		if err != nil {
			return err
		}

		refs, err := tx.Items.CountByVariantIDs(ctx, variantIDs)
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrVariantReferenced
		}

		if res.VariantsDeleted, err = tx.Variants.DeleteByIDs(ctx, variantIDs); err != nil {
			return err
		}
		_, err = tx.Options.DeleteByIDs(ctx, []uuid.UUID{optionID})
		return err
	})
	if err != nil {
		return nil, err
	}

	if g, err := s.repo.Groups.GetByID(ctx, o.OptionGroupID); err == nil && g != nil {
		s.invalidate(ctx, g.ProductID)
	}
	return res, nil
}

func (s *catalogService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateProduct(ctx, productID)
	}
}
