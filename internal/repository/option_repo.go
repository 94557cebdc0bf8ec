package repository

import (
	"context"
	"errors"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OptionGroupRepo interface {
	Create(ctx context.Context, g *models.OptionGroup) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OptionGroup, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.OptionGroup, error)
	// ListByParentIDs — один шаг замыкания parent-child (для каскада и поиска потомков)
	ListByParentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]models.OptionGroup, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type optionGroupRepo struct{ db *gorm.DB }

func NewOptionGroupRepo(db *gorm.DB) OptionGroupRepo { return &optionGroupRepo{db: db} }

func (r *optionGroupRepo) Create(ctx context.Context, g *models.OptionGroup) error {
	return r.db.WithContext(ctx).Select("*").Create(g).Error
}

func (r *optionGroupRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.OptionGroup{}).Where("id = ?", id).Updates(fields).Error
}

func (r *optionGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OptionGroup, error) {
	var g models.OptionGroup
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *optionGroupRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.OptionGroup, error) {
	var list []models.OptionGroup
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("level ASC, sort_order ASC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *optionGroupRepo) ListByParentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]models.OptionGroup, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var list []models.OptionGroup
	err := r.db.WithContext(ctx).
		Where("parent_group_id IN ?", parentIDs).
		Order("sort_order ASC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *optionGroupRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OptionGroup{}).Where("product_id = ?", productID).Count(&cnt).Error
	return cnt, err
}

func (r *optionGroupRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Delete(&models.OptionGroup{}, "id IN ?", ids)
	return tx.RowsAffected, tx.Error
}

type OptionRepo interface {
	Create(ctx context.Context, o *models.Option) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Option, error)
	ListByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) ([]models.Option, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	DeleteByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) (int64, error)

	// AdjustStock: атомарный сдвиг остатка опции (плоские каталоги без вариантов)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error)
}

type optionRepo struct{ db *gorm.DB }

func NewOptionRepo(db *gorm.DB) OptionRepo { return &optionRepo{db: db} }

func (r *optionRepo) Create(ctx context.Context, o *models.Option) error {
	return r.db.WithContext(ctx).Select("*").Create(o).Error
}

func (r *optionRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Option{}).Where("id = ?", id).Updates(fields).Error
}

func (r *optionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Option, error) {
	var o models.Option
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *optionRepo) ListByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) ([]models.Option, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	var list []models.Option
	err := r.db.WithContext(ctx).
		Where("option_group_id IN ?", groupIDs).
		Order("sort_order ASC, created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *optionRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Delete(&models.Option{}, "id IN ?", ids)
	return tx.RowsAffected, tx.Error
}

func (r *optionRepo) DeleteByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) (int64, error) {
	if len(groupIDs) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Delete(&models.Option{}, "option_group_id IN ?", groupIDs)
	return tx.RowsAffected, tx.Error
}

func (r *optionRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE options
SET stock = stock + @delta,
    updated_at = now()
WHERE id = @oid
  AND stock + @delta >= 0
`, map[string]any{
		"oid":   id,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}
