package repository

import (
	"context"
	"errors"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariantRepo interface {
	// Create создаёт вариант вместе со строками variant_options
	Create(ctx context.Context, v *models.Variant) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	GetByProductAndHash(ctx context.Context, productID uuid.UUID, hash string) (*models.Variant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Variant, error)
	// ListIDsByOptionIDs — id вариантов, содержащих хотя бы одну из опций
	ListIDsByOptionIDs(ctx context.Context, optionIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)

	SetStock(ctx context.Context, id uuid.UUID, stock int32) (bool, error)
	// AdjustStock: атомарно, false если остаток ушёл бы в минус
	AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepo(db *gorm.DB) VariantRepo { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *models.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *variantRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Variant{}).Where("id = ?", id).Updates(fields).Error
}

func (r *variantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var v models.Variant
	err := r.db.WithContext(ctx).Preload("Options").First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *variantRepo) GetByProductAndHash(ctx context.Context, productID uuid.UUID, hash string) (*models.Variant, error) {
	var v models.Variant
	err := r.db.WithContext(ctx).Preload("Options").
		Where("product_id = ? AND option_hash = ?", productID, hash).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *variantRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Variant, error) {
	var list []models.Variant
	err := r.db.WithContext(ctx).Preload("Options").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *variantRepo) ListIDsByOptionIDs(ctx context.Context, optionIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.VariantOption{}).
		Distinct("variant_id").
		Where("option_id IN ?", optionIDs).
		Pluck("variant_id", &ids).Error
	return ids, err
}

func (r *variantRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Delete(&models.Variant{}, "id IN ?", ids)
	return tx.RowsAffected, tx.Error
}

func (r *variantRepo) SetStock(ctx context.Context, id uuid.UUID, stock int32) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Variant{}).Where("id = ?", id).Update("stock", stock)
	return tx.RowsAffected > 0, tx.Error
}

func (r *variantRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE variants
SET stock = stock + @delta,
    updated_at = now()
WHERE id = @vid
  AND stock + @delta >= 0
`, map[string]any{
		"vid":   id,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}
