package repository

import (
	"context"
	"errors"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DriverRepo interface {
	Create(ctx context.Context, d *models.Driver) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	List(ctx context.Context, onlyActive *bool) ([]models.Driver, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type driverRepo struct{ db *gorm.DB }

func NewDriverRepo(db *gorm.DB) DriverRepo { return &driverRepo{db: db} }

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) error {
	return r.db.WithContext(ctx).Select("*").Create(d).Error
}

func (r *driverRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Driver{}).Where("id = ?", id).Updates(fields).Error
}

func (r *driverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var d models.Driver
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) List(ctx context.Context, onlyActive *bool) ([]models.Driver, error) {
	q := r.db.WithContext(ctx).Model(&models.Driver{})
	if onlyActive != nil {
		q = q.Where("is_active = ?", *onlyActive)
	}
	var list []models.Driver
	err := q.Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *driverRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Driver{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}
