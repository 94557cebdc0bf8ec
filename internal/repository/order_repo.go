package repository

import (
	"context"
	"errors"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	State      *models.OrderState
	Source     *models.OrderSource
	DriverID   *uuid.UUID
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByCode(ctx context.Context, code string) (*models.Order, error)
	UpdateState(ctx context.Context, code string, state models.OrderState, fields map[string]any) error
	AssignDriver(ctx context.Context, code string, driverID uuid.UUID, assignedAt time.Time) error
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByCode(ctx context.Context, code string) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) UpdateState(ctx context.Context, code string, state models.OrderState, fields map[string]any) error {
	upd := map[string]any{"state": state}
	for k, v := range fields {
		upd[k] = v
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("code = ?", code).Updates(upd).Error
}

func (r *orderRepo) AssignDriver(ctx context.Context, code string, driverID uuid.UUID, assignedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("code = ?", code).Updates(map[string]any{
		"driver_id":   driverID,
		"assigned_at": assignedAt,
	}).Error
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.State != nil {
		q = q.Where("state = ?", *f.State)
	}
	if f.Source != nil {
		q = q.Where("source = ?", *f.Source)
	}
	if f.DriverID != nil {
		q = q.Where("driver_id = ?", *f.DriverID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Items").Find(&list).Error
	return list, total, err
}

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	// CountByVariantIDs — сколько строк заказов держат хотя бы один из вариантов
	CountByVariantIDs(ctx context.Context, variantIDs []uuid.UUID) (int64, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepo) CountByVariantIDs(ctx context.Context, variantIDs []uuid.UUID) (int64, error) {
	if len(variantIDs) == 0 {
		return 0, nil
	}
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("variant_id IN ?", variantIDs).
		Count(&cnt).Error
	return cnt, err
}
