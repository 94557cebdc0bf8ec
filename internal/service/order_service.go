package service

import (
	"context"
	"errors"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderService struct {
	repo   *repository.Repository
	events EventBus
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderService(repo *repository.Repository, events EventBus, log *zap.Logger) OrderService {
	return &orderService{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	switch in.Source {
	case models.OrderSourceAdmin:
		if role != RoleAdmin {
			return nil, ErrForbidden
		}
	case models.OrderSourceCustomer:
		customerID = &uid
	default:
		return nil, ErrInvalidState
	}

	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}

	now := s.now()
	var (
		itemsDB []models.OrderItem
		total   int64
	)

	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, ErrQuantityInvalid
		}

		p, err := s.repo.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
		if !p.IsActive {
			return nil, ErrInactiveProduct
		}

		// Цена фиксируется на момент создания: база + надбавка варианта.
		// Разрешённый вариант сохраняется как прямая ссылка на бакет остатков.
		unit := p.PriceCents
		var variantID *uuid.UUID
		if len(it.SelectedOptionIDs) > 0 {
			variants, err := s.repo.Variants.ListByProduct(ctx, it.ProductID)
			if err != nil {
				return nil, err
			}
			if v := MatchVariant(variants, it.SelectedOptionIDs); v != nil {
				unit += v.PriceAdjustmentCents
				variantID = &v.ID
			}
		}

		line := int64(it.Quantity) * unit
		total += line

		itemsDB = append(itemsDB, models.OrderItem{
			ProductID:      it.ProductID,
			VariantID:      variantID,
			Quantity:       it.Quantity,
			UnitPriceCents: unit,
			LineTotalCents: line,
			OptionDetails: models.OptionDetails{
				VariantID:         variantID,
				SelectedOptionIDs: it.SelectedOptionIDs,
			},
			CreatedAt: now,
		})
	}

	ord, err := s.createWithRetry(ctx, in.Source, customerID, total, itemsDB, now)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		evItems := make([]OrderItemEvent, 0, len(ord.Items))
		for _, it := range ord.Items {
			evItems = append(evItems, OrderItemEvent{
				ProductID:  it.ProductID,
				VariantID:  it.VariantID,
				Quantity:   it.Quantity,
				PriceCents: it.UnitPriceCents,
				LineTotal:  it.LineTotalCents,
			})
		}
		_ = s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
			OrderCode:  ord.Code,
			Source:     ord.Source,
			Items:      evItems,
			TotalCents: ord.TotalCents,
			CreatedAt:  ord.CreatedAt,
		})
	}

	return ord, nil
}

// createWithRetry — единственное транзиентно-повторяемое место: коллизия
// человекочитаемого кода повторяет вставку со свежим кодом, ограниченно.
func (s *orderService) createWithRetry(ctx context.Context, source models.OrderSource, customerID *uuid.UUID, total int64, items []models.OrderItem, now time.Time) (*models.Order, error) {
	for attempt := 0; attempt < orderCodeRetries; attempt++ {
		code, err := newOrderCode(now)
		if err != nil {
			return nil, err
		}

		ord := &models.Order{
			Code:       code,
			State:      models.OrderStatePlaced,
			Source:     source,
			CustomerID: customerID,
			TotalCents: total,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err = s.repo.WithTx(func(tx *repository.Repository) error {
			if err := tx.Orders.Create(ctx, ord); err != nil {
				return err
			}
			rows := make([]models.OrderItem, len(items))
			copy(rows, items)
			for i := range rows {
				rows[i].OrderCode = code
			}
			if err := tx.Items.BulkCreate(ctx, rows); err != nil {
				return err
			}
			ord.Items = rows
			return nil
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("Коллизия кода заказа, пробуем ещё раз", zap.String("code", code), zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}
		return ord, nil
	}
	return nil, ErrOrderCodeExhausted
}

func (s *orderService) GetOrder(ctx context.Context, code string) (*models.Order, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	switch role {
	case RoleAdmin:
	case RoleDriver:
		if ord.DriverID == nil || *ord.DriverID != uid {
			return nil, ErrForbidden
		}
	default:
		if ord.CustomerID == nil || *ord.CustomerID != uid {
			return nil, ErrForbidden
		}
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	switch role {
	case RoleAdmin:
	case RoleDriver:
		f.DriverID = &uid
	default:
		f.CustomerID = &uid
	}

	return s.repo.Orders.List(ctx, toRepoOrderFilter(f))
}

// adjustItemStock двигает остаток одной строки заказа на delta.
// Бакет: сохранённый вариант → повторный матчинг по сырому выбору →
// собственный остаток выбранных опций (товар без вариантов) → товар.
func (s *orderService) adjustItemStock(ctx context.Context, tx *repository.Repository, item models.OrderItem, delta int32) error {
	variantID := item.VariantID
	if variantID == nil && item.OptionDetails.VariantID != nil {
		variantID = item.OptionDetails.VariantID
	}
	if variantID == nil && len(item.OptionDetails.SelectedOptionIDs) > 0 {
		variants, err := tx.Variants.ListByProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if len(variants) == 0 {
			// Двухуровневый каталог без вариантов: остаток живёт на опциях
			for _, oid := range item.OptionDetails.SelectedOptionIDs {
				ok, err := tx.Options.AdjustStock(ctx, oid, delta)
				if err != nil {
					return err
				}
				if !ok {
					return ErrInsufficientStock
				}
			}
			return nil
		}
		if v := MatchVariant(variants, item.OptionDetails.SelectedOptionIDs); v != nil {
			variantID = &v.ID
		}
	}

	if variantID != nil {
		ok, err := tx.Variants.AdjustStock(ctx, *variantID, delta)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}
		return nil
	}

	// Вариант не разрешился — плоский остаток товара
	ok, err := tx.Products.AdjustQuantity(ctx, item.ProductID, delta)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientStock
	}
	return nil
}

// applyTransitionTx — ядро движка: смена состояния и двигание остатков
// в одной транзакции. Любая ошибка откатывает и состояние, и остатки.
func (s *orderService) applyTransitionTx(ctx context.Context, tx *repository.Repository, ord *models.Order, to models.OrderState, now time.Time) error {
	eff := stockEffect(ord.State, to)
	if eff != 0 {
		for _, item := range ord.Items {
			if err := s.adjustItemStock(ctx, tx, item, eff*item.Quantity); err != nil {
				return err
			}
		}
	}

	fields := map[string]any{}
	if to == models.OrderStateCompleted && ord.CompletedAt == nil {
		fields["completed_at"] = now
	}
	return tx.Orders.UpdateState(ctx, ord.Code, to, fields)
}

func (s *orderService) ApplyStockTransition(ctx context.Context, code string, toState models.OrderState) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !toState.Valid() {
		return nil, ErrInvalidState
	}

	ord, err := s.repo.Orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	from := ord.State
	now := s.now()

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		return s.applyTransitionTx(ctx, tx, ord, toState, now)
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil && from != toState {
		_ = s.events.PublishOrderStateChanged(ctx, OrderStateChangedEvent{
			OrderCode: code,
			FromState: from,
			ToState:   toState,
			ChangedAt: now,
		})
	}

	return s.repo.Orders.GetByCode(ctx, code)
}

func (s *orderService) AssignDriver(ctx context.Context, code string, driverID uuid.UUID) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	d, err := s.repo.Drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}
	if !d.IsActive {
		return nil, ErrInactiveDriver
	}

	ord, err := s.repo.Orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	from := ord.State
	now := s.now()

	// Назначение водителя переводит заказ в DELIVERING; переназначение
	// повторяет то же состояние и остатков не касается
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Orders.AssignDriver(ctx, code, driverID, now); err != nil {
			return err
		}
		return s.applyTransitionTx(ctx, tx, ord, models.OrderStateDelivering, now)
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishDriverAssigned(ctx, DriverAssignedEvent{
			OrderCode:  code,
			DriverID:   driverID,
			AssignedAt: now,
		})
		if from != models.OrderStateDelivering {
			_ = s.events.PublishOrderStateChanged(ctx, OrderStateChangedEvent{
				OrderCode: code,
				FromState: from,
				ToState:   models.OrderStateDelivering,
				ChangedAt: now,
			})
		}
	}

	return s.repo.Orders.GetByCode(ctx, code)
}

// ValidateStockForOrder — dry-run списания: одна сводка по всем строкам,
// чтобы вызывающий показал совокупную ошибку до перехода в DELIVERING.
func (s *orderService) ValidateStockForOrder(ctx context.Context, code string) (*StockValidation, error) {
	if _, _, err := requireAuth(ctx); err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	out := &StockValidation{
		OrderCode: code,
		IsValid:   true,
		Results:   make([]StockCheckResult, 0, len(ord.Items)),
	}

	for _, item := range ord.Items {
		res := StockCheckResult{
			ProductID:         item.ProductID,
			RequestedQuantity: item.Quantity,
		}

		variantID := item.VariantID
		if variantID == nil && item.OptionDetails.VariantID != nil {
			variantID = item.OptionDetails.VariantID
		}
		optionBucket := false
		if variantID == nil && len(item.OptionDetails.SelectedOptionIDs) > 0 {
			variants, err := s.repo.Variants.ListByProduct(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			if len(variants) == 0 {
				// Бакет — сами опции: доступен минимум по выбранным
				min := int32(0)
				for i, oid := range item.OptionDetails.SelectedOptionIDs {
					o, err := s.repo.Options.GetByID(ctx, oid)
					if err != nil {
						return nil, err
					}
					if o == nil {
						return nil, ErrOptionNotFound
					}
					if i == 0 || o.Stock < min {
						min = o.Stock
					}
				}
				res.AvailableStock = min
				optionBucket = true
			} else if v := MatchVariant(variants, item.OptionDetails.SelectedOptionIDs); v != nil {
				variantID = &v.ID
			}
		}

		if optionBucket {
			// доступность уже посчитана
		} else if variantID != nil {
			v, err := s.repo.Variants.GetByID(ctx, *variantID)
			if err != nil {
				return nil, err
			}
			if v == nil {
				return nil, ErrVariantNotFound
			}
			res.VariantID = variantID
			res.AvailableStock = v.Stock
		} else {
			p, err := s.repo.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, ErrProductNotFound
			}
			res.AvailableStock = p.Quantity
		}

		res.IsValid = res.AvailableStock >= item.Quantity
		if !res.IsValid {
			out.IsValid = false
		}
		out.Results = append(out.Results, res)
	}

	return out, nil
}
