package repository_test

import (
	"context"
	"testing"

	"github.com/HovVathana/shoppink-backend/internal/migrate"
	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"
	"github.com/HovVathana/shoppink-backend/pkg/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setupRepos(t *testing.T) *repository.Repository {
	db := testutil.SetupTestPostgres(t)

	// Запускаем миграцию явно в тесте
	if err := migrate.MigrateBackofficeDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return repository.New(db)
}

func TestProductRepo(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p := models.Product{Name: "T-Shirt", PriceCents: 1500, Quantity: 10, IsActive: true}
	if err := repos.Products.Create(ctx, &p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	got, err := repos.Products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("failed to get product: %v", err)
	}
	if got == nil || got.Name != "T-Shirt" {
		t.Fatalf("unexpected product: %+v", got)
	}

	// несуществующий id — (nil, nil), а не ошибка
	missing, err := repos.Products.GetByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing product, got (%v, %v)", missing, err)
	}

	if err := repos.Products.UpdateFields(ctx, p.ID, map[string]any{"name": "Hoodie"}); err != nil {
		t.Fatalf("failed to update product: %v", err)
	}

	list, total, err := repos.Products.List(ctx, repository.ProductListFilter{Query: "hood"})
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("expected 1 product, got total=%d len=%d", total, len(list))
	}
}

func TestProductAdjustQuantity(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p := models.Product{Name: "Plain", Quantity: 3, IsActive: true}
	if err := repos.Products.Create(ctx, &p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	ok, err := repos.Products.AdjustQuantity(ctx, p.ID, -2)
	if err != nil || !ok {
		t.Fatalf("expected deduct to succeed, got ok=%v err=%v", ok, err)
	}

	// остаток не может уйти в минус
	ok, err = repos.Products.AdjustQuantity(ctx, p.ID, -2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected deduct below zero to be rejected")
	}

	got, _ := repos.Products.GetByID(ctx, p.ID)
	if got.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", got.Quantity)
	}
}

func TestVariantRepo(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p := models.Product{Name: "T-Shirt", IsActive: true}
	if err := repos.Products.Create(ctx, &p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	g := models.OptionGroup{ProductID: p.ID, Name: "Size", Level: 1}
	if err := repos.Groups.Create(ctx, &g); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	o := models.Option{OptionGroupID: g.ID, Name: "S", IsAvailable: true}
	if err := repos.Options.Create(ctx, &o); err != nil {
		t.Fatalf("failed to create option: %v", err)
	}

	v := models.Variant{
		ProductID:  p.ID,
		Name:       "S",
		Stock:      5,
		OptionHash: "hash-s",
		IsActive:   true,
		Options:    []models.VariantOption{{OptionID: o.ID}},
	}
	if err := repos.Variants.Create(ctx, &v); err != nil {
		t.Fatalf("failed to create variant: %v", err)
	}

	// уникальность (product_id, option_hash)
	dup := models.Variant{ProductID: p.ID, Name: "dup", OptionHash: "hash-s", IsActive: true}
	if err := repos.Variants.Create(ctx, &dup); err == nil {
		t.Fatal("expected unique constraint error, got nil")
	}

	got, err := repos.Variants.GetByProductAndHash(ctx, p.ID, "hash-s")
	if err != nil || got == nil {
		t.Fatalf("failed to get variant by hash: %v", err)
	}
	if len(got.Options) != 1 || got.Options[0].OptionID != o.ID {
		t.Fatalf("expected preloaded variant options, got %+v", got.Options)
	}

	ids, err := repos.Variants.ListIDsByOptionIDs(ctx, []uuid.UUID{o.ID})
	if err != nil || len(ids) != 1 || ids[0] != v.ID {
		t.Fatalf("unexpected ListIDsByOptionIDs result: %v %v", ids, err)
	}

	ok, err := repos.Variants.AdjustStock(ctx, v.ID, -5)
	if err != nil || !ok {
		t.Fatalf("expected deduct to succeed, got ok=%v err=%v", ok, err)
	}
	ok, _ = repos.Variants.AdjustStock(ctx, v.ID, -1)
	if ok {
		t.Fatal("expected deduct below zero to be rejected")
	}
	ok, err = repos.Variants.AdjustStock(ctx, v.ID, 3)
	if err != nil || !ok {
		t.Fatalf("expected restore to succeed, got ok=%v err=%v", ok, err)
	}
}

func TestOrderRepo(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p := models.Product{Name: "Plain", Quantity: 10, IsActive: true}
	if err := repos.Products.Create(ctx, &p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	ord := models.Order{
		Code:       "ORD-20260828-000001",
		State:      models.OrderStatePlaced,
		Source:     models.OrderSourceAdmin,
		TotalCents: 3000,
	}
	if err := repos.Orders.Create(ctx, &ord); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	// коллизия кода — ошибка дубликата первичного ключа
	dup := models.Order{Code: ord.Code, State: models.OrderStatePlaced, Source: models.OrderSourceAdmin}
	if err := repos.Orders.Create(ctx, &dup); err == nil {
		t.Fatal("expected duplicated key error, got nil")
	}

	items := []models.OrderItem{
		{
			OrderCode:      ord.Code,
			ProductID:      p.ID,
			Quantity:       2,
			UnitPriceCents: 1500,
			LineTotalCents: 3000,
			OptionDetails:  models.OptionDetails{SelectedOptionIDs: []uuid.UUID{uuid.New()}},
		},
	}
	if err := repos.Items.BulkCreate(ctx, items); err != nil {
		t.Fatalf("failed to create order items: %v", err)
	}

	got, err := repos.Orders.GetByCode(ctx, ord.Code)
	if err != nil || got == nil {
		t.Fatalf("failed to get order: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected preloaded items, got %d", len(got.Items))
	}
	if len(got.Items[0].OptionDetails.SelectedOptionIDs) != 1 {
		t.Fatal("expected jsonb option details to round-trip")
	}

	if err := repos.Orders.UpdateState(ctx, ord.Code, models.OrderStateDelivering, nil); err != nil {
		t.Fatalf("failed to update state: %v", err)
	}
	got, _ = repos.Orders.GetByCode(ctx, ord.Code)
	if got.State != models.OrderStateDelivering {
		t.Fatalf("expected DELIVERING, got %s", got.State)
	}

	st := models.OrderStateDelivering
	list, total, err := repos.Orders.List(ctx, repository.OrderListFilter{State: &st})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("unexpected list result: total=%d len=%d err=%v", total, len(list), err)
	}
}

func TestWithTxRollback(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	p := models.Product{Name: "Plain", Quantity: 5, IsActive: true}
	if err := repos.Products.Create(ctx, &p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	wantErr := context.Canceled
	err := repos.WithTx(func(tx *repository.Repository) error {
		if ok, err := tx.Products.AdjustQuantity(ctx, p.ID, -5); err != nil || !ok {
			t.Fatalf("adjust inside tx failed: ok=%v err=%v", ok, err)
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected error to propagate, got %v", err)
	}

	got, _ := repos.Products.GetByID(ctx, p.ID)
	if got.Quantity != 5 {
		t.Fatalf("expected rollback to restore quantity 5, got %d", got.Quantity)
	}
}
