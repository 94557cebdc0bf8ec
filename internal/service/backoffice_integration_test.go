package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/HovVathana/shoppink-backend/internal/migrate"
	"github.com/HovVathana/shoppink-backend/internal/models"
	"github.com/HovVathana/shoppink-backend/internal/repository"
	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	repos    *repository.Repository
	products service.ProductService
	catalog  service.CatalogService
	variants service.VariantService
	stock    service.StockService
	orders   service.OrderService
	drivers  service.DriverService
}

func setupEnv(t *testing.T) (*env, context.Context) {
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateBackofficeDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	repos := repository.New(db)
	log := zap.NewNop()

	e := &env{
		repos:    repos,
		products: service.NewProductService(repos, nil),
		catalog:  service.NewCatalogService(repos, nil),
		variants: service.NewVariantService(repos, nil, log),
		stock:    service.NewStockService(repos, nil, log),
		orders:   service.NewOrderService(repos, nil, log),
		drivers:  service.NewDriverService(repos),
	}

	ctx := service.WithUserID(context.Background(), uuid.New())
	ctx = service.WithRole(ctx, service.RoleAdmin)
	return e, ctx
}

// buildTShirt собирает каталог Size{S,M,L} x Color{Red,Blue} и генерирует 6 вариантов.
func buildTShirt(t *testing.T, e *env, ctx context.Context) (*models.Product, map[string]uuid.UUID) {
	p, err := e.products.CreateProduct(ctx, service.ProductInput{Name: "T-Shirt", PriceCents: 1500})
	require.NoError(t, err)

	size, err := e.catalog.CreateGroup(ctx, p.ID, service.GroupInput{Name: "Size", SelectionType: models.SelectionSingle})
	require.NoError(t, err)
	color, err := e.catalog.CreateGroup(ctx, p.ID, service.GroupInput{Name: "Color", SelectionType: models.SelectionSingle})
	require.NoError(t, err)

	opts := map[string]uuid.UUID{}
	for _, name := range []string{"S", "M", "L"} {
		o, err := e.catalog.CreateOption(ctx, size.ID, service.OptionInput{Name: name, PriceType: models.PriceFree, IsAvailable: true})
		require.NoError(t, err)
		opts[name] = o.ID
	}
	for _, name := range []string{"Red", "Blue"} {
		o, err := e.catalog.CreateOption(ctx, color.ID, service.OptionInput{Name: name, PriceType: models.PriceFree, IsAvailable: true})
		require.NoError(t, err)
		opts[name] = o.ID
	}

	res, err := e.variants.GenerateVariants(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, res.Created, 6)

	return p, opts
}

func TestGenerateVariantsIdempotent(t *testing.T) {
	e, ctx := setupEnv(t)
	p, _ := buildTShirt(t, e, ctx)

	res, err := e.variants.GenerateVariants(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Len(t, res.Skipped, 6)

	list, err := e.variants.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

// Полный цикл заказа: PLACED -> DELIVERING списывает остаток варианта,
// DELIVERING -> RETURNED возвращает, COMPLETED остатки не трогает.
func TestOrderLifecycleStockTransitions(t *testing.T) {
	e, ctx := setupEnv(t)
	p, opts := buildTShirt(t, e, ctx)

	sRed, err := e.variants.ResolveVariant(ctx, p.ID, []uuid.UUID{opts["S"], opts["Red"]})
	require.NoError(t, err)
	require.NotNil(t, sRed)

	_, err = e.variants.UpdateVariantStock(ctx, sRed.ID, 10)
	require.NoError(t, err)

	ord, err := e.orders.CreateOrder(ctx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items: []service.CreateOrderItem{
			{ProductID: p.ID, Quantity: 3, SelectedOptionIDs: []uuid.UUID{opts["S"], opts["Red"]}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatePlaced, ord.State)
	assert.Equal(t, int64(4500), ord.TotalCents)
	require.Len(t, ord.Items, 1)
	require.NotNil(t, ord.Items[0].VariantID)
	assert.Equal(t, sRed.ID, *ord.Items[0].VariantID)

	// PLACED -> DELIVERING: списание
	ord, err = e.orders.ApplyStockTransition(ctx, ord.Code, models.OrderStateDelivering)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStateDelivering, ord.State)

	v, _ := e.repos.Variants.GetByID(ctx, sRed.ID)
	assert.Equal(t, int32(7), v.Stock)

	// DELIVERING -> RETURNED: возврат
	ord, err = e.orders.ApplyStockTransition(ctx, ord.Code, models.OrderStateReturned)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStateReturned, ord.State)

	v, _ = e.repos.Variants.GetByID(ctx, sRed.ID)
	assert.Equal(t, int32(10), v.Stock)

	// RETURNED -> COMPLETED: остатки не меняются, ставится completed_at
	ord, err = e.orders.ApplyStockTransition(ctx, ord.Code, models.OrderStateCompleted)
	require.NoError(t, err)
	assert.NotNil(t, ord.CompletedAt)

	v, _ = e.repos.Variants.GetByID(ctx, sRed.ID)
	assert.Equal(t, int32(10), v.Stock)
}

// Недостаточный остаток: переход падает целиком, состояние и остатки не меняются.
func TestTransitionInsufficientStockRollsBack(t *testing.T) {
	e, ctx := setupEnv(t)
	p, opts := buildTShirt(t, e, ctx)

	sRed, err := e.variants.ResolveVariant(ctx, p.ID, []uuid.UUID{opts["S"], opts["Red"]})
	require.NoError(t, err)
	_, err = e.variants.UpdateVariantStock(ctx, sRed.ID, 2)
	require.NoError(t, err)

	ord, err := e.orders.CreateOrder(ctx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items: []service.CreateOrderItem{
			{ProductID: p.ID, Quantity: 5, SelectedOptionIDs: []uuid.UUID{opts["S"], opts["Red"]}},
		},
	})
	require.NoError(t, err)

	val, err := e.orders.ValidateStockForOrder(ctx, ord.Code)
	require.NoError(t, err)
	assert.False(t, val.IsValid)
	require.Len(t, val.Results, 1)
	assert.Equal(t, int32(2), val.Results[0].AvailableStock)

	_, err = e.orders.ApplyStockTransition(ctx, ord.Code, models.OrderStateDelivering)
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	got, err := e.orders.GetOrder(ctx, ord.Code)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatePlaced, got.State)

	v, _ := e.repos.Variants.GetByID(ctx, sRed.ID)
	assert.Equal(t, int32(2), v.Stock)
}

// Назначение водителя переводит в DELIVERING и списывает ровно один раз.
func TestAssignDriverDeductsOnce(t *testing.T) {
	e, ctx := setupEnv(t)
	p, opts := buildTShirt(t, e, ctx)

	sRed, err := e.variants.ResolveVariant(ctx, p.ID, []uuid.UUID{opts["S"], opts["Red"]})
	require.NoError(t, err)
	_, err = e.variants.UpdateVariantStock(ctx, sRed.ID, 10)
	require.NoError(t, err)

	d1, err := e.drivers.CreateDriver(ctx, service.DriverInput{Name: "Ivan"})
	require.NoError(t, err)
	d2, err := e.drivers.CreateDriver(ctx, service.DriverInput{Name: "Petr"})
	require.NoError(t, err)

	ord, err := e.orders.CreateOrder(ctx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items: []service.CreateOrderItem{
			{ProductID: p.ID, Quantity: 2, SelectedOptionIDs: []uuid.UUID{opts["S"], opts["Red"]}},
		},
	})
	require.NoError(t, err)

	ord, err = e.orders.AssignDriver(ctx, ord.Code, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStateDelivering, ord.State)
	require.NotNil(t, ord.DriverID)
	assert.Equal(t, d1.ID, *ord.DriverID)
	assert.NotNil(t, ord.AssignedAt)

	v, _ := e.repos.Variants.GetByID(ctx, sRed.ID)
	assert.Equal(t, int32(8), v.Stock)

	// переназначение: состояние то же, повторного списания нет
	ord, err = e.orders.AssignDriver(ctx, ord.Code, d2.ID)
	require.NoError(t, err)
	assert.Equal(t, d2.ID, *ord.DriverID)

	v, _ = e.repos.Variants.GetByID(ctx, sRed.ID)
	assert.Equal(t, int32(8), v.Stock)
}

// Товар без опций: списание идёт с плоского quantity.
func TestFlatProductStockFallback(t *testing.T) {
	e, ctx := setupEnv(t)

	p, err := e.products.CreateProduct(ctx, service.ProductInput{Name: "Plain", PriceCents: 500, Quantity: 4})
	require.NoError(t, err)

	ord, err := e.orders.CreateOrder(ctx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items:  []service.CreateOrderItem{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Nil(t, ord.Items[0].VariantID)

	_, err = e.orders.ApplyStockTransition(ctx, ord.Code, models.OrderStateDelivering)
	require.NoError(t, err)

	got, _ := e.repos.Products.GetByID(ctx, p.ID)
	assert.Equal(t, int32(1), got.Quantity)
}

// Каскадное удаление группы: затронутые варианты в заказах блокируют
// удаление целиком, ничего не удаляется.
func TestDeleteGroupBlockedByOrders(t *testing.T) {
	e, ctx := setupEnv(t)
	p, opts := buildTShirt(t, e, ctx)

	ord, err := e.orders.CreateOrder(ctx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items: []service.CreateOrderItem{
			{ProductID: p.ID, Quantity: 1, SelectedOptionIDs: []uuid.UUID{opts["S"], opts["Red"]}},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, ord.Items[0].VariantID)

	groups, err := e.catalog.ListGroups(ctx, p.ID)
	require.NoError(t, err)
	var sizeGroup *models.OptionGroup
	for i := range groups {
		if groups[i].Name == "Size" {
			sizeGroup = &groups[i]
		}
	}
	require.NotNil(t, sizeGroup)

	_, err = e.catalog.DeleteGroup(ctx, sizeGroup.ID)
	require.True(t, errors.Is(err, service.ErrVariantReferenced))

	// ничего не удалено
	after, err := e.catalog.ListGroups(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(groups))
	list, err := e.variants.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

// Каскад без блокировки: удаление группы сносит дочерние группы, опции и варианты.
func TestDeleteGroupCascade(t *testing.T) {
	e, ctx := setupEnv(t)
	p, _ := buildTShirt(t, e, ctx)

	groups, err := e.catalog.ListGroups(ctx, p.ID)
	require.NoError(t, err)
	var sizeGroup *models.OptionGroup
	for i := range groups {
		if groups[i].Name == "Size" {
			sizeGroup = &groups[i]
		}
	}
	require.NotNil(t, sizeGroup)

	res, err := e.catalog.DeleteGroup(ctx, sizeGroup.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.GroupsDeleted)
	assert.Equal(t, int64(3), res.OptionsDeleted)
	assert.Equal(t, int64(6), res.VariantsDeleted)

	list, err := e.variants.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Иерархическое дерево остатков и сводка.
func TestStockTreeAndSummary(t *testing.T) {
	e, ctx := setupEnv(t)
	p, opts := buildTShirt(t, e, ctx)

	sRed, err := e.variants.ResolveVariant(ctx, p.ID, []uuid.UUID{opts["S"], opts["Red"]})
	require.NoError(t, err)
	_, err = e.variants.UpdateVariantStock(ctx, sRed.ID, 10)
	require.NoError(t, err)

	summary, err := e.stock.GetStockSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), summary.TotalVariants)
	assert.Equal(t, int64(10), summary.TotalStock)
	// 5 вариантов с нулевым остатком
	assert.Len(t, summary.OutOfStock, 5)

	tree, err := e.stock.GetHierarchicalStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, tree.ProductID)
	require.Len(t, tree.Nodes, 2)

	// Дерево и сводка видят один и тот же остаток: весь запас в S-Red
	assert.Equal(t, summary.TotalStock, tree.TotalStock)
	for _, root := range tree.Nodes {
		for _, opt := range root.Children {
			switch opt.Name {
			case "S", "Red":
				assert.Equal(t, int64(10), opt.Stock)
			default:
				assert.Equal(t, int64(0), opt.Stock)
			}
		}
	}
}

// Смена типа цены требует явного значения: старые центы нельзя молча
// трактовать как проценты.
func TestUpdateOptionPriceTypeNeedsValue(t *testing.T) {
	e, ctx := setupEnv(t)

	p, err := e.products.CreateProduct(ctx, service.ProductInput{Name: "Pizza", PriceCents: 2000})
	require.NoError(t, err)
	g, err := e.catalog.CreateGroup(ctx, p.ID, service.GroupInput{Name: "Topping", SelectionType: models.SelectionMultiple})
	require.NoError(t, err)
	o, err := e.catalog.CreateOption(ctx, g.ID, service.OptionInput{Name: "Cheese", PriceType: models.PriceFree, IsAvailable: true})
	require.NoError(t, err)

	fixed := models.PriceFixed
	_, err = e.catalog.UpdateOption(ctx, o.ID, service.OptionPatch{PriceType: &fixed})
	require.ErrorIs(t, err, service.ErrPriceValueRequired)

	val := int64(300)
	upd, err := e.catalog.UpdateOption(ctx, o.ID, service.OptionPatch{PriceType: &fixed, PriceValue: &val})
	require.NoError(t, err)
	assert.Equal(t, models.PriceFixed, upd.PriceType)
	assert.Equal(t, int64(300), upd.PriceValue)

	// Возврат в FREE обнуляет значение без явного ввода
	free := models.PriceFree
	upd, err = e.catalog.UpdateOption(ctx, o.ID, service.OptionPatch{PriceType: &free})
	require.NoError(t, err)
	assert.Equal(t, int64(0), upd.PriceValue)
}

// Каталог на остатках опций (без вариантов): сводка, дерево и списания
// движка смотрят на одни и те же строки опций.
func TestOptionStockSummaryMatchesTree(t *testing.T) {
	e, ctx := setupEnv(t)

	p, err := e.products.CreateProduct(ctx, service.ProductInput{Name: "Drink", PriceCents: 500})
	require.NoError(t, err)

	flavor, err := e.catalog.CreateGroup(ctx, p.ID, service.GroupInput{Name: "Flavor", SelectionType: models.SelectionSingle})
	require.NoError(t, err)

	cola, err := e.catalog.CreateOption(ctx, flavor.ID, service.OptionInput{Name: "Cola", PriceType: models.PriceFree, IsAvailable: true, Stock: 5})
	require.NoError(t, err)
	_, err = e.catalog.CreateOption(ctx, flavor.ID, service.OptionInput{Name: "Lemon", PriceType: models.PriceFree, IsAvailable: true, Stock: 2})
	require.NoError(t, err)

	summary, err := e.stock.GetStockSummary(ctx, p.ID)
	require.NoError(t, err)
	tree, err := e.stock.GetHierarchicalStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.TotalStock)
	assert.Equal(t, int64(7), tree.TotalStock)

	ord, err := e.orders.CreateOrder(ctx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items: []service.CreateOrderItem{
			{ProductID: p.ID, Quantity: 2, SelectedOptionIDs: []uuid.UUID{cola.ID}},
		},
	})
	require.NoError(t, err)
	require.Nil(t, ord.Items[0].VariantID)

	_, err = e.orders.ApplyStockTransition(ctx, ord.Code, models.OrderStateDelivering)
	require.NoError(t, err)

	o, _ := e.repos.Options.GetByID(ctx, cola.ID)
	assert.Equal(t, int32(3), o.Stock)

	summary, err = e.stock.GetStockSummary(ctx, p.ID)
	require.NoError(t, err)
	tree, err = e.stock.GetHierarchicalStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.TotalStock)
	assert.Equal(t, int64(5), tree.TotalStock)
}

// Роли: не-админ не может управлять каталогом, покупатель видит только свои заказы.
func TestRoleEnforcement(t *testing.T) {
	e, adminCtx := setupEnv(t)
	p, _ := buildTShirt(t, e, adminCtx)

	custCtx := service.WithUserID(context.Background(), uuid.New())
	custCtx = service.WithRole(custCtx, service.RoleCustomer)

	_, err := e.products.CreateProduct(custCtx, service.ProductInput{Name: "X"})
	require.ErrorIs(t, err, service.ErrForbidden)

	_, err = e.orders.CreateOrder(custCtx, service.CreateOrderInput{
		Source: models.OrderSourceAdmin,
		Items:  []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, service.ErrForbidden)

	ord, err := e.orders.CreateOrder(custCtx, service.CreateOrderInput{
		Source: models.OrderSourceCustomer,
		Items:  []service.CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, ord.CustomerID)

	otherCtx := service.WithUserID(context.Background(), uuid.New())
	otherCtx = service.WithRole(otherCtx, service.RoleCustomer)
	_, err = e.orders.GetOrder(otherCtx, ord.Code)
	require.ErrorIs(t, err, service.ErrForbidden)

	// админ видит любой заказ
	_, err = e.orders.GetOrder(adminCtx, ord.Code)
	require.NoError(t, err)
}
