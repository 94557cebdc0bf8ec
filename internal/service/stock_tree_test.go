package service

import (
	"testing"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Дерево из двух корней Size{S,M} x Color{Red,Blue}: остатки живут
// в вариантах, листом считается путь от корня до самой глубокой группы.
func TestBuildStockTreeTwoRoots(t *testing.T) {
	p := &models.Product{ID: uuid.New(), Name: "T-Shirt", HasOptions: true}

	sizeID, colorID := uuid.New(), uuid.New()
	groups := []models.OptionGroup{
		{ID: sizeID, ProductID: p.ID, Name: "Size", Level: 1},
		{ID: colorID, ProductID: p.ID, Name: "Color", Level: 1},
	}

	s := models.Option{ID: uuid.New(), OptionGroupID: sizeID, Name: "S"}
	m := models.Option{ID: uuid.New(), OptionGroupID: colorID, Name: "Red"}
	optionsByGroup := map[uuid.UUID][]models.Option{
		sizeID:  {s},
		colorID: {m},
	}

	variants := []models.Variant{
		{
			ID:         uuid.New(),
			ProductID:  p.ID,
			Name:       "S",
			Stock:      10,
			IsActive:   true,
			OptionHash: OptionHash([]uuid.UUID{s.ID}),
			Options:    []models.VariantOption{{OptionID: s.ID}},
		},
		{
			ID:         uuid.New(),
			ProductID:  p.ID,
			Name:       "Red",
			Stock:      4,
			IsActive:   true,
			OptionHash: OptionHash([]uuid.UUID{m.ID}),
			Options:    []models.VariantOption{{OptionID: m.ID}},
		},
	}

	tree := BuildStockTree(p, groups, optionsByGroup, variants)
	require.Len(t, tree.Nodes, 2)
	assert.Equal(t, int64(10), tree.Nodes[0].Stock)
	assert.Equal(t, int64(4), tree.Nodes[1].Stock)
	assert.Equal(t, int64(14), tree.TotalStock)
}

// Вложенное дерево: остаток родительского узла равен сумме листьев,
// итог по товару — сумма только корневых узлов (без двойного счёта).
func TestBuildStockTreeNestedNoDoubleCount(t *testing.T) {
	p := &models.Product{ID: uuid.New(), Name: "Combo", HasOptions: true}

	rootID, childID := uuid.New(), uuid.New()
	groups := []models.OptionGroup{
		{ID: rootID, ProductID: p.ID, Name: "Meal", Level: 1, IsParent: true},
		{ID: childID, ProductID: p.ID, Name: "Side", Level: 2, ParentGroupID: &rootID},
	}

	combo := models.Option{ID: uuid.New(), OptionGroupID: rootID, Name: "Combo"}
	fries := models.Option{ID: uuid.New(), OptionGroupID: childID, Name: "Fries"}
	rice := models.Option{ID: uuid.New(), OptionGroupID: childID, Name: "Rice"}
	optionsByGroup := map[uuid.UUID][]models.Option{
		rootID:  {combo},
		childID: {fries, rice},
	}

	variants := []models.Variant{
		{
			ID: uuid.New(), ProductID: p.ID, Stock: 7, IsActive: true,
			OptionHash: OptionHash([]uuid.UUID{combo.ID, fries.ID}),
			Options:    []models.VariantOption{{OptionID: combo.ID}, {OptionID: fries.ID}},
		},
		{
			ID: uuid.New(), ProductID: p.ID, Stock: 3, IsActive: true,
			OptionHash: OptionHash([]uuid.UUID{combo.ID, rice.ID}),
			Options:    []models.VariantOption{{OptionID: combo.ID}, {OptionID: rice.ID}},
		},
	}

	tree := BuildStockTree(p, groups, optionsByGroup, variants)
	require.Len(t, tree.Nodes, 1)

	root := tree.Nodes[0]
	require.Len(t, root.Children, 1)
	comboNode := root.Children[0]
	assert.Equal(t, int64(10), comboNode.Stock)

	require.Len(t, comboNode.Children, 1)
	sideNode := comboNode.Children[0]
	assert.Equal(t, int64(10), sideNode.Stock)

	assert.Equal(t, int64(10), tree.TotalStock)
}

// Варианты-комбинации по двум корням: остаток варианта виден в обеих
// ветках, а итог считает каждый вариант один раз.
func TestBuildStockTreeCrossRootVariants(t *testing.T) {
	p := &models.Product{ID: uuid.New(), Name: "T-Shirt", HasOptions: true}

	sizeID, colorID := uuid.New(), uuid.New()
	groups := []models.OptionGroup{
		{ID: sizeID, ProductID: p.ID, Name: "Size", Level: 1},
		{ID: colorID, ProductID: p.ID, Name: "Color", Level: 1},
	}

	s := models.Option{ID: uuid.New(), OptionGroupID: sizeID, Name: "S"}
	m := models.Option{ID: uuid.New(), OptionGroupID: sizeID, Name: "M"}
	red := models.Option{ID: uuid.New(), OptionGroupID: colorID, Name: "Red"}
	blue := models.Option{ID: uuid.New(), OptionGroupID: colorID, Name: "Blue"}
	optionsByGroup := map[uuid.UUID][]models.Option{
		sizeID:  {s, m},
		colorID: {red, blue},
	}

	combos := ExpandCombinations(groups, optionsByGroup)
	require.Len(t, combos, 4)

	stocks := map[string]int32{"S Red": 10, "S Blue": 3, "M Red": 2, "M Blue": 0}
	variants := make([]models.Variant, 0, len(combos))
	for _, combo := range combos {
		ids := make([]uuid.UUID, 0, len(combo))
		name := ""
		vopts := make([]models.VariantOption, 0, len(combo))
		for _, o := range combo {
			ids = append(ids, o.ID)
			if name != "" {
				name += " "
			}
			name += o.Name
			vopts = append(vopts, models.VariantOption{OptionID: o.ID})
		}
		variants = append(variants, models.Variant{
			ID:         uuid.New(),
			ProductID:  p.ID,
			Name:       name,
			Stock:      stocks[name],
			IsActive:   true,
			OptionHash: OptionHash(ids),
			Options:    vopts,
		})
	}

	tree := BuildStockTree(p, groups, optionsByGroup, variants)
	require.Len(t, tree.Nodes, 2)

	byName := map[string]*StockNode{}
	for _, root := range tree.Nodes {
		for _, opt := range root.Children {
			byName[opt.Name] = opt
		}
	}
	assert.Equal(t, int64(13), byName["S"].Stock)
	assert.Equal(t, int64(2), byName["M"].Stock)
	assert.Equal(t, int64(12), byName["Red"].Stock)
	assert.Equal(t, int64(3), byName["Blue"].Stock)

	// 10+3+2+0, а не сумма по корням (30)
	assert.Equal(t, int64(15), tree.TotalStock)
}

// Без вариантов листья берут собственный stock опции.
func TestBuildStockTreeOptionStockFallback(t *testing.T) {
	p := &models.Product{ID: uuid.New(), Name: "Drink", HasOptions: true}

	gID := uuid.New()
	groups := []models.OptionGroup{{ID: gID, ProductID: p.ID, Name: "Flavor", Level: 1}}
	optionsByGroup := map[uuid.UUID][]models.Option{
		gID: {
			{ID: uuid.New(), OptionGroupID: gID, Name: "Cola", Stock: 5},
			{ID: uuid.New(), OptionGroupID: gID, Name: "Lemon", Stock: 2},
		},
	}

	tree := BuildStockTree(p, groups, optionsByGroup, nil)
	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, int64(7), tree.TotalStock)
}

// Товар без групп опций: итог — плоское количество товара.
func TestBuildStockTreeFlatProduct(t *testing.T) {
	p := &models.Product{ID: uuid.New(), Name: "Plain", Quantity: 42}

	tree := BuildStockTree(p, nil, nil, nil)
	assert.Empty(t, tree.Nodes)
	assert.Equal(t, int64(42), tree.TotalStock)
}

// Неактивный вариант остаток не отдаёт.
func TestBuildStockTreeInactiveVariant(t *testing.T) {
	p := &models.Product{ID: uuid.New(), Name: "T-Shirt", HasOptions: true}

	gID := uuid.New()
	groups := []models.OptionGroup{{ID: gID, ProductID: p.ID, Name: "Size", Level: 1}}
	s := models.Option{ID: uuid.New(), OptionGroupID: gID, Name: "S"}
	optionsByGroup := map[uuid.UUID][]models.Option{gID: {s}}

	variants := []models.Variant{
		{
			ID: uuid.New(), ProductID: p.ID, Stock: 10, IsActive: false,
			OptionHash: OptionHash([]uuid.UUID{s.ID}),
			Options:    []models.VariantOption{{OptionID: s.ID}},
		},
	}

	tree := BuildStockTree(p, groups, optionsByGroup, variants)
	assert.Equal(t, int64(0), tree.TotalStock)
}
