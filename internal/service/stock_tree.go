package service

import (
	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

// BuildStockTree собирает дерево остатков снизу вверх. Лист суммирует
// активные варианты, чей набор опций включает путь от корня до листа:
// при нескольких корневых группах вариант — это комбинация по всем корням
// сразу, и его остаток виден в каждой затронутой ветке. Если у товара
// вариантов нет вовсе — лист берёт собственный stock опции.
// Итог по товару с вариантами — сумма остатков самих вариантов (каждый
// ровно один раз: сумма по корням посчитала бы кросс-корневой вариант в
// каждом корне); без вариантов — сумма по группам уровня 1.
func BuildStockTree(p *models.Product, groups []models.OptionGroup, optionsByGroup map[uuid.UUID][]models.Option, variants []models.Variant) *ProductStockTree {
	children := make(map[uuid.UUID][]models.OptionGroup)
	var roots []models.OptionGroup
	for _, g := range groups {
		if g.ParentGroupID == nil {
			roots = append(roots, g)
		} else {
			children[*g.ParentGroupID] = append(children[*g.ParentGroupID], g)
		}
	}

	hasVariants := len(variants) > 0
	type variantStock struct {
		opts  map[uuid.UUID]struct{}
		stock int64
	}
	active := make([]variantStock, 0, len(variants))
	var variantTotal int64
	for i := range variants {
		v := &variants[i]
		if !v.IsActive {
			continue
		}
		active = append(active, variantStock{toIDSet(variantOptionIDs(v)), int64(v.Stock)})
		variantTotal += int64(v.Stock)
	}

	tree := &ProductStockTree{
		ProductID:   p.ID,
		ProductName: p.Name,
		Nodes:       []*StockNode{},
	}

	var groupNode func(g models.OptionGroup, path []uuid.UUID) *StockNode
	groupNode = func(g models.OptionGroup, path []uuid.UUID) *StockNode {
		node := &StockNode{
			ID:    g.ID,
			Name:  g.Name,
			Type:  StockNodeGroup,
			Level: g.Level,
		}
		for _, opt := range optionsByGroup[g.ID] {
			optNode := &StockNode{
				ID:    opt.ID,
				Name:  opt.Name,
				Type:  StockNodeOption,
				Level: g.Level,
			}
			optPath := append(append([]uuid.UUID{}, path...), opt.ID)

			childGroups := children[g.ID]
			if len(childGroups) == 0 {
				if hasVariants {
					for _, vs := range active {
						if isSubset(optPath, vs.opts) {
							optNode.Stock += vs.stock
						}
					}
				} else {
					optNode.Stock = int64(opt.Stock)
				}
			} else {
				for _, cg := range childGroups {
					cn := groupNode(cg, optPath)
					optNode.Children = append(optNode.Children, cn)
					optNode.Stock += cn.Stock
				}
			}

			node.Children = append(node.Children, optNode)
			node.Stock += optNode.Stock
		}
		return node
	}

	for _, root := range roots {
		n := groupNode(root, nil)
		tree.Nodes = append(tree.Nodes, n)
	}

	switch {
	case len(roots) == 0:
		// Товар без опций: сводный остаток — плоское количество
		tree.TotalStock = int64(p.Quantity)
	case hasVariants:
		tree.TotalStock = variantTotal
	default:
		for _, n := range tree.Nodes {
			tree.TotalStock += n.Stock
		}
	}

	return tree
}
