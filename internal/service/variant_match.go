package service

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
)

// OptionHash — детерминированный хеш набора опций: sha256 от отсортированных id,
// соединённых через "|". Стабилен независимо от порядка выбора.
func OptionHash(ids []uuid.UUID) string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	sort.Strings(ss)
	sum := sha256.Sum256([]byte(strings.Join(ss, "|")))
	return hex.EncodeToString(sum[:])
}

func variantOptionIDs(v *models.Variant) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(v.Options))
	for _, vo := range v.Options {
		ids = append(ids, vo.OptionID)
	}
	return ids
}

func toIDSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func isSubset(ids []uuid.UUID, set map[uuid.UUID]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// MatchVariant сопоставляет выбор опций ровно одному варианту:
//  1. точное совпадение набора опций;
//  2. иначе — наибольшее подмножество выбора (лишние «косметические» опции
//     не должны ронять резолв); при равном размере берётся вариант
//     с меньшим OptionHash, чтобы результат был детерминирован;
//  3. иначе nil — вызывающий откатывается на плоский остаток товара.
//
// Неактивные варианты не участвуют.
func MatchVariant(variants []models.Variant, selected []uuid.UUID) *models.Variant {
	sel := toIDSet(selected)

	var best *models.Variant
	bestSize := 0

	for i := range variants {
		v := &variants[i]
		if !v.IsActive {
			continue
		}
		ids := variantOptionIDs(v)
		if !isSubset(ids, sel) {
			continue
		}
		if len(ids) == len(sel) {
			return v // точное совпадение, уникально в рамках товара
		}
		if len(ids) == 0 {
			continue
		}
		switch {
		case best == nil || len(ids) > bestSize:
			best, bestSize = v, len(ids)
		case len(ids) == bestSize && v.OptionHash < best.OptionHash:
			best = v
		}
	}
	return best
}

// ExpandCombinations — полное декартово разложение дерева групп в листовые
// комбинации опций: опция из каждой группы вдоль пути от корня к листу;
// несколько корней (и несколько детей одной группы) перемножаются между собой.
// Группы без опций комбинации не расширяют.
func ExpandCombinations(groups []models.OptionGroup, optionsByGroup map[uuid.UUID][]models.Option) [][]models.Option {
	children := make(map[uuid.UUID][]models.OptionGroup)
	var roots []models.OptionGroup
	for _, g := range groups {
		if g.ParentGroupID == nil {
			roots = append(roots, g)
		} else {
			children[*g.ParentGroupID] = append(children[*g.ParentGroupID], g)
		}
	}

	parts := make([][][]models.Option, 0, len(roots))
	for _, root := range roots {
		parts = append(parts, expandGroup(root, children, optionsByGroup))
	}
	return crossParts(parts)
}

func expandGroup(g models.OptionGroup, children map[uuid.UUID][]models.OptionGroup, optionsByGroup map[uuid.UUID][]models.Option) [][]models.Option {
	opts := optionsByGroup[g.ID]
	if len(opts) == 0 {
		return nil
	}

	childGroups := children[g.ID]

	var out [][]models.Option
	for _, opt := range opts {
		if len(childGroups) == 0 {
			out = append(out, []models.Option{opt})
			continue
		}
		parts := make([][][]models.Option, 0, len(childGroups))
		for _, cg := range childGroups {
			parts = append(parts, expandGroup(cg, children, optionsByGroup))
		}
		for _, tail := range crossParts(parts) {
			combo := make([]models.Option, 0, 1+len(tail))
			combo = append(combo, opt)
			combo = append(combo, tail...)
			out = append(out, combo)
		}
	}
	return out
}

// crossParts перемножает независимые наборы комбинаций; пустые наборы пропускаются.
func crossParts(parts [][][]models.Option) [][]models.Option {
	combos := [][]models.Option{{}}
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		next := make([][]models.Option, 0, len(combos)*len(part))
		for _, c := range combos {
			for _, p := range part {
				combo := make([]models.Option, 0, len(c)+len(p))
				combo = append(combo, c...)
				combo = append(combo, p...)
				next = append(next, combo)
			}
		}
		combos = next
	}

	out := combos[:0]
	for _, c := range combos {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
