package service

import (
	"testing"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkVariant(name string, active bool, optionIDs ...uuid.UUID) models.Variant {
	v := models.Variant{
		ID:         uuid.New(),
		Name:       name,
		IsActive:   active,
		OptionHash: OptionHash(optionIDs),
	}
	for _, id := range optionIDs {
		v.Options = append(v.Options, models.VariantOption{OptionID: id})
	}
	return v
}

func TestOptionHashOrderIndependent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	h1 := OptionHash([]uuid.UUID{a, b, c})
	h2 := OptionHash([]uuid.UUID{c, a, b})
	assert.Equal(t, h1, h2)

	assert.NotEqual(t, h1, OptionHash([]uuid.UUID{a, b}))
	assert.Len(t, h1, 64)
}

func TestMatchVariantExact(t *testing.T) {
	size, color := uuid.New(), uuid.New()

	exact := mkVariant("S-Red", true, size, color)
	partial := mkVariant("S", true, size)
	variants := []models.Variant{partial, exact}

	got := MatchVariant(variants, []uuid.UUID{color, size})
	require.NotNil(t, got)
	// точное совпадение выигрывает у подмножества
	assert.Equal(t, exact.ID, got.ID)
}

func TestMatchVariantSubsetFallback(t *testing.T) {
	size, color, extra := uuid.New(), uuid.New(), uuid.New()

	v := mkVariant("S-Red", true, size, color)
	variants := []models.Variant{v}

	// лишняя косметическая опция не ломает резолв
	got := MatchVariant(variants, []uuid.UUID{size, color, extra})
	require.NotNil(t, got)
	assert.Equal(t, v.ID, got.ID)

	// наибольшее подмножество предпочтительнее меньшего
	small := mkVariant("S", true, size)
	got = MatchVariant([]models.Variant{small, v}, []uuid.UUID{size, color, extra})
	require.NotNil(t, got)
	assert.Equal(t, v.ID, got.ID)
}

func TestMatchVariantSubsetTieBreak(t *testing.T) {
	a, b, extra := uuid.New(), uuid.New(), uuid.New()

	v1 := mkVariant("A", true, a)
	v2 := mkVariant("B", true, b)

	want := v1
	if v2.OptionHash < v1.OptionHash {
		want = v2
	}

	// при равном размере подмножества берётся меньший хеш — в любом порядке входа
	got := MatchVariant([]models.Variant{v1, v2}, []uuid.UUID{a, b, extra})
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)

	got = MatchVariant([]models.Variant{v2, v1}, []uuid.UUID{a, b, extra})
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
}

func TestMatchVariantNoMatch(t *testing.T) {
	size, other := uuid.New(), uuid.New()

	v := mkVariant("S", true, size)
	assert.Nil(t, MatchVariant([]models.Variant{v}, []uuid.UUID{other}))
	assert.Nil(t, MatchVariant(nil, []uuid.UUID{other}))
	assert.Nil(t, MatchVariant([]models.Variant{v}, nil))
}

func TestMatchVariantSkipsInactive(t *testing.T) {
	size, color := uuid.New(), uuid.New()

	inactive := mkVariant("S-Red", false, size, color)
	fallback := mkVariant("S", true, size)

	got := MatchVariant([]models.Variant{inactive, fallback}, []uuid.UUID{size, color})
	require.NotNil(t, got)
	assert.Equal(t, fallback.ID, got.ID)
}

func TestExpandCombinationsTwoRoots(t *testing.T) {
	sizeID, colorID := uuid.New(), uuid.New()
	size := models.OptionGroup{ID: sizeID, Level: 1}
	color := models.OptionGroup{ID: colorID, Level: 1}

	opts := map[uuid.UUID][]models.Option{
		sizeID:  {{ID: uuid.New(), Name: "S"}, {ID: uuid.New(), Name: "M"}, {ID: uuid.New(), Name: "L"}},
		colorID: {{ID: uuid.New(), Name: "Red"}, {ID: uuid.New(), Name: "Blue"}},
	}

	combos := ExpandCombinations([]models.OptionGroup{size, color}, opts)
	require.Len(t, combos, 6)
	for _, c := range combos {
		assert.Len(t, c, 2)
	}
}

func TestExpandCombinationsNestedGroups(t *testing.T) {
	rootID, childID := uuid.New(), uuid.New()
	root := models.OptionGroup{ID: rootID, Level: 1, IsParent: true}
	child := models.OptionGroup{ID: childID, Level: 2, ParentGroupID: &rootID}

	opts := map[uuid.UUID][]models.Option{
		rootID:  {{ID: uuid.New(), Name: "Combo"}, {ID: uuid.New(), Name: "Solo"}},
		childID: {{ID: uuid.New(), Name: "Fries"}, {ID: uuid.New(), Name: "Rice"}, {ID: uuid.New(), Name: "Salad"}},
	}

	combos := ExpandCombinations([]models.OptionGroup{root, child}, opts)
	require.Len(t, combos, 6)
	for _, c := range combos {
		assert.Len(t, c, 2)
	}
}

func TestExpandCombinationsEmptyGroupSkipped(t *testing.T) {
	sizeID, emptyID := uuid.New(), uuid.New()
	size := models.OptionGroup{ID: sizeID, Level: 1}
	empty := models.OptionGroup{ID: emptyID, Level: 1}

	opts := map[uuid.UUID][]models.Option{
		sizeID: {{ID: uuid.New(), Name: "S"}, {ID: uuid.New(), Name: "M"}},
	}

	combos := ExpandCombinations([]models.OptionGroup{size, empty}, opts)
	require.Len(t, combos, 2)
	for _, c := range combos {
		assert.Len(t, c, 1)
	}
}

func TestExpandCombinationsNoGroups(t *testing.T) {
	assert.Empty(t, ExpandCombinations(nil, nil))
}
