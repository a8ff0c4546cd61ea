package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvignesh/smsledger/internal/domain"
	"github.com/dvignesh/smsledger/internal/store/memory"
)

func TestEnsureSeededFirstRun(t *testing.T) {
	ctx := context.Background()
	cats := memory.NewCategoryStore(nil)

	seeded, err := EnsureSeeded(ctx, cats)
	require.NoError(t, err)
	assert.Equal(t, len(defaultSet), seeded)

	stored, err := cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, len(defaultSet))

	byName := make(map[string]*domain.Category, len(stored))
	for _, c := range stored {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "Other")
	require.Contains(t, byName, "Other Income")
	assert.Equal(t, domain.Expense, byName["Other"].Direction)
	assert.Equal(t, domain.Income, byName["Salary"].Direction)

	// The resolver must see the seeded set without any further setup.
	resolver := NewResolver(cats)
	got, err := resolver.Resolve(ctx, domain.Expense, "Swiggy", "payment to swiggy")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, byName["Food & Dining"].ID, *got)
}

func TestEnsureSeededIdempotent(t *testing.T) {
	ctx := context.Background()
	cats := memory.NewCategoryStore(nil)

	first, err := EnsureSeeded(ctx, cats)
	require.NoError(t, err)
	require.Equal(t, len(defaultSet), first)

	second, err := EnsureSeeded(ctx, cats)
	require.NoError(t, err)
	assert.Zero(t, second)

	stored, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(defaultSet))
}

func TestEnsureSeededKeepsCuratedSet(t *testing.T) {
	ctx := context.Background()
	curated := &domain.Category{ID: "cat-custom", Name: "Pets", Direction: domain.Expense}
	cats := memory.NewCategoryStore([]*domain.Category{curated})

	seeded, err := EnsureSeeded(ctx, cats)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	stored, err := cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Pets", stored[0].Name)
}
