package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_CreateAssignsSlugAndOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(repositories.NewMemoryRepositories().Categories)

	a, err := svc.Create(ctx, CategoryInput{Name: "Industrial Tools"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CategoryInput{Name: "Raw Materials"})
	require.NoError(t, err)

	assert.Equal(t, "industrial-tools", a.Slug)
	assert.True(t, a.IsActive)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)

	_, err = svc.Create(ctx, CategoryInput{Name: "Industrial tools!"})
	assert.ErrorIs(t, err, helpers.ErrConflict)
}

func TestCategory_ReorderRequiresPermutation(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(repositories.NewMemoryRepositories().Categories)
	a, err := svc.Create(ctx, CategoryInput{Name: "Alpha"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CategoryInput{Name: "Beta"})
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []string
	}{
		{"missing one", []string{a.ID}},
		{"duplicate", []string{a.ID, a.ID}},
		{"unknown", []string{a.ID, "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Reorder(ctx, tt.ids)
			var verr *helpers.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	ordered, err := svc.Reorder(ctx, []string{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "Beta", ordered[0].Name)
}

func TestCategory_ToggleHidesFromPublicList(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(repositories.NewMemoryRepositories().Categories)
	c, err := svc.Create(ctx, CategoryInput{Name: "Alpha"})
	require.NoError(t, err)
	sub, err := svc.CreateSub(ctx, c.ID, SubCategoryInput{Name: "Bolts"})
	require.NoError(t, err)
	_, err = svc.CreateSub(ctx, c.ID, SubCategoryInput{Name: "Nuts"})
	require.NoError(t, err)

	toggled, err := svc.ToggleSubActive(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Len(t, public[0].SubCategories, 1)
	assert.Equal(t, "Nuts", public[0].SubCategories[0].Name)

	_, err = svc.ToggleActive(ctx, c.ID)
	require.NoError(t, err)
	public, err = svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCategory_SubcategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(repositories.NewMemoryRepositories().Categories)
	c, err := svc.Create(ctx, CategoryInput{Name: "Alpha"})
	require.NoError(t, err)

	_, err = svc.CreateSub(ctx, "missing", SubCategoryInput{Name: "x"})
	assert.ErrorIs(t, err, helpers.ErrNotFound)

	first, err := svc.CreateSub(ctx, c.ID, SubCategoryInput{Name: "First"})
	require.NoError(t, err)
	second, err := svc.CreateSub(ctx, c.ID, SubCategoryInput{Name: "Second", IsHeading: true})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	subs, err := svc.ReorderSubs(ctx, c.ID, []string{second.ID, first.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, subs[0].ID)

	renamed := "Renamed"
	updated, err := svc.UpdateSub(ctx, first.ID, SubCategoryPatch{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	require.NoError(t, svc.DeleteSub(ctx, first.ID))
	assert.ErrorIs(t, svc.DeleteSub(ctx, first.ID), helpers.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), helpers.ErrNotFound)
}
