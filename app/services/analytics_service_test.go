package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics_Snapshot(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)
	a := f.create(t)
	b := f.create(t)
	f.create(t)
	_, err := f.svc.SetStatus(ctx, a.ID, models.StatusApproved)
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, b.ID, models.StatusApproved)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.svc.GetPublic(ctx, a.ID)
		require.NoError(t, err)
	}
	_, err = f.svc.GetPublic(ctx, b.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.RecordMatch(ctx, b.ID))

	got, err := NewAnalyticsService(f.repos.Suppliers, f.repos.Products).Snapshot(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, got.SuppliersByStatus[models.StatusApproved])
	assert.EqualValues(t, 2, got.ProductsByStatus[models.StatusApproved])
	assert.EqualValues(t, 1, got.ProductsByStatus[models.StatusPending])
	assert.EqualValues(t, 3, got.TotalProducts)
	assert.EqualValues(t, 4, got.TotalViews)
	assert.EqualValues(t, 1, got.TotalMatches)
	assert.True(t, got.AverageViews.Equal(decimal.RequireFromString("1.33")), got.AverageViews.String())
	require.NotEmpty(t, got.TopProducts)
	assert.Equal(t, a.ID, got.TopProducts[0].ID)
	assert.Equal(t, "Acme Ltd", got.TopProducts[0].Supplier)
	require.Len(t, got.TopSuppliers, 1)
	assert.EqualValues(t, 3, got.TopSuppliers[0].Products)
}
