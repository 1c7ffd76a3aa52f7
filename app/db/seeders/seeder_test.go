package seeders

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeder() (Seeder, *repositories.Repositories) {
	repos := repositories.NewMemoryRepositories()
	gateway := services.NewMemoryStorageGateway("http://assets.test", []byte("test-signing-key"), nil)
	batcher := services.NewSignedURLBatcher(gateway, services.BatcherOptions{}, nil)
	index := services.NewIndexSynchronizer(services.NopIndex{}, services.IndexSyncConfig{}, nil)
	products := services.NewProductService(repos.Products, repos.Suppliers, repos.Categories, gateway, batcher, index, time.Hour)
	return Seeder{
		Users:      repos.Users,
		Categories: services.NewCategoryService(repos.Categories),
		Suppliers:  services.NewSupplierService(repos.Suppliers, repos.Users, products),
		Products:   products,
	}, repos
}

func TestDBSeed_IsIdempotent(t *testing.T) {
	s, repos := newSeeder()
	ctx := context.Background()
	opts := Options{AdminEmail: "admin@hub.test", AdminPassword: "changeme123"}

	require.NoError(t, s.DBSeed(ctx, opts))
	require.NoError(t, s.DBSeed(ctx, opts))

	admin, err := repos.Users.FindByEmail(ctx, "admin@hub.test")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.EmailVerified)
	assert.True(t, helpers.PasswordCompare(admin.Password, []byte("changeme123")))

	categories, err := s.Categories.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(starterTaxonomy))

	var headings int
	for _, c := range categories {
		if c.Name != "Industrial Equipment" {
			continue
		}
		for _, sub := range c.SubCategories {
			if sub.IsHeading {
				headings++
			}
		}
	}
	assert.Equal(t, 2, headings)
}

func TestDBSeed_RequiresAdminPassword(t *testing.T) {
	s, _ := newSeeder()
	err := s.DBSeed(context.Background(), Options{AdminEmail: "admin@hub.test", AdminPassword: "short"})
	assert.ErrorContains(t, err, "SEED_ADMIN_PASSWORD")
}

func TestDBSeed_DemoData(t *testing.T) {
	s, repos := newSeeder()
	ctx := context.Background()
	require.NoError(t, s.DBSeed(ctx, Options{AdminEmail: "admin@hub.test", AdminPassword: "changeme123", DemoSuppliers: 3, RandSeed: 7}))

	suppliers, total, err := repos.Suppliers.List(ctx, repositories.SupplierFilter{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, sup := range suppliers {
		assert.Equal(t, models.StatusApproved, sup.Status)
	}

	page, err := s.Products.ListPublic(ctx, services.ProductQuery{Limit: 100})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, page.Total, int64(6))
	for _, p := range page.Items {
		assert.Equal(t, models.StatusApproved, p.Status)
		assert.True(t, p.Price.Valid)
	}
}
