package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Rakhulsr/supplierhub/app/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound is returned by mutations that target a missing row.
// Finders return nil, nil instead.
var ErrRecordNotFound = errors.New("record not found")

type UserRepositoryImpl interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SaveVerificationToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkEmailVerified(ctx context.Context, userID string) error
	SavePasswordResetToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error
	FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	ClearPasswordResetToken(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
}

type SupplierFilter struct {
	Status string
	Query  string
	Limit  int
	Offset int
}

type SupplierProductCount struct {
	SupplierID  string `json:"supplierId"`
	CompanyName string `json:"companyName"`
	Products    int64  `gorm:"column:product_count" json:"products"`
}

type SupplierRepositoryImpl interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id string) (*models.Supplier, error)
	GetByUserID(ctx context.Context, userID string) (*models.Supplier, error)
	List(ctx context.Context, filter SupplierFilter) ([]models.Supplier, int64, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	// DeleteWithProducts removes the supplier and every product it owns in
	// one unit and returns the removed products.
	DeleteWithProducts(ctx context.Context, id string) ([]models.Product, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountVerified(ctx context.Context) (int64, error)
	TopByProductCount(ctx context.Context, limit int) ([]SupplierProductCount, error)
}

type ProductFilter struct {
	SupplierID string
	Status     string
	CategoryID string
	Query      string
	// PublicOnly keeps approved products of approved suppliers.
	PublicOnly bool
	Limit      int
	Offset     int
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDForSupplier(ctx context.Context, id, supplierID string) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementMatchCount(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	EngagementTotals(ctx context.Context) (views int64, matches int64, err error)
	TopByViews(ctx context.Context, limit int) ([]models.Product, error)
}

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	// GetAll returns categories by order with their subcategories by order.
	GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error

	CreateSub(ctx context.Context, sub *models.SubCategory) error
	GetSubByID(ctx context.Context, id string) (*models.SubCategory, error)
	ListSubs(ctx context.Context, categoryID string) ([]models.SubCategory, error)
	UpdateSub(ctx context.Context, sub *models.SubCategory) error
	DeleteSub(ctx context.Context, id string) error
	ReorderSubs(ctx context.Context, categoryID string, ids []string) error
}

type BannerRepositoryImpl interface {
	Create(ctx context.Context, banner *models.Banner) error
	GetByID(ctx context.Context, id string) (*models.Banner, error)
	GetAll(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// Repositories bundles every store the application needs so the SQL and
// in-memory implementations can be swapped at startup.
type Repositories struct {
	Users      UserRepositoryImpl
	Suppliers  SupplierRepositoryImpl
	Products   ProductRepositoryImpl
	Categories CategoryRepositoryImpl
	Banners    BannerRepositoryImpl
}

func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Suppliers:  NewSupplierRepository(db),
		Products:   NewProductRepository(db),
		Categories: NewCategoryRepository(db),
		Banners:    NewBannerRepository(db),
	}
}

func NewMemoryRepositories() *Repositories {
	store := newMemoryStore()
	return &Repositories{
		Users:      &memoryUserRepository{store},
		Suppliers:  &memorySupplierRepository{store},
		Products:   &memoryProductRepository{store},
		Categories: &memoryCategoryRepository{store},
		Banners:    &memoryBannerRepository{store},
	}
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
