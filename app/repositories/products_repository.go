package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/models"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit("Supplier").Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).Preload("Supplier").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByIDForSupplier(ctx context.Context, id, supplierID string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ? AND supplier_id = ?", id, supplierID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)

	q := p.db.WithContext(ctx).Model(&models.Product{})
	if filter.PublicOnly {
		q = q.Joins("JOIN suppliers ON suppliers.id = products.supplier_id").
			Where("products.status = ? AND suppliers.status = ? AND suppliers.verified = ?", models.StatusApproved, models.StatusApproved, true)
	}
	if filter.SupplierID != "" {
		q = q.Where("products.supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		q = q.Where("products.status = ?", filter.Status)
	}
	if filter.CategoryID != "" {
		q = q.Where("products.category_id = ?", filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(products.title) LIKE ? OR LOWER(products.short_description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []models.Product
	err := q.Preload("Supplier").
		Order("products.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (p *productRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).Preload("Supplier").Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Update writes every column. Concurrent updates of one product are last
// write wins.
func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit("Supplier").Save(product).Error
}

func (p *productRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := p.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	result := p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *productRepository) increment(ctx context.Context, id, column string) error {
	result := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *productRepository) IncrementViews(ctx context.Context, id string) error {
	return p.increment(ctx, id, "views")
}

func (p *productRepository) IncrementMatchCount(ctx context.Context, id string) error {
	return p.increment(ctx, id, "match_count")
}

func (p *productRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(p.db.WithContext(ctx).Model(&models.Product{}))
}

func (p *productRepository) EngagementTotals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Views   int64
		Matches int64
	}
	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(match_count), 0) AS matches").
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("sum product engagement: %w", err)
	}
	return row.Views, row.Matches, nil
}

func (p *productRepository) TopByViews(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("Supplier").
		Order("views DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("top products by views: %w", err)
	}
	return products, nil
}
