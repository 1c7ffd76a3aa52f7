package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/models"
	"gorm.io/gorm"
)

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepositoryImpl {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Omit("User", "Products").Create(supplier).Error
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) GetByUserID(ctx context.Context, userID string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context, filter SupplierFilter) ([]models.Supplier, int64, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	q := r.db.WithContext(ctx).Model(&models.Supplier{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(company_name) LIKE ? OR LOWER(contact_email) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	var suppliers []models.Supplier
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&suppliers).Error; err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, total, nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Omit("User", "Products").Save(supplier).Error
}

func (r *supplierRepository) DeleteWithProducts(ctx context.Context, id string) ([]models.Product, error) {
	var removed []models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if err := tx.Where("supplier_id = ?", id).Find(&removed).Error; err != nil {
			return fmt.Errorf("load supplier products: %w", err)
		}
		if err := tx.Where("supplier_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("delete supplier products: %w", err)
		}
		if err := tx.Delete(&models.Supplier{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete supplier: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

type statusCount struct {
	Status string
	Total  int64
}

func countByStatus(q *gorm.DB) (map[string]int64, error) {
	var rows []statusCount
	if err := q.Select("status, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[string]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *supplierRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(r.db.WithContext(ctx).Model(&models.Supplier{}))
}

func (r *supplierRepository) CountVerified(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Supplier{}).Where("verified = ?", true).Count(&total).Error
	return total, err
}

func (r *supplierRepository) TopByProductCount(ctx context.Context, limit int) ([]SupplierProductCount, error) {
	var rows []SupplierProductCount
	err := r.db.WithContext(ctx).
		Table("suppliers").
		Select("suppliers.id AS supplier_id, suppliers.company_name AS company_name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.supplier_id = suppliers.id").
		Group("suppliers.id, suppliers.company_name").
		Order("product_count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top suppliers by product count: %w", err)
	}
	return rows, nil
}
