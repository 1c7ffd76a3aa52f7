package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/supplierhub/app/models"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit("SubCategories").Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var categories []models.Category
	q := r.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			db = db.Order("sort_order ASC")
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db
		}).
		Order("sort_order ASC").
		Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&categories).Error; err != nil {
		log.Printf("GetAll: Failed to get categories: %v", err)
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit("SubCategories").Save(category).Error
}

// Delete removes the category with its subcategories and detaches products
// that referenced either.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).
			Updates(map[string]interface{}{"category_id": nil, "sub_category_id": nil}).Error; err != nil {
			return fmt.Errorf("detach products: %w", err)
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.SubCategory{}).Error; err != nil {
			return fmt.Errorf("delete subcategories: %w", err)
		}
		result := tx.Delete(&models.Category{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

func reorder(tx *gorm.DB, model interface{}, ids []string, scope func(*gorm.DB) *gorm.DB) error {
	for i, id := range ids {
		q := tx.Model(model).Where("id = ?", id)
		if scope != nil {
			q = scope(q)
		}
		if err := q.Update("sort_order", i).Error; err != nil {
			return fmt.Errorf("set order of %s: %w", id, err)
		}
	}
	return nil
}

func (r *categoryRepository) Reorder(ctx context.Context, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return reorder(tx, &models.Category{}, ids, nil)
	})
}

func (r *categoryRepository) CreateSub(ctx context.Context, sub *models.SubCategory) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *categoryRepository) GetSubByID(ctx context.Context, id string) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) ListSubs(ctx context.Context, categoryID string) ([]models.SubCategory, error) {
	var subs []models.SubCategory
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("sort_order ASC").Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *categoryRepository) UpdateSub(ctx context.Context, sub *models.SubCategory) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *categoryRepository) DeleteSub(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("sub_category_id = ?", id).
			Update("sub_category_id", nil).Error; err != nil {
			return fmt.Errorf("detach products: %w", err)
		}
		result := tx.Delete(&models.SubCategory{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

func (r *categoryRepository) ReorderSubs(ctx context.Context, categoryID string, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return reorder(tx, &models.SubCategory{}, ids, func(db *gorm.DB) *gorm.DB {
			return db.Where("category_id = ?", categoryID)
		})
	})
}
