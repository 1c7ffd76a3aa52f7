package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/supplierhub/app/models"
	"gorm.io/gorm"
)

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepositoryImpl {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *bannerRepository) GetByID(ctx context.Context, id string) (*models.Banner, error) {
	var banner models.Banner
	err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	var banners []models.Banner
	q := r.db.WithContext(ctx).Order("sort_order ASC").Order("created_at ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *bannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *bannerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *bannerRepository) Reorder(ctx context.Context, ids []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return reorder(tx, &models.Banner{}, ids, nil)
	})
}
