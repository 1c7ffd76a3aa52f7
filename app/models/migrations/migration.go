package migrations

import (
	"github.com/Rakhulsr/supplierhub/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.Banner{},
	)
}
