package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID            string        `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name          string        `gorm:"size:100;not null" json:"name"`
	Slug          string        `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description   string        `gorm:"type:text" json:"description"`
	IsActive      bool          `gorm:"not null" json:"isActive"`
	Order         int           `gorm:"column:sort_order;not null;default:0" json:"order"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subCategories"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// SubCategory belongs to exactly one Category. Heading rows group the rows
// below them and cannot be assigned to a product.
type SubCategory struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CategoryID string    `gorm:"size:36;not null;index" json:"categoryId"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Slug       string    `gorm:"size:100;not null;index" json:"slug"`
	IsHeading  bool      `gorm:"not null;default:false" json:"isHeading"`
	IsActive   bool      `gorm:"not null" json:"isActive"`
	Order      int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (s *SubCategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
