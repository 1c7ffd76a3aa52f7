package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Banner is a home page carousel slide.
type Banner struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Subtitle  string    `gorm:"size:500" json:"subtitle"`
	ImageURL  string    `gorm:"size:1024;not null" json:"imageUrl"`
	LinkURL   string    `gorm:"size:1024" json:"linkUrl"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
