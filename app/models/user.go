package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                   string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name                 string         `gorm:"size:150;not null" json:"name"`
	Email                string         `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password             string         `gorm:"size:255;not null" json:"-"`
	Role                 string         `gorm:"size:20;default:'supplier';not null" json:"role"`
	EmailVerified        bool           `gorm:"not null;default:false" json:"emailVerified"`
	EmailVerifiedAt      *time.Time     `gorm:"null" json:"emailVerifiedAt,omitempty"`
	VerificationToken    *string        `gorm:"size:255;uniqueIndex;null" json:"-"`
	VerificationExpires  *time.Time     `gorm:"null" json:"-"`
	PasswordResetToken   *string        `gorm:"size:255;uniqueIndex;null" json:"-"`
	PasswordResetExpires *time.Time     `gorm:"null" json:"-"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

const (
	RoleAdmin    = "admin"
	RoleSupplier = "supplier"
)

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
