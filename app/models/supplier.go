package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Supplier is a company profile. UserID is nil for suppliers created by an
// admin without a login.
type Supplier struct {
	ID                  string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID              *string   `gorm:"size:36;uniqueIndex;null" json:"userId,omitempty"`
	User                *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CompanyName         string    `gorm:"size:255;not null" json:"companyName"`
	Slug                string    `gorm:"size:255;not null;index" json:"slug"`
	Description         string    `gorm:"type:text" json:"description"`
	Website             string    `gorm:"size:255" json:"website"`
	Phone               string    `gorm:"size:50" json:"phone"`
	ContactEmail        string    `gorm:"size:100" json:"contactEmail"`
	Country             string    `gorm:"size:100" json:"country"`
	Status              string    `gorm:"size:20;default:'PENDING';not null;index" json:"status"`
	Verified            bool      `gorm:"not null;default:false" json:"verified"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboardingCompleted"`
	Products            []Product `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// PubliclyVisible reports whether the supplier's listings may be shown on the
// public catalog: approved and verified.
func (s *Supplier) PubliclyVisible() bool {
	return s.Status == StatusApproved && s.Verified
}
