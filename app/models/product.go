package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a supplier listing. Images and PDFFiles hold base (unsigned) asset
// URLs; the first image is the primary one.
type Product struct {
	ID               string                      `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	SupplierID       string                      `gorm:"size:36;not null;index" json:"supplierId"`
	Supplier         *Supplier                   `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CategoryID       *string                     `gorm:"size:36;index" json:"categoryId,omitempty"`
	SubCategoryID    *string                     `gorm:"size:36;index" json:"subCategoryId,omitempty"`
	Title            string                      `gorm:"size:255;not null" json:"title"`
	ShortDescription string                      `gorm:"size:500" json:"shortDescription"`
	Description      string                      `gorm:"type:text" json:"description"`
	Specifications   string                      `gorm:"type:text" json:"specifications"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	Images           datatypes.JSONSlice[string] `json:"images"`
	PDFFiles         datatypes.JSONSlice[string] `gorm:"column:pdf_files" json:"pdfFiles"`
	Price            decimal.NullDecimal         `gorm:"type:decimal(16,2)" json:"price"`
	Status           string                      `gorm:"size:20;default:'PENDING';not null;index" json:"status"`
	Views            int64                       `gorm:"not null;default:0" json:"views"`
	MatchCount       int64                       `gorm:"not null;default:0" json:"matchCount"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	c := p
	c.Tags = append(datatypes.JSONSlice[string](nil), p.Tags...)
	c.Images = append(datatypes.JSONSlice[string](nil), p.Images...)
	c.PDFFiles = append(datatypes.JSONSlice[string](nil), p.PDFFiles...)
	if p.CategoryID != nil {
		v := *p.CategoryID
		c.CategoryID = &v
	}
	if p.SubCategoryID != nil {
		v := *p.SubCategoryID
		c.SubCategoryID = &v
	}
	c.Supplier = nil
	return c
}
