package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type SupplierInput struct {
	CompanyName  string `json:"companyName" validate:"required,min=2,max=255"`
	Description  string `json:"description" validate:"max=5000"`
	Website      string `json:"website" validate:"omitempty,url,max=255"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email,max=100"`
	Country      string `json:"country" validate:"omitempty,max=100"`
}

func (in *SupplierInput) normalize() {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Description = strings.TrimSpace(in.Description)
	in.Website = strings.TrimSpace(in.Website)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ContactEmail = strings.ToLower(strings.TrimSpace(in.ContactEmail))
	in.Country = strings.TrimSpace(in.Country)
}

func (in SupplierInput) apply(s *models.Supplier) {
	s.CompanyName = in.CompanyName
	s.Slug = helpers.GenerateSlug(in.CompanyName)
	s.Description = in.Description
	s.Website = in.Website
	s.Phone = in.Phone
	s.ContactEmail = in.ContactEmail
	s.Country = in.Country
}

type SupplierQuery struct {
	Status string
	Query  string
	Page   int
	Limit  int
}

type SupplierPage struct {
	Items []models.Supplier `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// StatusChange is an admin decision on a supplier. Nil fields are left alone.
type StatusChange struct {
	Status   *string `json:"status"`
	Verified *bool   `json:"verified"`
}

type SupplierService struct {
	suppliers repositories.SupplierRepositoryImpl
	users     repositories.UserRepositoryImpl
	products  *ProductService
	validate  *validator.Validate
}

func NewSupplierService(suppliers repositories.SupplierRepositoryImpl, users repositories.UserRepositoryImpl, products *ProductService) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		users:     users,
		products:  products,
		validate:  validator.New(),
	}
}

// ForUser returns the supplier profile of a user, or nil when onboarding has
// not happened yet.
func (s *SupplierService) ForUser(ctx context.Context, userID string) (*models.Supplier, error) {
	if userID == "" {
		return nil, helpers.ErrUnauthorized
	}
	return s.suppliers.GetByUserID(ctx, userID)
}

// Onboard creates or updates the caller's company profile. A new profile
// starts PENDING and waits for admin approval.
func (s *SupplierService) Onboard(ctx context.Context, userID string, in SupplierInput) (*models.Supplier, error) {
	if userID == "" {
		return nil, helpers.ErrUnauthorized
	}
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}

	supplier, err := s.suppliers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load supplier: %w", err)
	}
	if supplier != nil {
		in.apply(supplier)
		supplier.OnboardingCompleted = true
		if err := s.suppliers.Update(ctx, supplier); err != nil {
			return nil, fmt.Errorf("update supplier: %w", err)
		}
		return supplier, nil
	}

	if in.ContactEmail == "" && s.users != nil {
		if user, err := s.users.FindByID(ctx, userID); err == nil && user != nil {
			in.ContactEmail = user.Email
		}
	}
	supplier = &models.Supplier{
		UserID:              &userID,
		Status:              models.StatusPending,
		OnboardingCompleted: true,
	}
	in.apply(supplier)
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("supplier profile: %w", helpers.ErrConflict)
		}
		log.Printf("SupplierService.Onboard: Failed to create supplier for user %s: %v", userID, err)
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

// CreateStandalone adds a supplier without a login account. Admin-created
// suppliers are approved and verified.
func (s *SupplierService) CreateStandalone(ctx context.Context, in SupplierInput) (*models.Supplier, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	supplier := &models.Supplier{
		Status:              models.StatusApproved,
		Verified:            true,
		OnboardingCompleted: true,
	}
	in.apply(supplier)
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return supplier, nil
}

func (s *SupplierService) List(ctx context.Context, q SupplierQuery) (*SupplierPage, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	status := strings.ToUpper(strings.TrimSpace(q.Status))
	if status != "" && !models.ValidStatus(status) {
		return nil, helpers.NewValidationError("invalid status", map[string]string{"status": "must be PENDING, APPROVED or REJECTED"})
	}
	items, total, err := s.suppliers.List(ctx, repositories.SupplierFilter{
		Status: status,
		Query:  q.Query,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return &SupplierPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *SupplierService) Get(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil {
		return nil, helpers.ErrNotFound
	}
	return supplier, nil
}

func (s *SupplierService) UpdateStatus(ctx context.Context, id string, change StatusChange) (*models.Supplier, error) {
	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if change.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*change.Status))
		if !models.ValidStatus(status) {
			return nil, helpers.NewValidationError("invalid status", map[string]string{"status": "must be PENDING, APPROVED or REJECTED"})
		}
		supplier.Status = status
	}
	if change.Verified != nil {
		supplier.Verified = *change.Verified
	}
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return supplier, nil
}

// Delete removes the supplier and every product it owns, then cleans up the
// products' blobs and index chunks on a best effort basis.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	removed, err := s.suppliers.DeleteWithProducts(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return helpers.ErrNotFound
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	log.Printf("SupplierService.Delete: supplier %s removed with %d products", id, len(removed))
	if s.products != nil {
		s.products.CleanupRemoved(ctx, removed)
	}
	return nil
}
