package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
	IsActive    *bool  `json:"isActive"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitnil,required,min=2,max=100"`
	Slug        *string `json:"slug" validate:"omitnil,max=100"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	IsActive    *bool   `json:"isActive"`
}

type SubCategoryInput struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Slug      string `json:"slug" validate:"max=100"`
	IsHeading bool   `json:"isHeading"`
	IsActive  *bool  `json:"isActive"`
}

type SubCategoryPatch struct {
	Name      *string `json:"name" validate:"omitnil,required,max=100"`
	Slug      *string `json:"slug" validate:"omitnil,max=100"`
	IsHeading *bool   `json:"isHeading"`
	IsActive  *bool   `json:"isActive"`
}

func slugOr(slug, name string) string {
	if s := helpers.GenerateSlug(slug); s != "" {
		return s
	}
	return helpers.GenerateSlug(name)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

type CategoryService struct {
	categories repositories.CategoryRepositoryImpl
	validate   *validator.Validate
}

func NewCategoryService(categories repositories.CategoryRepositoryImpl) *CategoryService {
	return &CategoryService{categories: categories, validate: validator.New()}
}

// ListPublic returns active categories with their active subcategories.
func (s *CategoryService) ListPublic(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx, true)
}

func (s *CategoryService) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx, false)
}

func (s *CategoryService) get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category == nil {
		return nil, helpers.ErrNotFound
	}
	return category, nil
}

func conflictOr(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, helpers.ErrConflict)
	}
	return fmt.Errorf("save %s: %w", what, err)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	slug := slugOr(in.Slug, in.Name)
	if existing, err := s.categories.GetBySlug(ctx, slug); err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("category slug %q: %w", slug, helpers.ErrConflict)
	}

	all, err := s.categories.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		IsActive:    boolOr(in.IsActive, true),
		Order:       len(all),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, conflictOr(err, "category")
	}
	category.SubCategories = []models.SubCategory{}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (*models.Category, error) {
	trimPtr(patch.Name)
	if err := s.validate.Struct(patch); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.Slug != nil {
		slug := slugOr(*patch.Slug, category.Name)
		if existing, err := s.categories.GetBySlug(ctx, slug); err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		} else if existing != nil && existing.ID != category.ID {
			return nil, fmt.Errorf("category slug %q: %w", slug, helpers.ErrConflict)
		}
		category.Slug = slug
	}
	if patch.Description != nil {
		category.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, conflictOr(err, "category")
	}
	return category, nil
}

// Delete removes a category with its subcategories. Products keep existing
// without a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return helpers.ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// checkPermutation requires ids to name every current id exactly once.
func checkPermutation(ids, current []string) error {
	invalid := helpers.NewValidationError("ids must list every item exactly once", map[string]string{"ids": "must list every item exactly once"})
	if len(ids) != len(current) {
		return invalid
	}
	want := make(map[string]bool, len(current))
	for _, id := range current {
		want[id] = true
	}
	for _, id := range ids {
		if !want[id] {
			return invalid
		}
		delete(want, id)
	}
	return nil
}

func (s *CategoryService) Reorder(ctx context.Context, ids []string) ([]models.Category, error) {
	all, err := s.categories.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	current := make([]string, len(all))
	for i, c := range all {
		current[i] = c.ID
	}
	if err := checkPermutation(ids, current); err != nil {
		return nil, err
	}
	if err := s.categories.Reorder(ctx, ids); err != nil {
		return nil, fmt.Errorf("reorder categories: %w", err)
	}
	return s.categories.GetAll(ctx, false)
}

func (s *CategoryService) ToggleActive(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.IsActive = !category.IsActive
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("toggle category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) getSub(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.categories.GetSubByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load subcategory: %w", err)
	}
	if sub == nil {
		return nil, helpers.ErrNotFound
	}
	return sub, nil
}

func (s *CategoryService) CreateSub(ctx context.Context, categoryID string, in SubCategoryInput) (*models.SubCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	if _, err := s.get(ctx, categoryID); err != nil {
		return nil, err
	}
	siblings, err := s.categories.ListSubs(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	sub := &models.SubCategory{
		CategoryID: categoryID,
		Name:       in.Name,
		Slug:       slugOr(in.Slug, in.Name),
		IsHeading:  in.IsHeading,
		IsActive:   boolOr(in.IsActive, true),
		Order:      len(siblings),
	}
	if err := s.categories.CreateSub(ctx, sub); err != nil {
		return nil, conflictOr(err, "subcategory")
	}
	return sub, nil
}

func (s *CategoryService) UpdateSub(ctx context.Context, id string, patch SubCategoryPatch) (*models.SubCategory, error) {
	trimPtr(patch.Name)
	if err := s.validate.Struct(patch); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	sub, err := s.getSub(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		sub.Name = *patch.Name
	}
	if patch.Slug != nil {
		sub.Slug = slugOr(*patch.Slug, sub.Name)
	}
	if patch.IsHeading != nil {
		sub.IsHeading = *patch.IsHeading
	}
	if patch.IsActive != nil {
		sub.IsActive = *patch.IsActive
	}
	if err := s.categories.UpdateSub(ctx, sub); err != nil {
		return nil, conflictOr(err, "subcategory")
	}
	return sub, nil
}

func (s *CategoryService) DeleteSub(ctx context.Context, id string) error {
	if err := s.categories.DeleteSub(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return helpers.ErrNotFound
		}
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}

func (s *CategoryService) ReorderSubs(ctx context.Context, categoryID string, ids []string) ([]models.SubCategory, error) {
	if _, err := s.get(ctx, categoryID); err != nil {
		return nil, err
	}
	subs, err := s.categories.ListSubs(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	current := make([]string, len(subs))
	for i, sub := range subs {
		current[i] = sub.ID
	}
	if err := checkPermutation(ids, current); err != nil {
		return nil, err
	}
	if err := s.categories.ReorderSubs(ctx, categoryID, ids); err != nil {
		return nil, fmt.Errorf("reorder subcategories: %w", err)
	}
	return s.categories.ListSubs(ctx, categoryID)
}

func (s *CategoryService) ToggleSubActive(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.getSub(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.IsActive = !sub.IsActive
	if err := s.categories.UpdateSub(ctx, sub); err != nil {
		return nil, fmt.Errorf("toggle subcategory: %w", err)
	}
	return sub, nil
}
