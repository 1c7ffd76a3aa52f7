package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/Rakhulsr/supplierhub/app/db/fakers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/services"
)

type Options struct {
	AdminEmail    string
	AdminPassword string
	// DemoSuppliers adds that many approved suppliers with a few products
	// each.
	DemoSuppliers int
	RandSeed      int64
}

type Seeder struct {
	Users      repositories.UserRepositoryImpl
	Categories *services.CategoryService
	Suppliers  *services.SupplierService
	Products   *services.ProductService
}

type taxonomySeed struct {
	Name string
	Subs []string
}

// starterTaxonomy is the catalog tree a fresh install starts with. Entries
// prefixed with "#" are headings.
var starterTaxonomy = []taxonomySeed{
	{Name: "Industrial Equipment", Subs: []string{"#Machinery", "Pumps & Valves", "Conveyors", "#Tools", "Power Tools", "Hand Tools"}},
	{Name: "Packaging", Subs: []string{"Films & Wraps", "Boxes & Cartons", "Pallets"}},
	{Name: "Raw Materials", Subs: []string{"Metals", "Plastics", "Chemicals"}},
	{Name: "Safety & PPE", Subs: []string{"Gloves", "Eyewear", "Workwear"}},
	{Name: "Electronics", Subs: []string{"Lighting", "Cables & Wiring", "Components"}},
}

// DBSeed is idempotent: existing admins and a non-empty taxonomy are left
// alone.
func (s Seeder) DBSeed(ctx context.Context, opts Options) error {
	if err := s.seedAdmin(ctx, opts.AdminEmail, opts.AdminPassword); err != nil {
		return err
	}
	if err := s.seedTaxonomy(ctx); err != nil {
		return err
	}
	if opts.DemoSuppliers > 0 {
		return s.seedDemo(ctx, opts.DemoSuppliers, opts.RandSeed)
	}
	return nil
}

func (s Seeder) seedAdmin(ctx context.Context, email, password string) error {
	existing, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		log.Printf("Seeder: admin %s already exists", email)
		return nil
	}
	if len(password) < 8 {
		return errors.New("SEED_ADMIN_PASSWORD must be set to at least 8 characters")
	}
	admin := &models.User{
		Name:          "Administrator",
		Email:         email,
		Password:      password,
		Role:          models.RoleAdmin,
		EmailVerified: true,
	}
	if err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("✅ Admin %s created", admin.Email)
	return nil
}

func (s Seeder) seedTaxonomy(ctx context.Context) error {
	existing, err := s.Categories.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("Seeder: %d categories present, skipping taxonomy", len(existing))
		return nil
	}
	for _, seed := range starterTaxonomy {
		category, err := s.Categories.Create(ctx, services.CategoryInput{Name: seed.Name})
		if err != nil {
			return fmt.Errorf("create category %s: %w", seed.Name, err)
		}
		for _, name := range seed.Subs {
			in := services.SubCategoryInput{Name: name}
			if len(name) > 1 && name[0] == '#' {
				in.Name, in.IsHeading = name[1:], true
			}
			if _, err := s.Categories.CreateSub(ctx, category.ID, in); err != nil {
				return fmt.Errorf("create subcategory %s: %w", in.Name, err)
			}
		}
	}
	log.Printf("✅ Seeded %d categories", len(starterTaxonomy))
	return nil
}

func (s Seeder) seedDemo(ctx context.Context, suppliers int, seed int64) error {
	if s.Suppliers == nil || s.Products == nil {
		return errors.New("demo seeding needs the supplier and product services")
	}
	rng := rand.New(rand.NewSource(seed))
	categories, err := s.Categories.ListPublic(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for i := 0; i < suppliers; i++ {
		supplier, err := s.Suppliers.CreateStandalone(ctx, fakers.SupplierFaker(rng))
		if err != nil {
			return fmt.Errorf("create demo supplier: %w", err)
		}
		for n := rng.Intn(4) + 2; n > 0; n-- {
			product, err := s.Products.Create(ctx, supplier.ID, fakers.ProductFaker(rng, categories), nil, nil)
			if err != nil {
				return fmt.Errorf("create demo product: %w", err)
			}
			if _, err := s.Products.SetStatus(ctx, product.ID, models.StatusApproved); err != nil {
				return fmt.Errorf("approve demo product: %w", err)
			}
		}
	}
	log.Printf("✅ Seeded %d demo suppliers", suppliers)
	return nil
}
