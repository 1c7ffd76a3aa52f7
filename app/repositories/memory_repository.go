package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryStore backs the in-memory repositories used for local runs and tests.
// Values are copied on the way in and out so callers never share state with
// the store.
type memoryStore struct {
	mu         sync.RWMutex
	last       time.Time
	users      map[string]models.User
	suppliers  map[string]models.Supplier
	products   map[string]models.Product
	categories map[string]models.Category
	subs       map[string]models.SubCategory
	banners    map[string]models.Banner
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      make(map[string]models.User),
		suppliers:  make(map[string]models.Supplier),
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
		subs:       make(map[string]models.SubCategory),
		banners:    make(map[string]models.Banner),
	}
}

// now is strictly increasing so creation order survives sorting. Callers hold mu.
func (s *memoryStore) now() time.Time {
	t := time.Now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func newID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func page[T any](items []T, limit, offset int) []T {
	limit, offset = pageBounds(limit, offset)
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type memoryUserRepository struct {
	s *memoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := prepareNewUser(user); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) find(match func(models.User) bool) *models.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			out := u
			return &out
		}
	}
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id }), nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return ErrRecordNotFound
	}
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) mutate(userID string, fn func(*models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return ErrRecordNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.users[userID] = u
	return nil
}

func (r *memoryUserRepository) SaveVerificationToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error {
	return r.mutate(userID, func(u *models.User) {
		u.VerificationToken = token
		u.VerificationExpires = expiresAt
	})
}

func tokenLive(token *string, expires *time.Time, want string) bool {
	return token != nil && *token == want && expires != nil && expires.After(time.Now())
}

func (r *memoryUserRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return tokenLive(u.VerificationToken, u.VerificationExpires, token)
	}), nil
}

func (r *memoryUserRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	now := time.Now()
	return r.mutate(userID, func(u *models.User) {
		u.EmailVerified = true
		u.EmailVerifiedAt = &now
		u.VerificationToken = nil
		u.VerificationExpires = nil
	})
}

func (r *memoryUserRepository) SavePasswordResetToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error {
	return r.mutate(userID, func(u *models.User) {
		u.PasswordResetToken = token
		u.PasswordResetExpires = expiresAt
	})
}

func (r *memoryUserRepository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return tokenLive(u.PasswordResetToken, u.PasswordResetExpires, token)
	}), nil
}

func (r *memoryUserRepository) ClearPasswordResetToken(ctx context.Context, userID string) error {
	return r.mutate(userID, func(u *models.User) {
		u.PasswordResetToken = nil
		u.PasswordResetExpires = nil
	})
}

func (r *memoryUserRepository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	return r.mutate(userID, func(u *models.User) { u.Password = newPasswordHash })
}

type memorySupplierRepository struct {
	s *memoryStore
}

func copySupplier(s models.Supplier) models.Supplier {
	if s.UserID != nil {
		v := *s.UserID
		s.UserID = &v
	}
	s.User = nil
	s.Products = nil
	return s
}

func (r *memorySupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	supplier.ID = newID(supplier.ID)
	if _, ok := r.s.suppliers[supplier.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if supplier.UserID != nil {
		for _, existing := range r.s.suppliers {
			if existing.UserID != nil && *existing.UserID == *supplier.UserID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if supplier.Status == "" {
		supplier.Status = models.StatusPending
	}
	supplier.CreatedAt = r.s.now()
	supplier.UpdatedAt = supplier.CreatedAt
	r.s.suppliers[supplier.ID] = copySupplier(*supplier)
	return nil
}

func (r *memorySupplierRepository) GetByID(ctx context.Context, id string) (*models.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	out := copySupplier(s)
	return &out, nil
}

func (r *memorySupplierRepository) GetByUserID(ctx context.Context, userID string) (*models.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.suppliers {
		if s.UserID != nil && *s.UserID == userID {
			out := copySupplier(s)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memorySupplierRepository) List(ctx context.Context, filter SupplierFilter) ([]models.Supplier, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.TrimSpace(filter.Query)
	var matched []models.Supplier
	for _, s := range r.s.suppliers {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if q != "" && !containsFold(s.CompanyName, q) && !containsFold(s.ContactEmail, q) {
			continue
		}
		matched = append(matched, copySupplier(s))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *memorySupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[supplier.ID]; !ok {
		return ErrRecordNotFound
	}
	supplier.UpdatedAt = r.s.now()
	r.s.suppliers[supplier.ID] = copySupplier(*supplier)
	return nil
}

func (r *memorySupplierRepository) DeleteWithProducts(ctx context.Context, id string) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return nil, ErrRecordNotFound
	}
	var removed []models.Product
	for pid, p := range r.s.products {
		if p.SupplierID == id {
			removed = append(removed, p.Clone())
			delete(r.s.products, pid)
		}
	}
	delete(r.s.suppliers, id)
	return removed, nil
}

func statusTotals() map[string]int64 {
	return map[string]int64{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
}

func (r *memorySupplierRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := statusTotals()
	for _, s := range r.s.suppliers {
		out[s.Status]++
	}
	return out, nil
}

func (r *memorySupplierRepository) CountVerified(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total int64
	for _, s := range r.s.suppliers {
		if s.Verified {
			total++
		}
	}
	return total, nil
}

func (r *memorySupplierRepository) TopByProductCount(ctx context.Context, limit int) ([]SupplierProductCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := make(map[string]int64, len(r.s.suppliers))
	for _, p := range r.s.products {
		counts[p.SupplierID]++
	}
	rows := make([]SupplierProductCount, 0, len(r.s.suppliers))
	for _, s := range r.s.suppliers {
		rows = append(rows, SupplierProductCount{SupplierID: s.ID, CompanyName: s.CompanyName, Products: counts[s.ID]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Products != rows[j].Products {
			return rows[i].Products > rows[j].Products
		}
		return rows[i].CompanyName < rows[j].CompanyName
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type memoryProductRepository struct {
	s *memoryStore
}

// withSupplier copies p and attaches its supplier. Callers hold mu.
func (r *memoryProductRepository) withSupplier(p models.Product) models.Product {
	out := p.Clone()
	if s, ok := r.s.suppliers[p.SupplierID]; ok {
		sup := copySupplier(s)
		out.Supplier = &sup
	}
	return out
}

func (r *memoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product.ID = newID(product.ID)
	if _, ok := r.s.products[product.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.s.suppliers[product.SupplierID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if product.Status == "" {
		product.Status = models.StatusPending
	}
	product.CreatedAt = r.s.now()
	product.UpdatedAt = product.CreatedAt
	r.s.products[product.ID] = product.Clone()
	return nil
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	out := r.withSupplier(p)
	return &out, nil
}

func (r *memoryProductRepository) GetByIDForSupplier(ctx context.Context, id, supplierID string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.SupplierID != supplierID {
		return nil, nil
	}
	out := r.withSupplier(p)
	return &out, nil
}

func (r *memoryProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.TrimSpace(filter.Query)
	var matched []models.Product
	for _, p := range r.s.products {
		if filter.PublicOnly {
			s, ok := r.s.suppliers[p.SupplierID]
			if p.Status != models.StatusApproved || !ok || !s.PubliclyVisible() {
				continue
			}
		}
		if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filter.CategoryID) {
			continue
		}
		if q != "" && !containsFold(p.Title, q) && !containsFold(p.ShortDescription, q) {
			continue
		}
		matched = append(matched, r.withSupplier(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *memoryProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, r.withSupplier(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return ErrRecordNotFound
	}
	product.UpdatedAt = r.s.now()
	r.s.products[product.ID] = product.Clone()
	return nil
}

func (r *memoryProductRepository) mutate(id string, fn func(*models.Product)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return ErrRecordNotFound
	}
	fn(&p)
	r.s.products[id] = p
	return nil
}

func (r *memoryProductRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.mutate(id, func(p *models.Product) {
		p.Status = status
		p.UpdatedAt = r.s.now()
	})
}

func (r *memoryProductRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memoryProductRepository) IncrementViews(ctx context.Context, id string) error {
	return r.mutate(id, func(p *models.Product) { p.Views++ })
}

func (r *memoryProductRepository) IncrementMatchCount(ctx context.Context, id string) error {
	return r.mutate(id, func(p *models.Product) { p.MatchCount++ })
}

func (r *memoryProductRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := statusTotals()
	for _, p := range r.s.products {
		out[p.Status]++
	}
	return out, nil
}

func (r *memoryProductRepository) EngagementTotals(ctx context.Context) (int64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var views, matches int64
	for _, p := range r.s.products {
		views += p.Views
		matches += p.MatchCount
	}
	return views, matches, nil
}

func (r *memoryProductRepository) TopByViews(ctx context.Context, limit int) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, r.withSupplier(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryCategoryRepository struct {
	s *memoryStore
}

// subsOf returns the ordered subcategories of one category. Callers hold mu.
func (r *memoryCategoryRepository) subsOf(categoryID string, activeOnly bool) []models.SubCategory {
	subs := []models.SubCategory{}
	for _, sub := range r.s.subs {
		if sub.CategoryID != categoryID || (activeOnly && !sub.IsActive) {
			continue
		}
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Order != subs[j].Order {
			return subs[i].Order < subs[j].Order
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
	return subs
}

func (r *memoryCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category.ID = newID(category.ID)
	for _, c := range r.s.categories {
		if c.ID == category.ID || c.Slug == category.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	category.CreatedAt = r.s.now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	stored.SubCategories = nil
	r.s.categories[category.ID] = stored
	return nil
}

func (r *memoryCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	c.SubCategories = r.subsOf(id, false)
	return &c, nil
}

func (r *memoryCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *memoryCategoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		c.SubCategories = r.subsOf(c.ID, activeOnly)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memoryCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return ErrRecordNotFound
	}
	for _, c := range r.s.categories {
		if c.ID != category.ID && c.Slug == category.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	category.UpdatedAt = r.s.now()
	stored := *category
	stored.SubCategories = nil
	r.s.categories[category.ID] = stored
	return nil
}

func (r *memoryCategoryRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return ErrRecordNotFound
	}
	for pid, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			p.SubCategoryID = nil
			r.s.products[pid] = p
		}
	}
	for sid, sub := range r.s.subs {
		if sub.CategoryID == id {
			delete(r.s.subs, sid)
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r *memoryCategoryRepository) Reorder(ctx context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, id := range ids {
		if c, ok := r.s.categories[id]; ok {
			c.Order = i
			r.s.categories[id] = c
		}
	}
	return nil
}

func (r *memoryCategoryRepository) CreateSub(ctx context.Context, sub *models.SubCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[sub.CategoryID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	sub.ID = newID(sub.ID)
	if _, ok := r.s.subs[sub.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	sub.CreatedAt = r.s.now()
	sub.UpdatedAt = sub.CreatedAt
	r.s.subs[sub.ID] = *sub
	return nil
}

func (r *memoryCategoryRepository) GetSubByID(ctx context.Context, id string) (*models.SubCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sub, ok := r.s.subs[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *memoryCategoryRepository) ListSubs(ctx context.Context, categoryID string) ([]models.SubCategory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.subsOf(categoryID, false), nil
}

func (r *memoryCategoryRepository) UpdateSub(ctx context.Context, sub *models.SubCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subs[sub.ID]; !ok {
		return ErrRecordNotFound
	}
	sub.UpdatedAt = r.s.now()
	r.s.subs[sub.ID] = *sub
	return nil
}

func (r *memoryCategoryRepository) DeleteSub(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subs[id]; !ok {
		return ErrRecordNotFound
	}
	for pid, p := range r.s.products {
		if p.SubCategoryID != nil && *p.SubCategoryID == id {
			p.SubCategoryID = nil
			r.s.products[pid] = p
		}
	}
	delete(r.s.subs, id)
	return nil
}

func (r *memoryCategoryRepository) ReorderSubs(ctx context.Context, categoryID string, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, id := range ids {
		if sub, ok := r.s.subs[id]; ok && sub.CategoryID == categoryID {
			sub.Order = i
			r.s.subs[id] = sub
		}
	}
	return nil
}

type memoryBannerRepository struct {
	s *memoryStore
}

func (r *memoryBannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	banner.ID = newID(banner.ID)
	if _, ok := r.s.banners[banner.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	banner.CreatedAt = r.s.now()
	banner.UpdatedAt = banner.CreatedAt
	r.s.banners[banner.ID] = *banner
	return nil
}

func (r *memoryBannerRepository) GetByID(ctx context.Context, id string) (*models.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.banners[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memoryBannerRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Banner, 0, len(r.s.banners))
	for _, b := range r.s.banners {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryBannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.banners[banner.ID]; !ok {
		return ErrRecordNotFound
	}
	banner.UpdatedAt = r.s.now()
	r.s.banners[banner.ID] = *banner
	return nil
}

func (r *memoryBannerRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.banners[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.s.banners, id)
	return nil
}

func (r *memoryBannerRepository) Reorder(ctx context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, id := range ids {
		if b, ok := r.s.banners[id]; ok {
			b.Order = i
			r.s.banners[id] = b
		}
	}
	return nil
}
