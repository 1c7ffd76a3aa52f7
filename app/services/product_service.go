package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/utils/format"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FileUpload is one file received from a client form.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ProductInput struct {
	Title            string           `validate:"required,max=255"`
	ShortDescription string           `validate:"max=500"`
	Description      string           `validate:"required"`
	Specifications   string           `validate:"max=20000"`
	Tags             []string         `validate:"max=30,dive,max=50"`
	CategoryID       *string          `validate:"omitnil,uuid"`
	SubCategoryID    *string          `validate:"omitnil,uuid"`
	Price            *decimal.Decimal `validate:"-"`
}

// ProductPatch carries a partial update. Nil fields keep their stored value.
type ProductPatch struct {
	Title            *string          `validate:"omitnil,required,max=255"`
	ShortDescription *string          `validate:"omitnil,max=500"`
	Description      *string          `validate:"omitnil,required"`
	Specifications   *string          `validate:"omitnil,max=20000"`
	Tags             *[]string        `validate:"omitnil,max=30,dive,max=50"`
	CategoryID       *string          `validate:"omitnil,omitempty,uuid"`
	SubCategoryID    *string          `validate:"omitnil,omitempty,uuid"`
	Price            *decimal.Decimal `validate:"-"`
	// ClearPrice removes the indicative price.
	ClearPrice bool
}

// AssetChanges lists the files added to and removed from a product in one
// update. Deleted entries are base URLs as stored on the product.
type AssetChanges struct {
	NewImages     []FileUpload
	NewPDFs       []FileUpload
	DeletedImages []string
	DeletedPDFs   []string
}

// ProductView is a product with read URLs for its assets. Base URLs stay in
// the embedded product so clients can name them in delete lists.
type ProductView struct {
	models.Product
	SignedImages   []string `json:"signedImages"`
	SignedPDFFiles []string `json:"signedPdfFiles"`
	PriceLabel     string   `json:"priceLabel,omitempty"`
}

type ProductQuery struct {
	Query      string
	CategoryID string
	Status     string
	Page       int
	Limit      int
}

func (q ProductQuery) bounds() (limit, offset int) {
	limit = q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

type ProductPage struct {
	Items []ProductView `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ProductService coordinates product records with their stored assets and
// their search index chunks. The database row is authoritative; storage and
// index side effects are best effort and never fail a request once the row
// has been written.
type ProductService struct {
	products   repositories.ProductRepositoryImpl
	suppliers  repositories.SupplierRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	gateway    StorageGateway
	batcher    *SignedURLBatcher
	index      *IndexSynchronizer
	validate   *validator.Validate
	signTTL    time.Duration
}

func NewProductService(
	products repositories.ProductRepositoryImpl,
	suppliers repositories.SupplierRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	gateway StorageGateway,
	batcher *SignedURLBatcher,
	index *IndexSynchronizer,
	signTTL time.Duration,
) *ProductService {
	if signTTL <= 0 {
		signTTL = DefaultSignedURLExpiry
	}
	return &ProductService{
		products:   products,
		suppliers:  suppliers,
		categories: categories,
		gateway:    gateway,
		batcher:    batcher,
		index:      index,
		validate:   validator.New(),
		signTTL:    signTTL,
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (in *ProductInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	in.Description = strings.TrimSpace(in.Description)
	in.Specifications = strings.TrimSpace(in.Specifications)
	in.Tags = cleanTags(in.Tags)
	trimPtr(in.CategoryID)
	trimPtr(in.SubCategoryID)
	if in.CategoryID != nil && *in.CategoryID == "" {
		in.CategoryID = nil
	}
	if in.SubCategoryID != nil && *in.SubCategoryID == "" {
		in.SubCategoryID = nil
	}
}

func (p *ProductPatch) normalize() {
	trimPtr(p.Title)
	trimPtr(p.ShortDescription)
	trimPtr(p.Description)
	trimPtr(p.Specifications)
	trimPtr(p.CategoryID)
	trimPtr(p.SubCategoryID)
	if p.Tags != nil {
		tags := cleanTags(*p.Tags)
		p.Tags = &tags
	}
}

func checkPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return helpers.NewValidationError("price must not be negative", map[string]string{"price": "price must not be negative"})
	}
	return nil
}

// checkTaxonomy verifies the category exists and the subcategory is an
// assignable child of it.
func (s *ProductService) checkTaxonomy(ctx context.Context, categoryID, subCategoryID *string) error {
	if subCategoryID != nil && categoryID == nil {
		return helpers.NewValidationError("subcategory requires a category", map[string]string{"subCategoryId": "subcategory requires a category"})
	}
	if categoryID == nil || s.categories == nil {
		return nil
	}
	category, err := s.categories.GetByID(ctx, *categoryID)
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if category == nil {
		return helpers.NewValidationError("unknown category", map[string]string{"categoryId": "unknown category"})
	}
	if subCategoryID == nil {
		return nil
	}
	sub, err := s.categories.GetSubByID(ctx, *subCategoryID)
	if err != nil {
		return fmt.Errorf("load subcategory: %w", err)
	}
	if sub == nil || sub.CategoryID != category.ID {
		return helpers.NewValidationError("unknown subcategory", map[string]string{"subCategoryId": "unknown subcategory"})
	}
	if sub.IsHeading {
		return helpers.NewValidationError("heading subcategories cannot hold products", map[string]string{"subCategoryId": "heading subcategories cannot hold products"})
	}
	return nil
}

func (s *ProductService) loadSupplier(ctx context.Context, supplierID string) (*models.Supplier, error) {
	if supplierID == "" {
		return nil, helpers.ErrUnauthorized
	}
	supplier, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("load supplier: %w", err)
	}
	if supplier == nil {
		return nil, helpers.ErrUnauthorized
	}
	return supplier, nil
}

// uploadAll stores files one at a time. A file that is rejected or fails to
// store is dropped with a warning.
func (s *ProductService) uploadAll(ctx context.Context, ownerID, productID string, kind AssetKind, files []FileUpload) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if err := kind.Check(f.ContentType, int64(len(f.Data))); err != nil {
			log.Printf("WARN ProductService.upload: dropping %s: %v", f.Filename, err)
			continue
		}
		u, err := s.gateway.Upload(ctx, UploadRequest{
			Data:        f.Data,
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Kind:        kind,
			OwnerID:     ownerID,
			ProductID:   productID,
		})
		if err != nil {
			log.Printf("WARN ProductService.upload: dropping %s: %v", f.Filename, err)
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

func (s *ProductService) deleteBlobs(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := s.gateway.Delete(ctx, u); err != nil {
			log.Printf("WARN ProductService.deleteBlobs: %s: %v", u, err)
		}
	}
}

func (s *ProductService) syncIndex(ctx context.Context, p *models.Product, supplierName string, previousIDs []string) {
	if s.index == nil {
		return
	}
	if err := s.index.Sync(ctx, p, supplierName, previousIDs); err != nil {
		var ingestErr *helpers.IndexIngestError
		if errors.As(err, &ingestErr) {
			log.Printf("WARN ProductService.syncIndex: product %s stopped at chunk %s: %v", p.ID, ingestErr.ChunkID, ingestErr.Err)
			return
		}
		log.Printf("WARN ProductService.syncIndex: product %s: %v", p.ID, err)
	}
}

func (s *ProductService) unindex(ctx context.Context, p *models.Product) {
	if s.index == nil {
		return
	}
	// Remove logs each failed id itself.
	_ = s.index.Remove(ctx, s.index.ChunkIDs(p))
}

// Create stores the submitted files, then the product. Files that fail to
// store are left out; the product is still created.
func (s *ProductService) Create(ctx context.Context, supplierID string, in ProductInput, images, pdfs []FileUpload) (*models.Product, error) {
	supplier, err := s.loadSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}
	if err := s.checkTaxonomy(ctx, in.CategoryID, in.SubCategoryID); err != nil {
		return nil, err
	}

	productID := uuid.New().String()
	imageURLs := s.uploadAll(ctx, supplier.ID, productID, AssetImage, images)
	pdfURLs := s.uploadAll(ctx, supplier.ID, productID, AssetDocument, pdfs)

	product := &models.Product{
		ID:               productID,
		SupplierID:       supplier.ID,
		CategoryID:       in.CategoryID,
		SubCategoryID:    in.SubCategoryID,
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		Specifications:   in.Specifications,
		Tags:             in.Tags,
		Images:           imageURLs,
		PDFFiles:         pdfURLs,
		Status:           models.StatusPending,
	}
	if in.Price != nil {
		product.Price = decimal.NewNullDecimal(in.Price.Round(2))
	}

	if err := s.products.Create(ctx, product); err != nil {
		log.Printf("ProductService.Create: Failed to save product: %v", err)
		s.deleteBlobs(ctx, append(append([]string{}, imageURLs...), pdfURLs...))
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.syncIndex(ctx, product, supplier.CompanyName, nil)
	return product, nil
}

// subtract returns list without the entries in remove, keeping order, and the
// entries that were actually removed.
func subtract(list, remove []string) (kept, removed []string) {
	drop := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		if r = strings.TrimSpace(r); r != "" {
			drop[r] = struct{}{}
		}
	}
	kept = make([]string, 0, len(list))
	for _, u := range list {
		if _, ok := drop[u]; ok {
			removed = append(removed, u)
			continue
		}
		kept = append(kept, u)
	}
	return kept, removed
}

// Update applies a partial update. Only the owning supplier may update a
// product; any other caller gets helpers.ErrNotFound.
func (s *ProductService) Update(ctx context.Context, supplierID, productID string, patch ProductPatch, assets AssetChanges) (*models.Product, error) {
	supplier, err := s.loadSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByIDForSupplier(ctx, productID, supplier.ID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, helpers.ErrNotFound
	}

	patch.normalize()
	if err := s.validate.Struct(patch); err != nil {
		return nil, helpers.ValidationFrom(err)
	}
	if err := checkPrice(patch.Price); err != nil {
		return nil, err
	}

	categoryID, subCategoryID := product.CategoryID, product.SubCategoryID
	if patch.CategoryID != nil {
		categoryID = nil
		if *patch.CategoryID != "" {
			categoryID = patch.CategoryID
		}
		if patch.SubCategoryID == nil {
			subCategoryID = nil
		}
	}
	if patch.SubCategoryID != nil {
		subCategoryID = nil
		if *patch.SubCategoryID != "" {
			subCategoryID = patch.SubCategoryID
		}
	}
	if patch.CategoryID != nil || patch.SubCategoryID != nil {
		if err := s.checkTaxonomy(ctx, categoryID, subCategoryID); err != nil {
			return nil, err
		}
	}

	var previousIDs []string
	if s.index != nil {
		previousIDs = s.index.ChunkIDs(product)
	}

	keptImages, removedImages := subtract(product.Images, assets.DeletedImages)
	keptPDFs, removedPDFs := subtract(product.PDFFiles, assets.DeletedPDFs)
	newImages := s.uploadAll(ctx, supplier.ID, product.ID, AssetImage, assets.NewImages)
	newPDFs := s.uploadAll(ctx, supplier.ID, product.ID, AssetDocument, assets.NewPDFs)

	product.Images = append(keptImages, newImages...)
	product.PDFFiles = append(keptPDFs, newPDFs...)
	product.CategoryID = categoryID
	product.SubCategoryID = subCategoryID
	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.ShortDescription != nil {
		product.ShortDescription = *patch.ShortDescription
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Specifications != nil {
		product.Specifications = *patch.Specifications
	}
	if patch.Tags != nil {
		product.Tags = *patch.Tags
	}
	switch {
	case patch.ClearPrice:
		product.Price = decimal.NullDecimal{}
	case patch.Price != nil:
		product.Price = decimal.NewNullDecimal(patch.Price.Round(2))
	}

	if err := s.products.Update(ctx, product); err != nil {
		log.Printf("ProductService.Update: Failed to save product %s: %v", product.ID, err)
		s.deleteBlobs(ctx, append(append([]string{}, newImages...), newPDFs...))
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.deleteBlobs(ctx, append(removedImages, removedPDFs...))
	s.syncIndex(ctx, product, supplier.CompanyName, previousIDs)
	return product, nil
}

// Delete removes the product row, then its blobs and index chunks on a best
// effort basis.
func (s *ProductService) Delete(ctx context.Context, supplierID, productID string) error {
	supplier, err := s.loadSupplier(ctx, supplierID)
	if err != nil {
		return err
	}
	product, err := s.products.GetByIDForSupplier(ctx, productID, supplier.ID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return helpers.ErrNotFound
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return helpers.ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.CleanupRemoved(ctx, []models.Product{*product})
	return nil
}

// CleanupRemoved deletes the blobs and index chunks of products whose rows are
// already gone.
func (s *ProductService) CleanupRemoved(ctx context.Context, products []models.Product) {
	for i := range products {
		p := &products[i]
		s.deleteBlobs(ctx, append(append([]string{}, p.Images...), p.PDFFiles...))
		s.unindex(ctx, p)
	}
}

// Views signs the assets of every product with at most two storage calls.
func (s *ProductService) Views(ctx context.Context, products []models.Product) []ProductView {
	assets := make([]ProductAssets, len(products))
	for i, p := range products {
		assets[i] = ProductAssets{Images: p.Images, PDFFiles: p.PDFFiles}
	}
	var signed []ProductAssets
	if s.batcher != nil {
		signed = s.batcher.SignProductAssets(ctx, assets, s.signTTL)
	} else {
		signed = assets
	}
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{
			Product:        p,
			SignedImages:   nonNil(signed[i].Images),
			SignedPDFFiles: nonNil(signed[i].PDFFiles),
			PriceLabel:     format.OptionalMoney(p.Price),
		}
	}
	return views
}

func (s *ProductService) view(ctx context.Context, p *models.Product) *ProductView {
	v := s.Views(ctx, []models.Product{*p})[0]
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Get returns one of the supplier's own products.
func (s *ProductService) Get(ctx context.Context, supplierID, productID string) (*ProductView, error) {
	if supplierID == "" {
		return nil, helpers.ErrUnauthorized
	}
	product, err := s.products.GetByIDForSupplier(ctx, productID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, helpers.ErrNotFound
	}
	return s.view(ctx, product), nil
}

func (s *ProductService) page(ctx context.Context, q ProductQuery, filter repositories.ProductFilter) (*ProductPage, error) {
	limit, offset := q.bounds()
	filter.Query = q.Query
	filter.CategoryID = q.CategoryID
	filter.Limit = limit
	filter.Offset = offset
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return &ProductPage{Items: s.Views(ctx, products), Total: total, Page: page, Limit: limit}, nil
}

// List returns the supplier's own products, newest first.
func (s *ProductService) List(ctx context.Context, supplierID string, q ProductQuery) (*ProductPage, error) {
	if supplierID == "" {
		return nil, helpers.ErrUnauthorized
	}
	return s.page(ctx, q, repositories.ProductFilter{SupplierID: supplierID, Status: strings.ToUpper(q.Status)})
}

// ListAll is the admin moderation listing across suppliers.
func (s *ProductService) ListAll(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	return s.page(ctx, q, repositories.ProductFilter{Status: strings.ToUpper(q.Status)})
}

// ListPublic lists approved products of approved suppliers.
func (s *ProductService) ListPublic(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	return s.page(ctx, q, repositories.ProductFilter{PublicOnly: true})
}

func (s *ProductService) publicProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil || product.Status != models.StatusApproved ||
		product.Supplier == nil || !product.Supplier.PubliclyVisible() {
		return nil, helpers.ErrNotFound
	}
	return product, nil
}

// GetPublic returns an approved listing and counts the view.
func (s *ProductService) GetPublic(ctx context.Context, productID string) (*ProductView, error) {
	product, err := s.publicProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.products.IncrementViews(ctx, product.ID); err != nil {
		log.Printf("WARN ProductService.GetPublic: count view for %s: %v", product.ID, err)
	} else {
		product.Views++
	}
	return s.view(ctx, product), nil
}

// RecordMatch counts a recommendation of the product by the search assistant.
func (s *ProductService) RecordMatch(ctx context.Context, productID string) error {
	if _, err := s.publicProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.products.IncrementMatchCount(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return helpers.ErrNotFound
		}
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// SetStatus is the admin moderation decision for a product.
func (s *ProductService) SetStatus(ctx context.Context, productID, status string) (*models.Product, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !models.ValidStatus(status) {
		return nil, helpers.NewValidationError("invalid status", map[string]string{"status": "must be PENDING, APPROVED or REJECTED"})
	}
	if err := s.products.UpdateStatus(ctx, productID, status); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, helpers.ErrNotFound
		}
		return nil, fmt.Errorf("update product status: %w", err)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, helpers.ErrNotFound
	}
	return product, nil
}

// Resync writes the product's chunks to the index again. Unlike the request
// paths it reports the failure to the caller.
func (s *ProductService) Resync(ctx context.Context, p *models.Product) error {
	if s.index == nil {
		return nil
	}
	name := ""
	if p.Supplier != nil {
		name = p.Supplier.CompanyName
	}
	return s.index.Sync(ctx, p, name, nil)
}

// ReindexAll resyncs every product and returns how many succeeded.
func (s *ProductService) ReindexAll(ctx context.Context) (int, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	var ok int
	var errs []error
	for i := range products {
		if err := s.Resync(ctx, &products[i]); err != nil {
			log.Printf("ProductService.ReindexAll: product %s: %v", products[i].ID, err)
			errs = append(errs, err)
			continue
		}
		ok++
	}
	return ok, errors.Join(errs...)
}
