package handlers

import (
	"context"
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/middlewares"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// ProductHandler serves the supplier dashboard's product endpoints. Every
// route runs behind SupplierAuthMiddleware.
type ProductHandler struct {
	products *services.ProductService
	render   *render.Render
}

func NewProductHandler(p *services.ProductService, r *render.Render) *ProductHandler {
	return &ProductHandler{products: p, render: r}
}

func supplierID(r *http.Request) string {
	if s := middlewares.CurrentSupplier(r); s != nil {
		return s.ID
	}
	return ""
}

func (h *ProductHandler) view(ctx context.Context, p *models.Product) services.ProductView {
	return h.products.Views(ctx, []models.Product{*p})[0]
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.List(r.Context(), supplierID(r), services.ProductQuery{
		Query:      r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
		Status:     r.URL.Query().Get("status"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.List", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.products.Get(r.Context(), supplierID(r), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Get", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, view)
}

func productInputFromForm(r *http.Request) (services.ProductInput, error) {
	price, err := formPrice(r, "price")
	if err != nil {
		return services.ProductInput{}, err
	}
	return services.ProductInput{
		Title:            r.FormValue("title"),
		ShortDescription: r.FormValue("shortDescription"),
		Description:      r.FormValue("description"),
		Specifications:   r.FormValue("specifications"),
		Tags:             helpers.SplitList(r.FormValue("tags")),
		CategoryID:       optionalID(r, "categoryId"),
		SubCategoryID:    optionalID(r, "subCategoryId"),
		Price:            price,
	}, nil
}

func productPatchFromForm(r *http.Request) (services.ProductPatch, error) {
	patch := services.ProductPatch{
		Title:            FormPtr(r, "title"),
		ShortDescription: FormPtr(r, "shortDescription"),
		Description:      FormPtr(r, "description"),
		Specifications:   FormPtr(r, "specifications"),
		CategoryID:       FormPtr(r, "categoryId"),
		SubCategoryID:    FormPtr(r, "subCategoryId"),
	}
	if raw, ok := formValue(r, "tags"); ok {
		tags := helpers.SplitList(raw)
		patch.Tags = &tags
	}
	if raw, ok := formValue(r, "price"); ok {
		if raw == "" {
			patch.ClearPrice = true
		} else {
			price, err := formPrice(r, "price")
			if err != nil {
				return patch, err
			}
			patch.Price = price
		}
	}
	return patch, nil
}

// Create accepts a multipart form with the text fields plus any number of
// "images" and "pdfFiles" parts. Files that fail to store are dropped.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := ParseMultipart(w, r, maxProductFormSize); err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Create", err)
		return
	}
	in, err := productInputFromForm(r)
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Create", err)
		return
	}
	images, err := FormFiles(r, "images")
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Create", err)
		return
	}
	pdfs, err := FormFiles(r, "pdfFiles")
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Create", err)
		return
	}

	// Uploads already started finish even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	product, err := h.products.Create(ctx, supplierID(r), in, images, pdfs)
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Create", err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, h.view(ctx, product))
}

// Update applies a partial multipart update. Fields left out of the form keep
// their value; "deletedImages" and "deletedPdfFiles" are comma-joined base
// URLs to drop.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := ParseMultipart(w, r, maxProductFormSize); err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Update", err)
		return
	}
	patch, err := productPatchFromForm(r)
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Update", err)
		return
	}
	var changes services.AssetChanges
	if changes.NewImages, err = FormFiles(r, "images"); err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Update", err)
		return
	}
	if changes.NewPDFs, err = FormFiles(r, "pdfFiles"); err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Update", err)
		return
	}
	changes.DeletedImages = helpers.SplitList(r.FormValue("deletedImages"))
	changes.DeletedPDFs = helpers.SplitList(r.FormValue("deletedPdfFiles"))

	ctx := context.WithoutCancel(r.Context())
	product, err := h.products.Update(ctx, supplierID(r), mux.Vars(r)["id"], patch, changes)
	if err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Update", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, h.view(ctx, product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), supplierID(r), mux.Vars(r)["id"]); err != nil {
		helpers.WriteError(h.render, w, "ProductHandler.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
