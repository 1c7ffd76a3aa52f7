package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

const featuredProducts = 8

// HomeHandler serves the public catalog: taxonomy, carousel and approved
// listings.
type HomeHandler struct {
	render     *render.Render
	categories *services.CategoryService
	products   *services.ProductService
	banners    *services.BannerService
}

func NewHomeHandler(r *render.Render, c *services.CategoryService, p *services.ProductService, b *services.BannerService) *HomeHandler {
	return &HomeHandler{
		render:     r,
		categories: c,
		products:   p,
		banners:    b,
	}
}

type homeResponse struct {
	Banners    []services.BannerView  `json:"banners"`
	Categories []models.Category      `json:"categories"`
	Featured   []services.ProductView `json:"featured"`
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListPublic(r.Context())
	if err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Home", err)
		return
	}
	page, err := h.products.ListPublic(r.Context(), services.ProductQuery{Limit: featuredProducts})
	if err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Home", err)
		return
	}
	banners, err := h.banners.ListActive(r.Context())
	if err != nil {
		// A broken carousel does not fail the home page.
		log.Printf("WARN HomeHandler.Home: list banners: %v", err)
		banners = []services.BannerView{}
	}

	_ = h.render.JSON(w, http.StatusOK, homeResponse{
		Banners:    banners,
		Categories: categories,
		Featured:   page.Items,
	})
}

func (h *HomeHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListPublic(r.Context())
	if err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Categories", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, categories)
}

func (h *HomeHandler) Banners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.ListActive(r.Context())
	if err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Banners", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, banners)
}

func (h *HomeHandler) Products(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.ListPublic(r.Context(), services.ProductQuery{
		Query:      r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
	if err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Products", err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))
	_ = h.render.JSON(w, http.StatusOK, page)
}

func (h *HomeHandler) Product(w http.ResponseWriter, r *http.Request) {
	view, err := h.products.GetPublic(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Product", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, view)
}

// Match is called by the AI chat surface when it recommends a listing.
func (h *HomeHandler) Match(w http.ResponseWriter, r *http.Request) {
	if err := h.products.RecordMatch(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.WriteError(h.render, w, "HomeHandler.Match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
