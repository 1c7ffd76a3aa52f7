package admin

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/unrolled/render"
)

// Searcher queries the local document index. Only the embedded backend
// implements it.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]services.SearchHit, error)
}

type AdminHandler struct {
	render     *render.Render
	analytics  *services.AnalyticsService
	suppliers  *services.SupplierService
	products   *services.ProductService
	categories *services.CategoryService
	banners    *services.BannerService
	search     Searcher
}

func NewAdminHandler(
	render *render.Render,
	analytics *services.AnalyticsService,
	suppliers *services.SupplierService,
	products *services.ProductService,
	categories *services.CategoryService,
	banners *services.BannerService,
	search Searcher,
) *AdminHandler {
	return &AdminHandler{
		render:     render,
		analytics:  analytics,
		suppliers:  suppliers,
		products:   products,
		categories: categories,
		banners:    banners,
		search:     search,
	}
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analytics.Snapshot(r.Context())
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.Analytics", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, snapshot)
}

// Search runs a similarity query against the embedded index, so admins can
// see what the chat surface would retrieve.
func (h *AdminHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		_ = h.render.JSON(w, http.StatusNotImplemented, helpers.ErrorResponse{Error: "search requires INDEX_BACKEND=chromem"})
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		helpers.WriteError(h.render, w, "AdminHandler.Search", helpers.NewValidationError("q is required", map[string]string{"q": "q is required"}))
		return
	}
	hits, err := h.search.Search(r.Context(), q, queryInt(r, "limit"))
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.Search", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"query": q, "hits": hits})
}
