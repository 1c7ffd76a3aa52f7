package admin

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.ListAll(r.Context(), services.ProductQuery{
		Query:      r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category"),
		Status:     r.URL.Query().Get("status"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.ListProducts", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, page)
}

type productStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateProductStatus(w http.ResponseWriter, r *http.Request) {
	var in productStatusRequest
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.UpdateProductStatus", err)
		return
	}
	product, err := h.products.SetStatus(r.Context(), mux.Vars(r)["id"], in.Status)
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.UpdateProductStatus", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, h.products.Views(r.Context(), []models.Product{*product})[0])
}

// ReindexProducts rebuilds the index chunks of every product.
func (h *AdminHandler) ReindexProducts(w http.ResponseWriter, r *http.Request) {
	indexed, err := h.products.ReindexAll(r.Context())
	var ingestErr *helpers.IndexIngestError
	if err != nil && !errors.As(err, &ingestErr) {
		helpers.WriteError(h.render, w, "AdminHandler.ReindexProducts", err)
		return
	}
	resp := map[string]interface{}{"indexed": indexed}
	if err != nil {
		resp["error"] = err.Error()
	}
	_ = h.render.JSON(w, http.StatusOK, resp)
}
