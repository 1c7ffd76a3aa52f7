package admin

import (
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	page, err := h.suppliers.List(r.Context(), services.SupplierQuery{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.ListSuppliers", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, page)
}

func (h *AdminHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.suppliers.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.GetSupplier", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, supplier)
}

// CreateSupplier adds a supplier that has no login account.
func (h *AdminHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in services.SupplierInput
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.CreateSupplier", err)
		return
	}
	supplier, err := h.suppliers.CreateStandalone(r.Context(), in)
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.CreateSupplier", err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, supplier)
}

func (h *AdminHandler) UpdateSupplierStatus(w http.ResponseWriter, r *http.Request) {
	var change services.StatusChange
	if err := handlers.DecodeJSON(w, r, &change); err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.UpdateSupplierStatus", err)
		return
	}
	supplier, err := h.suppliers.UpdateStatus(r.Context(), mux.Vars(r)["id"], change)
	if err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.UpdateSupplierStatus", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, supplier)
}

// DeleteSupplier removes the supplier together with all of its products.
func (h *AdminHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.suppliers.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.WriteError(h.render, w, "AdminHandler.DeleteSupplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
