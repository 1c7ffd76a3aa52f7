package admin

import (
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
)

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListAll(r.Context())
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ListCategories", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, categories)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateCategory", err)
		return
	}
	category, err := h.categories.Create(r.Context(), in)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch services.CategoryPatch
	if err := handlers.DecodeJSON(w, r, &patch); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateCategory", err)
		return
	}
	category, err := h.categories.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.DeleteCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, nil)
}

func (h *AdminHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var in reorderRequest
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ReorderCategories", err)
		return
	}
	categories, err := h.categories.Reorder(r.Context(), in.IDs)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ReorderCategories", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, categories)
}

func (h *AdminHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.ToggleActive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ToggleCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, category)
}

func (h *AdminHandler) CreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var in services.SubCategoryInput
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateSubCategory", err)
		return
	}
	sub, err := h.categories.CreateSub(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateSubCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusCreated, sub)
}

func (h *AdminHandler) UpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	var patch services.SubCategoryPatch
	if err := handlers.DecodeJSON(w, r, &patch); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateSubCategory", err)
		return
	}
	sub, err := h.categories.UpdateSub(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateSubCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, sub)
}

func (h *AdminHandler) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.DeleteSub(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.DeleteSubCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, nil)
}

func (h *AdminHandler) ReorderSubCategories(w http.ResponseWriter, r *http.Request) {
	var in reorderRequest
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ReorderSubCategories", err)
		return
	}
	subs, err := h.categories.ReorderSubs(r.Context(), mux.Vars(r)["id"], in.IDs)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ReorderSubCategories", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, subs)
}

func (h *AdminHandler) ToggleSubCategory(w http.ResponseWriter, r *http.Request) {
	sub, err := h.categories.ToggleSubActive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ToggleSubCategory", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, sub)
}
