package handlers

import (
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/middlewares"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/unrolled/render"
)

type OnboardingHandler struct {
	suppliers *services.SupplierService
	render    *render.Render
}

func NewOnboardingHandler(s *services.SupplierService, r *render.Render) *OnboardingHandler {
	return &OnboardingHandler{suppliers: s, render: r}
}

type onboardingResponse struct {
	Completed bool        `json:"completed"`
	Supplier  interface{} `json:"supplier"`
}

func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middlewares.CurrentUser(r)
	if user == nil {
		helpers.WriteError(h.render, w, "OnboardingHandler.Get", helpers.ErrUnauthorized)
		return
	}
	supplier, err := h.suppliers.ForUser(r.Context(), user.ID)
	if err != nil {
		helpers.WriteError(h.render, w, "OnboardingHandler.Get", err)
		return
	}
	resp := onboardingResponse{}
	if supplier != nil {
		resp.Completed = supplier.OnboardingCompleted
		resp.Supplier = supplier
	}
	_ = h.render.JSON(w, http.StatusOK, resp)
}

func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middlewares.CurrentUser(r)
	if user == nil {
		helpers.WriteError(h.render, w, "OnboardingHandler.Submit", helpers.ErrUnauthorized)
		return
	}
	var in services.SupplierInput
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "OnboardingHandler.Submit", err)
		return
	}
	supplier, err := h.suppliers.Onboard(r.Context(), user.ID, in)
	if err != nil {
		helpers.WriteError(h.render, w, "OnboardingHandler.Submit", err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, onboardingResponse{Completed: true, Supplier: supplier})
}
