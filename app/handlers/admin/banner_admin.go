package admin

import (
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
)

func bannerImage(r *http.Request) (*services.FileUpload, error) {
	files, err := handlers.FormFiles(r, "image")
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func formBool(r *http.Request, field string) *bool {
	raw := handlers.FormPtr(r, field)
	if raw == nil {
		return nil
	}
	v := *raw == "true" || *raw == "on" || *raw == "1"
	return &v
}

func (h *AdminHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.banners.ListAll(r.Context())
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ListBanners", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, banners)
}

// CreateBanner takes a multipart form with "title", "subtitle", "linkUrl",
// "isActive" and the "image" file.
func (h *AdminHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	if err := handlers.ParseMultipart(w, r, handlers.MaxImageFormSize); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateBanner", err)
		return
	}
	image, err := bannerImage(r)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateBanner", err)
		return
	}
	banner, err := h.banners.Create(r.Context(), services.BannerInput{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		LinkURL:  r.FormValue("linkUrl"),
		IsActive: formBool(r, "isActive"),
	}, image)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.CreateBanner", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusCreated, banner)
}

func (h *AdminHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	if err := handlers.ParseMultipart(w, r, handlers.MaxImageFormSize); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateBanner", err)
		return
	}
	image, err := bannerImage(r)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateBanner", err)
		return
	}
	banner, err := h.banners.Update(r.Context(), mux.Vars(r)["id"], services.BannerPatch{
		Title:    handlers.FormPtr(r, "title"),
		Subtitle: handlers.FormPtr(r, "subtitle"),
		LinkURL:  handlers.FormPtr(r, "linkUrl"),
		IsActive: formBool(r, "isActive"),
	}, image)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.UpdateBanner", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, banner)
}

func (h *AdminHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := h.banners.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.DeleteBanner", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, nil)
}

func (h *AdminHandler) ReorderBanners(w http.ResponseWriter, r *http.Request) {
	var in reorderRequest
	if err := handlers.DecodeJSON(w, r, &in); err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ReorderBanners", err)
		return
	}
	banners, err := h.banners.Reorder(r.Context(), in.IDs)
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ReorderBanners", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, banners)
}

func (h *AdminHandler) ToggleBanner(w http.ResponseWriter, r *http.Request) {
	banner, err := h.banners.ToggleActive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteManageError(h.render, w, "AdminHandler.ToggleBanner", err)
		return
	}
	helpers.WriteManageData(h.render, w, http.StatusOK, banner)
}
