package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/unrolled/render"
)

const maxSignedURLExpiry = 7 * 24 * time.Hour

// UploadHandler exposes the storage gateway and the signed URL batcher
// directly to the supplier dashboard.
type UploadHandler struct {
	gateway services.StorageGateway
	batcher *services.SignedURLBatcher
	render  *render.Render
}

func NewUploadHandler(gateway services.StorageGateway, batcher *services.SignedURLBatcher, r *render.Render) *UploadHandler {
	return &UploadHandler{gateway: gateway, batcher: batcher, render: r}
}

type uploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

func invalidType(raw string) error {
	return helpers.NewValidationError("invalid type", map[string]string{"type": "must be image or pdf, got " + raw})
}

// Upload stores one multipart "file" of the given "type". Unlike the product
// form, a storage failure here is reported to the caller.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := ParseMultipart(w, r, maxUploadFormSize); err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", err)
		return
	}
	kind, err := services.ParseAssetKind(r.FormValue("type"))
	if err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", invalidType(r.FormValue("type")))
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", helpers.NewValidationError("file is required", map[string]string{"file": "file is required"}))
		return
	}
	fh := r.MultipartForm.File["file"][0]
	if fh.Size > kind.MaxSize() {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", kind.Check("", fh.Size))
		return
	}
	file, err := readFile(fh)
	if err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", err)
		return
	}
	if err := kind.Check(file.ContentType, int64(len(file.Data))); err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", err)
		return
	}

	u, err := h.gateway.Upload(context.WithoutCancel(r.Context()), services.UploadRequest{
		Data:        file.Data,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Kind:        kind,
		OwnerID:     supplierID(r),
		ProductID:   strings.TrimSpace(r.FormValue("productId")),
	})
	if err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.Upload", err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, uploadResponse{URL: u, Filename: file.Filename, Size: int64(len(file.Data))})
}

type signedURLRequest struct {
	Type      string          `json:"type"`
	URLs      json.RawMessage `json:"urls"`
	ExpiresIn int             `json:"expiresIn"`
}

type signedURLResponse struct {
	SignedURLs []string `json:"signedUrls"`
	ExpiresIn  int      `json:"expiresIn"`
	Type       string   `json:"type"`
}

// urlList accepts either a single string or an array of strings.
func urlList(raw json.RawMessage) ([]string, error) {
	invalid := helpers.NewValidationError("urls must be a string or an array of strings", map[string]string{"urls": "must be a string or an array of strings"})
	if len(raw) == 0 || string(raw) == "null" {
		return nil, invalid
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, invalid
	}
	return many, nil
}

func (h *UploadHandler) SignedURLs(w http.ResponseWriter, r *http.Request) {
	var in signedURLRequest
	if err := DecodeJSON(w, r, &in); err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.SignedURLs", err)
		return
	}
	kind, err := services.ParseAssetKind(in.Type)
	if err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.SignedURLs", invalidType(in.Type))
		return
	}
	urls, err := urlList(in.URLs)
	if err != nil {
		helpers.WriteError(h.render, w, "UploadHandler.SignedURLs", err)
		return
	}
	expiresIn := services.DefaultSignedURLExpiry
	if in.ExpiresIn > 0 {
		secs := min(in.ExpiresIn, int(maxSignedURLExpiry/time.Second))
		expiresIn = time.Duration(secs) * time.Second
	}

	_ = h.render.JSON(w, http.StatusOK, signedURLResponse{
		SignedURLs: h.signOwned(r.Context(), supplierID(r), urls, kind, expiresIn),
		ExpiresIn:  int(expiresIn / time.Second),
		Type:       kind.Plural(),
	})
}

// signOwned signs only the caller's own objects; other URLs come back as given.
func (h *UploadHandler) signOwned(ctx context.Context, owner string, urls []string, kind services.AssetKind, expiresIn time.Duration) []string {
	out := append([]string(nil), urls...)
	var idx []int
	var owned []string
	for i, u := range urls {
		if services.OwnedBy(u, owner) {
			idx = append(idx, i)
			owned = append(owned, u)
		}
	}
	if len(owned) == 0 {
		return out
	}
	for j, signed := range h.batcher.BatchSign(ctx, owned, kind, expiresIn) {
		out[idx[j]] = signed
	}
	return out
}
