package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gorilla/mux"
)

// AssetHandler serves blobs held by the in-memory storage backend so local
// setups get working image and file links. Only signed URLs are served.
type AssetHandler struct {
	store *services.MemoryStorageGateway
}

func NewAssetHandler(store *services.MemoryStorageGateway) *AssetHandler {
	return &AssetHandler{store: store}
}

func (h *AssetHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	q := r.URL.Query()
	expires, _ := strconv.ParseInt(q.Get("expires"), 10, 64)

	if err := h.store.Verify(key, q.Get("token"), expires); err != nil {
		if errors.Is(err, services.ErrLinkExpired) {
			http.Error(w, err.Error(), http.StatusGone)
			return
		}
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	data, contentType, ok := h.store.Open(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(data)
}
