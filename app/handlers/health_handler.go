package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unrolled/render"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	render *render.Render
	db     Pinger
}

func NewHealthHandler(r *render.Render, db Pinger) *HealthHandler {
	return &HealthHandler{render: r, db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "memory"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			_ = h.render.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}
	_ = h.render.JSON(w, http.StatusOK, status)
}
