package middlewares

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/unrolled/render"
)

// AdminAuthMiddleware lets only admin users through. It expects
// AuthMiddleware to have run.
func AdminAuthMiddleware(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil {
				helpers.WriteError(rnd, w, "AdminAuthMiddleware", helpers.ErrUnauthorized)
				return
			}
			if !user.IsAdmin() {
				log.Printf("AdminAuthMiddleware: User %s (%s) attempted to access admin API without admin role.", user.ID, user.Email)
				helpers.WriteError(rnd, w, "AdminAuthMiddleware", helpers.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SupplierAuthMiddleware loads the caller's supplier profile into the request
// context. Users without a profile must finish onboarding first, and
// rejected suppliers are locked out.
func SupplierAuthMiddleware(rnd *render.Render, supplierRepo repositories.SupplierRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil {
				helpers.WriteError(rnd, w, "SupplierAuthMiddleware", helpers.ErrUnauthorized)
				return
			}

			supplier, err := supplierRepo.GetByUserID(r.Context(), user.ID)
			if err != nil {
				helpers.WriteError(rnd, w, "SupplierAuthMiddleware", fmt.Errorf("load supplier for user %s: %w", user.ID, err))
				return
			}
			if supplier == nil {
				helpers.WriteError(rnd, w, "SupplierAuthMiddleware", fmt.Errorf("complete onboarding first: %w", helpers.ErrForbidden))
				return
			}
			if supplier.Status == models.StatusRejected {
				helpers.WriteError(rnd, w, "SupplierAuthMiddleware", fmt.Errorf("supplier account rejected: %w", helpers.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeySupplier, supplier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
