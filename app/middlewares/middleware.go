package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/utils/sessions"
	"github.com/unrolled/render"
)

// AuthMiddleware resolves the session cookie into the logged-in user. It never
// rejects a request; guards further down decide what needs a user.
func AuthMiddleware(store sessions.SessionStore, userRepo repositories.UserRepositoryImpl) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := store.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("AuthMiddleware: Error finding user %s: %v", userID, err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				log.Printf("AuthMiddleware: Session references missing user %s, clearing session", userID)
				if err := store.ClearSession(w, r); err != nil {
					log.Printf("AuthMiddleware: Error clearing session: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserID, user.ID)
			ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	return user
}

func CurrentSupplier(r *http.Request) *models.Supplier {
	supplier, _ := r.Context().Value(helpers.ContextKeySupplier).(*models.Supplier)
	return supplier
}

// RequireAuth answers 401 when no user was loaded for the request.
func RequireAuth(rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r) == nil {
				helpers.WriteError(rnd, w, "RequireAuth", helpers.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.Header.Get("X-HTTP-Method-Override")
			if override == "" && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
				_ = r.ParseForm()
				override = r.Form.Get("_method")
			}
			if override != "" {
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
