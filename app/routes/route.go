package routes

import (
	"net/http"

	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/handlers/admin"
	"github.com/Rakhulsr/supplierhub/app/middlewares"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Onboarding *handlers.OnboardingHandler
	Products   *handlers.ProductHandler
	Uploads    *handlers.UploadHandler
	Home       *handlers.HomeHandler
	Health     *handlers.HealthHandler
	Admin      *admin.AdminHandler
	// Assets is set only with the in-memory storage backend.
	Assets *handlers.AssetHandler
}

type Options struct {
	Render       *render.Render
	SessionStore sessions.SessionStore
	Users        repositories.UserRepositoryImpl
	Suppliers    repositories.SupplierRepositoryImpl
	Metrics      *middlewares.HTTPMetrics
	Gatherer     prometheus.Gatherer
	// CSRFKey enables CSRF protection when non-empty.
	CSRFKey    []byte
	SecureOnly bool
}

func NewRouter(h Handlers, opts Options) http.Handler {
	router := mux.NewRouter()
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(middlewares.AuthMiddleware(opts.SessionStore, opts.Users))

	router.HandleFunc("/healthz", h.Health.Healthz).Methods("GET")
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	if h.Assets != nil {
		router.HandleFunc("/assets/{key:.+}", h.Assets.Serve).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/home", h.Home.Home).Methods("GET")
	api.HandleFunc("/categories", h.Home.Categories).Methods("GET")
	api.HandleFunc("/banners", h.Home.Banners).Methods("GET")
	api.HandleFunc("/products", h.Home.Products).Methods("GET")
	api.HandleFunc("/products/{id}", h.Home.Product).Methods("GET")
	api.HandleFunc("/products/{id}/match", h.Home.Match).Methods("POST")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods("POST")
	auth.HandleFunc("/verify-email", h.Auth.VerifyEmail).Methods("GET")
	auth.HandleFunc("/resend-verification", h.Auth.ResendVerification).Methods("POST")
	auth.HandleFunc("/login", h.Auth.Login).Methods("POST")
	auth.HandleFunc("/logout", h.Auth.Logout).Methods("POST")
	auth.HandleFunc("/forgot-password", h.Auth.ForgotPassword).Methods("POST")
	auth.HandleFunc("/reset-password", h.Auth.ResetPassword).Methods("POST")
	auth.HandleFunc("/me", h.Auth.Me).Methods("GET")
	auth.HandleFunc("/csrf", h.Auth.CSRFToken).Methods("GET")

	onboarding := api.PathPrefix("/supplier/onboarding").Subrouter()
	onboarding.Use(middlewares.RequireAuth(opts.Render))
	onboarding.HandleFunc("", h.Onboarding.Get).Methods("GET")
	onboarding.HandleFunc("", h.Onboarding.Submit).Methods("POST")

	requireSupplier := middlewares.SupplierAuthMiddleware(opts.Render, opts.Suppliers)
	products := api.PathPrefix("/supplier/products").Subrouter()
	products.Use(requireSupplier)
	products.HandleFunc("", h.Products.List).Methods("GET")
	products.HandleFunc("", h.Products.Create).Methods("POST")
	products.HandleFunc("/{id}", h.Products.Get).Methods("GET")
	products.HandleFunc("/{id}", h.Products.Update).Methods("PATCH", "PUT")
	products.HandleFunc("/{id}", h.Products.Delete).Methods("DELETE")
	api.Handle("/upload", requireSupplier(http.HandlerFunc(h.Uploads.Upload))).Methods("POST")
	api.Handle("/signed-urls", requireSupplier(http.HandlerFunc(h.Uploads.SignedURLs))).Methods("POST")

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.AdminAuthMiddleware(opts.Render))
	adminRouter.HandleFunc("/analytics", h.Admin.Analytics).Methods("GET")
	adminRouter.HandleFunc("/search", h.Admin.Search).Methods("GET")

	adminRouter.HandleFunc("/suppliers", h.Admin.ListSuppliers).Methods("GET")
	adminRouter.HandleFunc("/suppliers", h.Admin.CreateSupplier).Methods("POST")
	adminRouter.HandleFunc("/suppliers/{id}", h.Admin.GetSupplier).Methods("GET")
	adminRouter.HandleFunc("/suppliers/{id}", h.Admin.UpdateSupplierStatus).Methods("PATCH")
	adminRouter.HandleFunc("/suppliers/{id}", h.Admin.DeleteSupplier).Methods("DELETE")

	adminRouter.HandleFunc("/products", h.Admin.ListProducts).Methods("GET")
	adminRouter.HandleFunc("/products/reindex", h.Admin.ReindexProducts).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/status", h.Admin.UpdateProductStatus).Methods("PATCH")

	adminRouter.HandleFunc("/categories", h.Admin.ListCategories).Methods("GET")
	adminRouter.HandleFunc("/categories", h.Admin.CreateCategory).Methods("POST")
	adminRouter.HandleFunc("/categories/reorder", h.Admin.ReorderCategories).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}", h.Admin.UpdateCategory).Methods("PATCH")
	adminRouter.HandleFunc("/categories/{id}", h.Admin.DeleteCategory).Methods("DELETE")
	adminRouter.HandleFunc("/categories/{id}/toggle", h.Admin.ToggleCategory).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/subcategories", h.Admin.CreateSubCategory).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}/subcategories/reorder", h.Admin.ReorderSubCategories).Methods("POST")
	adminRouter.HandleFunc("/subcategories/{id}", h.Admin.UpdateSubCategory).Methods("PATCH")
	adminRouter.HandleFunc("/subcategories/{id}", h.Admin.DeleteSubCategory).Methods("DELETE")
	adminRouter.HandleFunc("/subcategories/{id}/toggle", h.Admin.ToggleSubCategory).Methods("POST")

	adminRouter.HandleFunc("/banners", h.Admin.ListBanners).Methods("GET")
	adminRouter.HandleFunc("/banners", h.Admin.CreateBanner).Methods("POST")
	adminRouter.HandleFunc("/banners/reorder", h.Admin.ReorderBanners).Methods("POST")
	adminRouter.HandleFunc("/banners/{id}", h.Admin.UpdateBanner).Methods("PATCH")
	adminRouter.HandleFunc("/banners/{id}", h.Admin.DeleteBanner).Methods("DELETE")
	adminRouter.HandleFunc("/banners/{id}/toggle", h.Admin.ToggleBanner).Methods("POST")

	// The override must run before route matching, so it wraps the router.
	handler := middlewares.MethodOverrideMiddleware(router)
	if len(opts.CSRFKey) == 0 {
		return handler
	}
	protect := csrf.Protect(opts.CSRFKey,
		csrf.Secure(opts.SecureOnly),
		csrf.Path("/"),
		csrf.RequestHeader("X-CSRF-Token"),
	)
	return markPlaintext(!opts.SecureOnly, protect(handler))
}

// markPlaintext tells the CSRF middleware that requests arrive over plain
// HTTP, which relaxes its Referer check for local setups.
func markPlaintext(enabled bool, next http.Handler) http.Handler {
	if !enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
