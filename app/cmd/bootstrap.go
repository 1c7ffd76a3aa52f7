package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Rakhulsr/supplierhub/app/configs"
	"github.com/Rakhulsr/supplierhub/app/db/seeders"
	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/handlers/admin"
	"github.com/Rakhulsr/supplierhub/app/middlewares"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/routes"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/Rakhulsr/supplierhub/app/utils/renderer"
	"github.com/Rakhulsr/supplierhub/app/utils/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const metricsNamespace = "supplierhub"

// Application holds the wired services for one process.
type Application struct {
	Env      configs.ENV
	DB       *gorm.DB
	Repos    *repositories.Repositories
	Registry *prometheus.Registry

	Gateway       services.StorageGateway
	MemoryStorage *services.MemoryStorageGateway
	Batcher       *services.SignedURLBatcher
	Index         *services.IndexSynchronizer
	Search        admin.Searcher

	Auth       *services.AuthService
	Suppliers  *services.SupplierService
	Products   *services.ProductService
	Categories *services.CategoryService
	Banners    *services.BannerService
	Analytics  *services.AnalyticsService
}

// openRepositories picks the SQL or the in-memory store. With
// DB_FALLBACK_MEMORY set, an unreachable database degrades to memory.
func openRepositories(env configs.ENV, retries int) (*gorm.DB, *repositories.Repositories, error) {
	db, err := configs.OpenConnection(env, retries, 5*time.Second)
	switch {
	case err == nil:
		return db, repositories.NewGormRepositories(db), nil
	case errors.Is(err, configs.ErrMemoryDriver):
		log.Println("✅ Using in-memory repositories (DB_DRIVER=memory)")
		return nil, repositories.NewMemoryRepositories(), nil
	case env.DBFallbackMemory:
		log.Printf("WARN openRepositories: %v. Falling back to in-memory repositories; data will not survive a restart.", err)
		return nil, repositories.NewMemoryRepositories(), nil
	}
	return nil, nil, err
}

func newDocumentIndex(env configs.ENV) (services.DocumentIndex, admin.Searcher, error) {
	switch env.IndexBackend {
	case "http":
		if env.IndexURL == "" {
			return nil, nil, errors.New("INDEX_URL is required for INDEX_BACKEND=http")
		}
		return services.NewHTTPDocumentIndex(services.HTTPIndexConfig{BaseURL: env.IndexURL, APIKey: env.IndexAPIKey}), nil, nil
	case "chromem":
		idx, err := services.NewChromemIndex(env.IndexPersistPath)
		if err != nil {
			return nil, nil, err
		}
		return idx, idx, nil
	case "none", "":
		return services.NopIndex{}, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported INDEX_BACKEND %q", env.IndexBackend)
}

func NewApplication(env configs.ENV, dbRetries int) (*Application, error) {
	app := &Application{Env: env, Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	if app.DB, app.Repos, err = openRepositories(env, dbRetries); err != nil {
		return nil, err
	}

	observer, err := services.NewPrometheusObserver(metricsNamespace, app.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	switch env.StorageBackend {
	case "http":
		if env.StorageURL == "" {
			return nil, errors.New("STORAGE_URL is required for STORAGE_BACKEND=http")
		}
		app.Gateway = services.NewHTTPStorageGateway(services.HTTPStorageConfig{
			BaseURL:        env.StorageURL,
			ServiceKey:     env.StorageServiceKey,
			ImageBucket:    env.StorageImageBucket,
			DocumentBucket: env.StorageDocumentBucket,
		}, observer)
	case "memory", "":
		if env.AppAuthKey == "" {
			log.Println("WARN: APP_AUTH_KEY is empty, asset links are signed with a per-process key")
		}
		app.MemoryStorage = services.NewMemoryStorageGateway(env.AppURL+"/assets", []byte(env.AppAuthKey), observer)
		app.Gateway = app.MemoryStorage
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", env.StorageBackend)
	}

	app.Batcher = services.NewSignedURLBatcher(app.Gateway, services.BatcherOptions{
		CacheSize: env.SignedURLCacheSize,
		CacheTTL:  env.SignedURLTTL / 2,
	}, observer)

	docIndex, search, err := newDocumentIndex(env)
	if err != nil {
		return nil, err
	}
	app.Search = search
	app.Index = services.NewIndexSynchronizer(docIndex, services.IndexSyncConfig{
		AppName:       env.AppName,
		RatePerSecond: env.IndexRatePerSecond,
	}, observer)

	mailer := services.NewEmailSender(services.MailerConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})

	r := app.Repos
	app.Products = services.NewProductService(r.Products, r.Suppliers, r.Categories, app.Gateway, app.Batcher, app.Index, env.SignedURLTTL)
	app.Suppliers = services.NewSupplierService(r.Suppliers, r.Users, app.Products)
	app.Auth = services.NewAuthService(r.Users, mailer, env.AppName, env.AppURL)
	app.Categories = services.NewCategoryService(r.Categories)
	app.Banners = services.NewBannerService(r.Banners, app.Gateway, app.Batcher, env.SignedURLTTL)
	app.Analytics = services.NewAnalyticsService(r.Suppliers, r.Products)
	return app, nil
}

func (app *Application) Seeder() seeders.Seeder {
	return seeders.Seeder{
		Users:      app.Repos.Users,
		Categories: app.Categories,
		Suppliers:  app.Suppliers,
		Products:   app.Products,
	}
}

// Handler builds the HTTP stack.
func (app *Application) Handler() (http.Handler, error) {
	env := app.Env
	keys, err := configs.LoadSessionKeysFromEnv(env)
	if err != nil {
		return nil, err
	}
	store := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)

	var csrfKey []byte
	if env.CSRFEnabled {
		if csrfKey, err = configs.LoadCSRFKey(env); err != nil {
			return nil, err
		}
	}

	httpMetrics, err := middlewares.NewHTTPMetrics(metricsNamespace, app.Registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	rnd := renderer.New(!env.IsProduction())
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(rnd, app.Auth, app.Suppliers, store),
		Onboarding: handlers.NewOnboardingHandler(app.Suppliers, rnd),
		Products:   handlers.NewProductHandler(app.Products, rnd),
		Uploads:    handlers.NewUploadHandler(app.Gateway, app.Batcher, rnd),
		Home:       handlers.NewHomeHandler(rnd, app.Categories, app.Products, app.Banners),
		Health:     handlers.NewHealthHandler(rnd, nil),
		Admin:      admin.NewAdminHandler(rnd, app.Analytics, app.Suppliers, app.Products, app.Categories, app.Banners, app.Search),
	}
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		h.Health = handlers.NewHealthHandler(rnd, sqlDB)
	}
	if app.MemoryStorage != nil {
		h.Assets = handlers.NewAssetHandler(app.MemoryStorage)
	}

	return routes.NewRouter(h, routes.Options{
		Render:       rnd,
		SessionStore: store,
		Users:        app.Repos.Users,
		Suppliers:    app.Repos.Suppliers,
		Metrics:      httpMetrics,
		Gatherer:     app.Registry,
		CSRFKey:      csrfKey,
		SecureOnly:   env.IsProduction(),
	}), nil
}
