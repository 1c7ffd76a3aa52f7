package routes

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/supplierhub/app/handlers"
	"github.com/Rakhulsr/supplierhub/app/handlers/admin"
	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/Rakhulsr/supplierhub/app/utils/renderer"
	"github.com/Rakhulsr/supplierhub/app/utils/sessions"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "password123"
	testAssetKey = "route-test-asset-key"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

type testApp struct {
	repos   *repositories.Repositories
	gateway *services.MemoryStorageGateway
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	repos := repositories.NewMemoryRepositories()
	gateway := services.NewMemoryStorageGateway("http://app.test/assets", []byte(testAssetKey), nil)
	batcher := services.NewSignedURLBatcher(gateway, services.BatcherOptions{}, nil)
	index := services.NewIndexSynchronizer(services.NopIndex{}, services.IndexSyncConfig{AppName: "SupplierHub"}, nil)

	products := services.NewProductService(repos.Products, repos.Suppliers, repos.Categories, gateway, batcher, index, time.Hour)
	suppliers := services.NewSupplierService(repos.Suppliers, repos.Users, products)
	auth := services.NewAuthService(repos.Users, &services.LogMailer{}, "SupplierHub", "http://app.test")
	categories := services.NewCategoryService(repos.Categories)
	banners := services.NewBannerService(repos.Banners, gateway, batcher, time.Hour)
	analytics := services.NewAnalyticsService(repos.Suppliers, repos.Products)

	rnd := renderer.New(false)
	store := sessions.NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
	h := Handlers{
		Auth:       handlers.NewAuthHandler(rnd, auth, suppliers, store),
		Onboarding: handlers.NewOnboardingHandler(suppliers, rnd),
		Products:   handlers.NewProductHandler(products, rnd),
		Uploads:    handlers.NewUploadHandler(gateway, batcher, rnd),
		Home:       handlers.NewHomeHandler(rnd, categories, products, banners),
		Health:     handlers.NewHealthHandler(rnd, nil),
		Admin:      admin.NewAdminHandler(rnd, analytics, suppliers, products, categories, banners, nil),
		Assets:     handlers.NewAssetHandler(gateway),
	}
	return &testApp{
		repos:   repos,
		gateway: gateway,
		handler: NewRouter(h, Options{Render: rnd, SessionStore: store, Users: repos.Users, Suppliers: repos.Suppliers}),
	}
}

func (a *testApp) createUser(t *testing.T, email, role string, verified bool) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: testPassword, Role: role, EmailVerified: verified}
	require.NoError(t, a.repos.Users.Create(context.Background(), user))
	return user
}

func (a *testApp) createSupplier(t *testing.T, user *models.User, status string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		UserID:      &user.ID,
		CompanyName: "Company " + user.Email,
		Slug:        helpers.GenerateSlug("company " + user.Email),
		Status:      status,
		Verified:    status == models.StatusApproved,
	}
	require.NoError(t, a.repos.Suppliers.Create(context.Background(), supplier))
	return supplier
}

// login signs in through the API and returns the session cookies.
func (a *testApp) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": testPassword})
	rec := a.do(t, http.MethodPost, "/api/auth/login", bytes.NewReader(body), "application/json", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (a *testApp) supplierSession(t *testing.T, email string) ([]*http.Cookie, *models.Supplier) {
	t.Helper()
	user := a.createUser(t, email, models.RoleSupplier, true)
	supplier := a.createSupplier(t, user, models.StatusApproved)
	return a.login(t, email), supplier
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doJSON(t *testing.T, method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return a.do(t, method, path, bytes.NewReader(body), "application/json", cookies)
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (a *testApp) createProduct(t *testing.T, cookies []*http.Cookie, title string, files ...formFile) services.ProductView {
	t.Helper()
	body, ct := multipartBody(t, map[string]string{"title": title, "description": "Industrial grade.", "tags": "steel, valves"}, files...)
	rec := a.do(t, http.MethodPost, "/api/supplier/products", body, ct, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view services.ProductView
	decode(t, rec, &view)
	return view
}

func TestSupplierRoutes_RequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/supplier/products"},
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/signed-urls"},
		{http.MethodGet, "/api/supplier/onboarding"},
	} {
		rec := app.do(t, tc.method, tc.path, nil, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}

func TestSupplierRoutes_RequireOnboarding(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "new@acme.test", models.RoleSupplier, true)
	cookies := app.login(t, "new@acme.test")

	rec := app.do(t, http.MethodGet, "/api/supplier/products", nil, "", cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/supplier/onboarding", nil, "", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSupplierRoutes_RejectedSupplierForbidden(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "rejected@acme.test", models.RoleSupplier, true)
	app.createSupplier(t, user, models.StatusRejected)
	cookies := app.login(t, "rejected@acme.test")

	rec := app.do(t, http.MethodGet, "/api/supplier/products", nil, "", cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin_UnverifiedEmailForbidden(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "pending@acme.test", models.RoleSupplier, false)

	rec := app.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "pending@acme.test", "password": testPassword}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "pending@acme.test", "password": "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProducts_CreateFiltersInvalidFiles(t *testing.T) {
	app := newTestApp(t)
	cookies, supplier := app.supplierSession(t, "acme@acme.test")

	view := app.createProduct(t, cookies, "Ball Valve",
		formFile{"images", "front.png", pngBytes},
		formFile{"images", "notes.png", []byte("plain text pretending to be an image")},
		formFile{"pdfFiles", "datasheet.pdf", pdfBytes},
	)

	assert.Equal(t, supplier.ID, view.SupplierID)
	assert.Equal(t, models.StatusPending, view.Status)
	require.Len(t, view.Images, 1)
	require.Len(t, view.PDFFiles, 1)
	assert.Contains(t, view.Images[0], "front.png")
	require.Len(t, view.SignedImages, 1)
	assert.NotEqual(t, view.Images[0], view.SignedImages[0])
	assert.Equal(t, []string{"steel", "valves"}, []string(view.Tags))
}

func TestProducts_OtherSuppliersProductIsNotFound(t *testing.T) {
	app := newTestApp(t)
	owner, _ := app.supplierSession(t, "owner@acme.test")
	other, _ := app.supplierSession(t, "other@acme.test")

	view := app.createProduct(t, owner, "Gate Valve", formFile{"images", "gate.png", pngBytes})
	path := "/api/supplier/products/" + view.ID

	rec := app.do(t, http.MethodGet, path, nil, "", other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body, ct := multipartBody(t, map[string]string{"title": "Hijacked"})
	rec = app.do(t, http.MethodPatch, path, body, ct, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodDelete, path, nil, "", other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// still intact for the owner
	rec = app.do(t, http.MethodGet, path, nil, "", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	var got services.ProductView
	decode(t, rec, &got)
	assert.Equal(t, "Gate Valve", got.Title)
	assert.Len(t, got.Images, 1)
}

func TestProducts_UpdateAndDeleteRemoveBlobs(t *testing.T) {
	app := newTestApp(t)
	cookies, _ := app.supplierSession(t, "acme@acme.test")
	view := app.createProduct(t, cookies, "Check Valve",
		formFile{"images", "a.png", pngBytes},
		formFile{"images", "b.png", pngBytes},
	)
	require.Len(t, view.Images, 2)
	removed := view.Images[0]

	body, ct := multipartBody(t, map[string]string{"deletedImages": removed}, formFile{"images", "c.png", pngBytes})
	rec := app.do(t, http.MethodPatch, "/api/supplier/products/"+view.ID, body, ct, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated services.ProductView
	decode(t, rec, &updated)
	assert.Len(t, updated.Images, 2)
	assert.NotContains(t, []string(updated.Images), removed)
	assert.Equal(t, "Check Valve", updated.Title)

	rec = app.do(t, http.MethodDelete, "/api/supplier/products/"+view.ID, nil, "", cookies)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/supplier/products/"+view.ID, nil, "", cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload_Limits(t *testing.T) {
	app := newTestApp(t)
	cookies, _ := app.supplierSession(t, "acme@acme.test")

	t.Run("invalid type", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"type": "video"}, formFile{"file", "clip.png", pngBytes})
		rec := app.do(t, http.MethodPost, "/api/upload", body, ct, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"type": "image"})
		rec := app.do(t, http.MethodPost, "/api/upload", body, ct, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("content does not match type", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"type": "image"}, formFile{"file", "sheet.png", pdfBytes})
		rec := app.do(t, http.MethodPost, "/api/upload", body, ct, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image too large", func(t *testing.T) {
		big := append(append([]byte(nil), pngBytes...), make([]byte, services.MaxImageSize)...)
		body, ct := multipartBody(t, map[string]string{"type": "image"}, formFile{"file", "huge.png", big})
		rec := app.do(t, http.MethodPost, "/api/upload", body, ct, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pdf stored", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"type": "pdf"}, formFile{"file", "catalog.pdf", pdfBytes})
		rec := app.do(t, http.MethodPost, "/api/upload", body, ct, cookies)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			URL      string `json:"url"`
			Filename string `json:"filename"`
			Size     int64  `json:"size"`
		}
		decode(t, rec, &resp)
		assert.True(t, strings.HasPrefix(resp.URL, "http://app.test/assets/"), resp.URL)
		assert.Equal(t, int64(len(pdfBytes)), resp.Size)
	})
}

func TestSignedURLs(t *testing.T) {
	app := newTestApp(t)
	cookies, _ := app.supplierSession(t, "acme@acme.test")

	t.Run("invalid type", func(t *testing.T) {
		rec := app.doJSON(t, http.MethodPost, "/api/signed-urls", map[string]interface{}{"type": "videos", "urls": []string{"x"}}, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp helpers.ErrorResponse
		decode(t, rec, &resp)
		assert.Contains(t, resp.Fields, "type")
	})

	t.Run("single string is accepted", func(t *testing.T) {
		rec := app.doJSON(t, http.MethodPost, "/api/signed-urls", map[string]interface{}{"type": "images", "urls": "http://elsewhere.test/a.png"}, cookies)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			SignedURLs []string `json:"signedUrls"`
			Type       string   `json:"type"`
		}
		decode(t, rec, &resp)
		assert.Equal(t, []string{"http://elsewhere.test/a.png"}, resp.SignedURLs)
		assert.Equal(t, "images", resp.Type)
	})

	t.Run("stored objects are signed in order", func(t *testing.T) {
		view := app.createProduct(t, cookies, "Pressure Gauge",
			formFile{"images", "one.png", pngBytes},
			formFile{"images", "two.png", pngBytes},
		)
		urls := append([]string{"http://elsewhere.test/x.png"}, view.Images...)
		rec := app.doJSON(t, http.MethodPost, "/api/signed-urls", map[string]interface{}{"type": "image", "urls": urls, "expiresIn": 60}, cookies)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			SignedURLs []string `json:"signedUrls"`
			ExpiresIn  int      `json:"expiresIn"`
		}
		decode(t, rec, &resp)
		require.Len(t, resp.SignedURLs, 3)
		assert.Equal(t, urls[0], resp.SignedURLs[0])
		assert.True(t, strings.HasPrefix(resp.SignedURLs[1], view.Images[0]), resp.SignedURLs[1])
		assert.True(t, strings.HasPrefix(resp.SignedURLs[2], view.Images[1]), resp.SignedURLs[2])
		assert.Equal(t, 60, resp.ExpiresIn)
	})

	t.Run("huge expiry is capped", func(t *testing.T) {
		rec := app.doJSON(t, http.MethodPost, "/api/signed-urls", map[string]interface{}{"type": "image", "urls": "http://elsewhere.test/a.png", "expiresIn": int64(18446744074)}, cookies)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			ExpiresIn int `json:"expiresIn"`
		}
		decode(t, rec, &resp)
		assert.Equal(t, 7*24*3600, resp.ExpiresIn)
	})
}

func TestSignedURLs_OnlyOwnObjectsAreSigned(t *testing.T) {
	app := newTestApp(t)
	ownerCookies, _ := app.supplierSession(t, "owner@acme.test")
	otherCookies, _ := app.supplierSession(t, "other@rival.test")

	view := app.createProduct(t, ownerCookies, "Ball Valve", formFile{"images", "bv.png", pngBytes})
	mine := app.createProduct(t, otherCookies, "Gate Valve", formFile{"images", "gv.png", pngBytes})

	urls := []string{view.Images[0], mine.Images[0]}
	rec := app.doJSON(t, http.MethodPost, "/api/signed-urls", map[string]interface{}{"type": "image", "urls": urls}, otherCookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		SignedURLs []string `json:"signedUrls"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.SignedURLs, 2)
	assert.Equal(t, view.Images[0], resp.SignedURLs[0])
	assert.True(t, strings.HasPrefix(resp.SignedURLs[1], mine.Images[0]+"?token="), resp.SignedURLs[1])
}

func assetToken(key string, expires int64) string {
	mac := hmac.New(sha256.New, []byte(testAssetKey))
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestAssets_RequireSignedLink(t *testing.T) {
	app := newTestApp(t)
	cookies, _ := app.supplierSession(t, "acme@acme.test")
	view := app.createProduct(t, cookies, "Check Valve", formFile{"images", "cv.png", pngBytes})

	base := strings.TrimPrefix(view.Images[0], "http://app.test")
	key := strings.TrimPrefix(base, "/assets/")
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"base url", base, http.StatusForbidden},
		{"token without expiry", fmt.Sprintf("%s?token=%s", base, assetToken(key, future)), http.StatusForbidden},
		{"forged token", fmt.Sprintf("%s?token=forged&expires=%d", base, future), http.StatusForbidden},
		{"wrong key", fmt.Sprintf("%s?token=%s&expires=%d", base, assetToken("images/other", future), future), http.StatusForbidden},
		{"extended expiry", fmt.Sprintf("%s?token=%s&expires=%d", base, assetToken(key, future), future+60), http.StatusForbidden},
		{"expired", fmt.Sprintf("%s?token=%s&expires=%d", base, assetToken(key, past), past), http.StatusGone},
		{"valid", fmt.Sprintf("%s?token=%s&expires=%d", base, assetToken(key, future), future), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, tc.path, nil, "", nil)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	signed := strings.TrimPrefix(app.gateway.SignedURL(context.Background(), view.Images[0], time.Minute), "http://app.test")
	rec := app.do(t, http.MethodGet, signed, nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestAdminRoutes_Guarded(t *testing.T) {
	app := newTestApp(t)
	supplierCookies, _ := app.supplierSession(t, "acme@acme.test")
	app.createUser(t, "admin@hub.test", models.RoleAdmin, false)
	adminCookies := app.login(t, "admin@hub.test")

	rec := app.do(t, http.MethodGet, "/api/admin/analytics", nil, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/admin/analytics", nil, "", supplierCookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/admin/analytics", nil, "", adminCookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/admin/search?q=valve", nil, "", adminCookies)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestAdminCategories_ManageEnvelope(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin@hub.test", models.RoleAdmin, true)
	cookies := app.login(t, "admin@hub.test")

	rec := app.doJSON(t, http.MethodPost, "/api/admin/categories", map[string]string{"name": "Packaging"}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Success bool            `json:"success"`
		Data    models.Category `json:"data"`
	}
	decode(t, rec, &created)
	assert.True(t, created.Success)
	assert.Equal(t, "packaging", created.Data.Slug)

	rec = app.doJSON(t, http.MethodPost, "/api/admin/categories", map[string]string{"name": "Packaging"}, cookies)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var failed helpers.ManageResponse
	decode(t, rec, &failed)
	assert.False(t, failed.Success)
	assert.NotEmpty(t, failed.Error)
}

func TestPublicCatalog_ShowsApprovedProductsOnly(t *testing.T) {
	app := newTestApp(t)
	supplierCookies, supplier := app.supplierSession(t, "acme@acme.test")
	app.createUser(t, "admin@hub.test", models.RoleAdmin, true)
	adminCookies := app.login(t, "admin@hub.test")

	view := app.createProduct(t, supplierCookies, "Butterfly Valve", formFile{"images", "bv.png", pngBytes})

	rec := app.do(t, http.MethodGet, "/api/products/"+view.ID, nil, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.doJSON(t, http.MethodPatch, "/api/admin/products/"+view.ID+"/status", map[string]string{"status": "approved"}, adminCookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/products", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	rec = app.do(t, http.MethodGet, "/api/products/"+view.ID, nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got services.ProductView
	decode(t, rec, &got)
	require.Len(t, got.SignedImages, 1)

	// the signed asset URL is served by the in-memory backend
	signed := strings.TrimPrefix(got.SignedImages[0], "http://app.test")
	rec = app.do(t, http.MethodGet, signed, nil, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())

	// an unverified supplier's listing leaves the catalog
	rec = app.doJSON(t, http.MethodPatch, "/api/admin/suppliers/"+supplier.ID, map[string]bool{"verified": false}, adminCookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/products", nil, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	rec = app.do(t, http.MethodGet, "/api/products/"+view.ID, nil, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/healthz", nil, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
