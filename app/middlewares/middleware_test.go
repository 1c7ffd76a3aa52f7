package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/repositories"
	"github.com/Rakhulsr/supplierhub/app/utils/renderer"
	"github.com/Rakhulsr/supplierhub/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), helpers.ContextKeyUser, u))
}

func TestAuthMiddleware_LoadsSessionUser(t *testing.T) {
	repos := repositories.NewMemoryRepositories()
	store := sessions.NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
	user := &models.User{Name: "Ana", Email: "ana@acme.test", Password: "x", Role: models.RoleSupplier}
	require.NoError(t, repos.Users.Create(context.Background(), user))

	login := httptest.NewRecorder()
	require.NoError(t, store.SetUser(login, httptest.NewRequest(http.MethodPost, "/", nil), user.ID, user.Role))

	var seen *models.User
	h := AuthMiddleware(store, repos.Users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)

	// a session for an unknown user is dropped
	stale := httptest.NewRecorder()
	require.NoError(t, store.SetUser(stale, httptest.NewRequest(http.MethodPost, "/", nil), "deleted-user", models.RoleSupplier))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range stale.Result().Cookies() {
		req.AddCookie(c)
	}
	seen = nil
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Nil(t, seen)
	require.NotEmpty(t, rec.Result().Cookies())
	assert.True(t, rec.Result().Cookies()[0].MaxAge < 0)
}

func TestAdminAuthMiddleware(t *testing.T) {
	h := AdminAuthMiddleware(renderer.New(false))(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), &models.User{ID: "u1", Role: models.RoleSupplier}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), &models.User{ID: "u2", Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSupplierAuthMiddleware(t *testing.T) {
	repos := repositories.NewMemoryRepositories()
	ctx := context.Background()
	approvedUser, pendingUser, rejectedUser := "user-approved", "user-pending", "user-rejected"
	for _, s := range []*models.Supplier{
		{UserID: &approvedUser, CompanyName: "Approved", Slug: "approved", Status: models.StatusApproved},
		{UserID: &pendingUser, CompanyName: "Pending", Slug: "pending", Status: models.StatusPending},
		{UserID: &rejectedUser, CompanyName: "Rejected", Slug: "rejected", Status: models.StatusRejected},
	} {
		require.NoError(t, repos.Suppliers.Create(ctx, s))
	}

	var loaded *models.Supplier
	h := SupplierAuthMiddleware(renderer.New(false), repos.Suppliers)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loaded = CurrentSupplier(r)
	}))

	cases := []struct {
		userID string
		status int
		name   string
	}{
		{approvedUser, http.StatusOK, "Approved"},
		{pendingUser, http.StatusOK, "Pending"},
		{rejectedUser, http.StatusForbidden, ""},
		{"no-profile", http.StatusForbidden, ""},
	}
	for _, tc := range cases {
		loaded = nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/", nil), &models.User{ID: tc.userID, Role: models.RoleSupplier}))
		assert.Equal(t, tc.status, rec.Code, tc.userID)
		if tc.name != "" {
			require.NotNil(t, loaded, tc.userID)
			assert.Equal(t, tc.name, loaded.CompanyName)
		} else {
			assert.Nil(t, loaded, tc.userID)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMethodOverrideMiddleware(t *testing.T) {
	var method string
	h := MethodOverrideMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("_method=delete"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodDelete, method)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-HTTP-Method-Override", "PATCH")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodPatch, method)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?_method=delete", nil))
	assert.Equal(t, http.MethodGet, method)
}

func TestHTTPMetrics_LabelsByRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics("test", reg)
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/products/{id}", "4xx")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requests))

	_, err = NewHTTPMetrics("test", reg)
	assert.Error(t, err)
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, "2xx", classifyStatus(204))
	assert.Equal(t, "5xx", classifyStatus(502))
	assert.Equal(t, "unknown", classifyStatus(0))
}
