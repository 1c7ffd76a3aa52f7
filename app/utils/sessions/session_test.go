package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carryCookies(from *httptest.ResponseRecorder, to *http.Request) {
	for _, c := range from.Result().Cookies() {
		to.AddCookie(c)
	}
}

func TestCookieSessionStore_RoundTrip(t *testing.T) {
	store := NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))

	login := httptest.NewRecorder()
	require.NoError(t, store.SetUser(login, httptest.NewRequest(http.MethodPost, "/login", nil), "user-1", "supplier"))

	next := httptest.NewRequest(http.MethodGet, "/me", nil)
	carryCookies(login, next)
	assert.Equal(t, "user-1", store.GetUserID(next))
	assert.Equal(t, "supplier", store.GetRole(next))

	logout := httptest.NewRecorder()
	require.NoError(t, store.ClearSession(logout, next))
	cookies := logout.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestCookieSessionStore_ForeignKeysYieldEmptySession(t *testing.T) {
	a := NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
	b := NewCookieSessionStore(false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))

	rec := httptest.NewRecorder()
	require.NoError(t, a.SetUser(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "user-1", "admin"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	carryCookies(rec, req)
	assert.Equal(t, "", b.GetUserID(req))
}
