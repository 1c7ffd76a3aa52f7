package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "supplierhub-session"

	userIDSessionKey = "userID"
	roleSessionKey   = "role"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUser(w http.ResponseWriter, r *http.Request, userID, role string) error
	GetRole(r *http.Request) string
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

// NewCookieSessionStore signs and encrypts the session cookie with the given
// key pairs. secure marks the cookie HTTPS only.
func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(7 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// A cookie signed with old keys decodes as a fresh session.
		log.Printf("CookieSessionStore: Error getting session: %v", err)
	}
	return session
}

func (c *CookieSessionStore) stringValue(r *http.Request, key string) string {
	session := c.getSession(r)
	if session == nil {
		return ""
	}
	v, _ := session.Values[key].(string)
	return v
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.stringValue(r, userIDSessionKey)
}

func (c *CookieSessionStore) GetRole(r *http.Request) string {
	return c.stringValue(r, roleSessionKey)
}

func (c *CookieSessionStore) SetUser(w http.ResponseWriter, r *http.Request, userID, role string) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = userID
	session.Values[roleSessionKey] = role
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
