package configs

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	clearEnv(t, "APP_NAME", "APP_URL", "APP_PORT", "APP_ENV", "DB_DRIVER", "DB_FALLBACK_MEMORY",
		"STORAGE_BACKEND", "INDEX_BACKEND", "SIGNED_URL_TTL_SECONDS", "INDEX_RATE_PER_SECOND",
		"EMAIL_PORT", "EMAIL_USERNAME", "EMAIL_FROM", "CSRF_ENABLED")

	env := LoadEnv()

	assert.Equal(t, "SupplierHub", env.AppName)
	assert.Equal(t, ":8080", env.Port)
	assert.Equal(t, "http://localhost:8080", env.AppURL)
	assert.Equal(t, "mysql", env.DBDriver)
	assert.Equal(t, "memory", env.StorageBackend)
	assert.Equal(t, "none", env.IndexBackend)
	assert.Equal(t, time.Hour, env.SignedURLTTL)
	assert.Equal(t, 5.0, env.IndexRatePerSecond)
	assert.Equal(t, "587", env.EmailPort)
	assert.False(t, env.DBFallbackMemory)
	assert.False(t, env.CSRFEnabled)
	assert.False(t, env.IsProduction())
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_URL", "https://hub.example.com/")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_FALLBACK_MEMORY", "true")
	t.Setenv("SIGNED_URL_TTL_SECONDS", "120")
	t.Setenv("INDEX_RATE_PER_SECOND", "not-a-number")
	t.Setenv("EMAIL_USERNAME", "mailer@example.com")
	t.Setenv("EMAIL_FROM", "")

	env := LoadEnv()

	assert.Equal(t, ":9090", env.Port)
	assert.Equal(t, "https://hub.example.com", env.AppURL)
	assert.Equal(t, "postgres", env.DBDriver)
	assert.True(t, env.DBFallbackMemory)
	assert.Equal(t, 2*time.Minute, env.SignedURLTTL)
	assert.Equal(t, 5.0, env.IndexRatePerSecond)
	assert.Equal(t, "mailer@example.com", env.EmailFrom)
	assert.True(t, env.IsProduction())
}

func encode(b []byte) string { return base64.URLEncoding.EncodeToString(b) }

func TestLoadSessionKeysFromEnv(t *testing.T) {
	auth := securecookie.GenerateRandomKey(64)
	enc := securecookie.GenerateRandomKey(32)

	keys, err := LoadSessionKeysFromEnv(ENV{AppAuthKey: encode(auth), AppEncKey: encode(enc)})
	require.NoError(t, err)
	assert.Equal(t, auth, keys.AuthKey)
	assert.Equal(t, enc, keys.EncKey)

	_, err = LoadSessionKeysFromEnv(ENV{AppEncKey: encode(enc)})
	assert.ErrorContains(t, err, "APP_AUTH_KEY")

	_, err = LoadSessionKeysFromEnv(ENV{AppAuthKey: encode(auth), AppEncKey: encode(make([]byte, 20))})
	assert.ErrorContains(t, err, "invalid length 20")

	_, err = LoadSessionKeysFromEnv(ENV{AppAuthKey: "%%%", AppEncKey: encode(enc)})
	assert.ErrorContains(t, err, "Base64")
}

func TestLoadCSRFKey(t *testing.T) {
	key := securecookie.GenerateRandomKey(32)
	got, err := LoadCSRFKey(ENV{CSRFKey: encode(key)})
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = LoadCSRFKey(ENV{})
	assert.Error(t, err)

	_, err = LoadCSRFKey(ENV{CSRFKey: encode(make([]byte, 16))})
	assert.ErrorContains(t, err, "invalid length 16")
}

func TestDialector(t *testing.T) {
	_, target, err := dialector(ENV{DBDriver: "mysql", DBUser: "hub", DBPassword: "s3cret", DBHost: "db", DBPort: "3306", DBName: "supplierhub"})
	require.NoError(t, err)
	assert.Equal(t, "mysql://hub@db:3306/supplierhub", target)
	assert.False(t, strings.Contains(target, "s3cret"))

	_, target, err = dialector(ENV{DBDriver: "postgres", DBUser: "hub", DBHost: "db", DBPort: "5432", DBName: "supplierhub"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://hub@db:5432/supplierhub", target)

	_, _, err = dialector(ENV{DBDriver: "memory"})
	assert.ErrorIs(t, err, ErrMemoryDriver)

	_, _, err = dialector(ENV{DBDriver: "sqlite"})
	assert.ErrorContains(t, err, "unsupported")
}

func TestOpenConnection_MemoryDriver(t *testing.T) {
	db, err := OpenConnection(ENV{DBDriver: "memory"}, 3, time.Millisecond)
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrMemoryDriver)
}
