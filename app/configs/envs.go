package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppName string
	AppURL  string
	Port    string
	AppEnv  string

	DBDriver         string
	DBHost           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBPort           string
	DBFallbackMemory bool

	AppAuthKey  string
	AppEncKey   string
	CSRFKey     string
	CSRFEnabled bool

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	StorageBackend        string
	StorageURL            string
	StorageServiceKey     string
	StorageImageBucket    string
	StorageDocumentBucket string
	SignedURLTTL          time.Duration
	SignedURLCacheSize    int

	IndexBackend       string
	IndexURL           string
	IndexAPIKey        string
	IndexPersistPath   string
	IndexRatePerSecond float64

	SeedAdminEmail    string
	SeedAdminPassword string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getenvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(getenv(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	port := getenv("APP_PORT", "8080")
	if !strings.Contains(port, ":") {
		port = ":" + port
	}

	emailUsername := os.Getenv("EMAIL_USERNAME")

	return ENV{
		AppName: getenv("APP_NAME", "SupplierHub"),
		AppURL:  strings.TrimRight(getenv("APP_URL", "http://localhost"+port), "/"),
		Port:    port,
		AppEnv:  getenv("APP_ENV", "development"),

		DBDriver:         strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBHost:           os.Getenv("DB_HOST"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBPort:           os.Getenv("DB_PORT"),
		DBFallbackMemory: getenvBool("DB_FALLBACK_MEMORY", false),

		AppAuthKey:  os.Getenv("APP_AUTH_KEY"),
		AppEncKey:   os.Getenv("APP_ENC_KEY"),
		CSRFKey:     os.Getenv("CSRF_KEY"),
		CSRFEnabled: getenvBool("CSRF_ENABLED", false),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getenv("EMAIL_PORT", "587"),
		EmailUsername: emailUsername,
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getenv("EMAIL_FROM", emailUsername),

		StorageBackend:        strings.ToLower(getenv("STORAGE_BACKEND", "memory")),
		StorageURL:            os.Getenv("STORAGE_URL"),
		StorageServiceKey:     os.Getenv("STORAGE_SERVICE_KEY"),
		StorageImageBucket:    getenv("STORAGE_IMAGE_BUCKET", "product-images"),
		StorageDocumentBucket: getenv("STORAGE_DOCUMENT_BUCKET", "product-files"),
		SignedURLTTL:          time.Duration(getenvInt("SIGNED_URL_TTL_SECONDS", 3600)) * time.Second,
		SignedURLCacheSize:    getenvInt("SIGNED_URL_CACHE_SIZE", 0),

		IndexBackend:       strings.ToLower(getenv("INDEX_BACKEND", "none")),
		IndexURL:           os.Getenv("INDEX_URL"),
		IndexAPIKey:        os.Getenv("INDEX_API_KEY"),
		IndexPersistPath:   os.Getenv("INDEX_PERSIST_PATH"),
		IndexRatePerSecond: getenvFloat("INDEX_RATE_PER_SECOND", 5),

		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", "admin@supplierhub.local"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}

}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}
