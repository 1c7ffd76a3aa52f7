package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
)

type memoryBlob struct {
	data        []byte
	contentType string
}

var (
	ErrMissingSignature = errors.New("signed link required")
	ErrInvalidSignature = errors.New("invalid link signature")
	ErrLinkExpired      = errors.New("link expired")
)

// MemoryStorageGateway keeps blobs in process memory. It backs local
// development and tests; signed URLs carry an HMAC-SHA256 token over the
// object key and expiry.
type MemoryStorageGateway struct {
	mu       sync.Mutex
	blobs    map[string]memoryBlob
	baseURL  string
	secret   []byte
	observer Observer
	now      func() time.Time
}

// NewMemoryStorageGateway builds the gateway. An empty secret is replaced
// with a random one, so links stop verifying after a restart.
func NewMemoryStorageGateway(baseURL string, secret []byte, observer Observer) *MemoryStorageGateway {
	if baseURL == "" {
		baseURL = "http://localhost:8080/assets"
	}
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic(fmt.Sprintf("memory storage: generate signing key: %v", err))
		}
	}
	return &MemoryStorageGateway{
		blobs:    make(map[string]memoryBlob),
		baseURL:  strings.TrimRight(baseURL, "/"),
		secret:   append([]byte(nil), secret...),
		observer: observerOrNop(observer),
		now:      time.Now,
	}
}

func (m *MemoryStorageGateway) token(key string, expires int64) string {
	mac := hmac.New(sha256.New, m.secret)
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a token and expiry pair taken from a signed URL. The
// signature is checked before the expiry.
func (m *MemoryStorageGateway) Verify(urlOrKey, token string, expires int64) error {
	if token == "" || expires == 0 {
		return ErrMissingSignature
	}
	want := m.token(m.keyFor(urlOrKey), expires)
	if !hmac.Equal([]byte(want), []byte(token)) {
		return ErrInvalidSignature
	}
	if m.now().Unix() > expires {
		return ErrLinkExpired
	}
	return nil
}

func (m *MemoryStorageGateway) keyFor(urlOrKey string) string {
	raw := strings.TrimSpace(urlOrKey)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if strings.HasPrefix(raw, m.baseURL+"/") {
		return strings.TrimPrefix(raw, m.baseURL+"/")
	}
	return strings.TrimPrefix(raw, "/")
}

func (m *MemoryStorageGateway) Upload(ctx context.Context, req UploadRequest) (string, error) {
	start := time.Now()
	prefix := "images"
	if req.Kind == AssetDocument {
		prefix = "files"
	}
	key := prefix + "/" + ObjectKey(req.OwnerID, req.ProductID, req.Filename, m.now())

	var err error
	if len(req.Data) == 0 {
		err = &helpers.StorageError{Op: "upload", Key: key, Err: errors.New("empty payload")}
	} else {
		m.mu.Lock()
		// Keys are unique per millisecond; a collision gets a counter suffix.
		base := key
		for n := 1; ; n++ {
			if _, exists := m.blobs[key]; !exists {
				break
			}
			key = fmt.Sprintf("%s.%d", base, n)
		}
		m.blobs[key] = memoryBlob{data: append([]byte(nil), req.Data...), contentType: req.ContentType}
		m.mu.Unlock()
	}
	m.observer.RecordUpload(time.Since(start), int64(len(req.Data)), err)
	if err != nil {
		return "", err
	}
	return m.baseURL + "/" + key, nil
}

func (m *MemoryStorageGateway) Delete(ctx context.Context, urlOrKey string) error {
	start := time.Now()
	key := m.keyFor(urlOrKey)

	m.mu.Lock()
	_, ok := m.blobs[key]
	delete(m.blobs, key)
	m.mu.Unlock()

	var err error
	if !ok {
		err = &helpers.StorageError{Op: "delete", Key: key, Err: errors.New("object not found")}
	}
	m.observer.RecordDelete(time.Since(start), err)
	return err
}

func (m *MemoryStorageGateway) sign(baseURL string, expiresIn time.Duration) (string, error) {
	key := m.keyFor(baseURL)
	m.mu.Lock()
	_, ok := m.blobs[key]
	m.mu.Unlock()
	if !ok {
		return "", &helpers.StorageError{Op: "sign", Key: key, Err: errors.New("object not found")}
	}
	expires := m.now().Add(time.Duration(expirySeconds(expiresIn)) * time.Second).Unix()
	return fmt.Sprintf("%s/%s?token=%s&expires=%d", m.baseURL, key, m.token(key, expires), expires), nil
}

func (m *MemoryStorageGateway) SignedURL(ctx context.Context, baseURL string, expiresIn time.Duration) string {
	start := time.Now()
	signed, err := m.sign(baseURL, expiresIn)
	m.observer.RecordSign(time.Since(start), 1, err)
	if err != nil {
		return baseURL
	}
	return signed
}

func (m *MemoryStorageGateway) SignBatch(ctx context.Context, kind AssetKind, baseURLs []string, expiresIn time.Duration) ([]string, error) {
	start := time.Now()
	out := make([]string, len(baseURLs))
	var err error
	for i, u := range baseURLs {
		if out[i], err = m.sign(u, expiresIn); err != nil {
			out = nil
			break
		}
	}
	m.observer.RecordSign(time.Since(start), len(baseURLs), err)
	return out, err
}

// Open returns the stored bytes and content type for a base URL or key.
func (m *MemoryStorageGateway) Open(urlOrKey string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[m.keyFor(urlOrKey)]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), blob.data...), blob.contentType, true
}

func (m *MemoryStorageGateway) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
