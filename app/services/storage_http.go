package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
)

type HTTPStorageConfig struct {
	BaseURL        string
	ServiceKey     string
	ImageBucket    string
	DocumentBucket string
	Timeout        time.Duration
}

// HTTPStorageGateway talks to an object storage REST API that exposes
// public object URLs under /storage/v1/object/public/{bucket}/{key} and signs
// keys under /storage/v1/object/sign.
type HTTPStorageGateway struct {
	client   *http.Client
	cfg      HTTPStorageConfig
	observer Observer
	now      func() time.Time
}

func NewHTTPStorageGateway(cfg HTTPStorageConfig, observer Observer) *HTTPStorageGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ImageBucket == "" {
		cfg.ImageBucket = "product-images"
	}
	if cfg.DocumentBucket == "" {
		cfg.DocumentBucket = "product-files"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPStorageGateway{
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		observer: observerOrNop(observer),
		now:      time.Now,
	}
}

func (g *HTTPStorageGateway) bucketFor(kind AssetKind) string {
	if kind == AssetDocument {
		return g.cfg.DocumentBucket
	}
	return g.cfg.ImageBucket
}

func (g *HTTPStorageGateway) publicPrefix() string {
	return g.cfg.BaseURL + "/storage/v1/object/public/"
}

func (g *HTTPStorageGateway) publicURL(bucket, key string) string {
	return g.publicPrefix() + bucket + "/" + key
}

// resolve turns a base URL or a bare key back into bucket and key. Bare keys
// without a known bucket prefix are assumed to live in the image bucket.
func (g *HTTPStorageGateway) resolve(urlOrKey string) (bucket, key string, err error) {
	raw := strings.TrimSpace(urlOrKey)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if strings.Contains(raw, "://") {
		if !strings.HasPrefix(raw, g.publicPrefix()) {
			return "", "", fmt.Errorf("url %q is not served by this storage", urlOrKey)
		}
		raw = strings.TrimPrefix(raw, g.publicPrefix())
		bucket, key, ok := strings.Cut(raw, "/")
		if !ok || key == "" {
			return "", "", fmt.Errorf("url %q has no object key", urlOrKey)
		}
		return bucket, unescapePath(key), nil
	}

	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return "", "", errors.New("empty storage key")
	}
	if b, k, ok := strings.Cut(raw, "/"); ok && (b == g.cfg.ImageBucket || b == g.cfg.DocumentBucket) {
		return b, k, nil
	}
	return g.cfg.ImageBucket, raw, nil
}

func unescapePath(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}

func (g *HTTPStorageGateway) newRequest(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.ServiceKey)
	req.Header.Set("apikey", g.cfg.ServiceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do executes req and decodes a JSON body into out when out is non-nil.
func (g *HTTPStorageGateway) do(req *http.Request, op, key string, out interface{}) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return &helpers.StorageError{Op: op, Key: key, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &helpers.StorageError{Op: op, Key: key, Err: fmt.Errorf("read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &helpers.StorageError{Op: op, Key: key, Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(body)))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &helpers.StorageError{Op: op, Key: key, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (g *HTTPStorageGateway) Upload(ctx context.Context, in UploadRequest) (string, error) {
	start := time.Now()
	bucket := g.bucketFor(in.Kind)
	key := ObjectKey(in.OwnerID, in.ProductID, in.Filename, g.now())

	err := g.upload(ctx, bucket, key, in)
	g.observer.RecordUpload(time.Since(start), int64(len(in.Data)), err)
	if err != nil {
		return "", err
	}
	return g.publicURL(bucket, key), nil
}

func (g *HTTPStorageGateway) upload(ctx context.Context, bucket, key string, in UploadRequest) error {
	if len(in.Data) == 0 {
		return &helpers.StorageError{Op: "upload", Key: key, Err: errors.New("empty payload")}
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req, err := g.newRequest(ctx, http.MethodPost, "/storage/v1/object/"+bucket+"/"+key, bytes.NewReader(in.Data), contentType)
	if err != nil {
		return &helpers.StorageError{Op: "upload", Key: key, Err: err}
	}
	req.Header.Set("x-upsert", "false")
	req.Header.Set("cache-control", "3600")
	return g.do(req, "upload", key, nil)
}

func (g *HTTPStorageGateway) Delete(ctx context.Context, urlOrKey string) error {
	start := time.Now()
	err := g.delete(ctx, urlOrKey)
	g.observer.RecordDelete(time.Since(start), err)
	return err
}

func (g *HTTPStorageGateway) delete(ctx context.Context, urlOrKey string) error {
	bucket, key, err := g.resolve(urlOrKey)
	if err != nil {
		return &helpers.StorageError{Op: "delete", Key: urlOrKey, Err: err}
	}
	payload, err := json.Marshal(map[string][]string{"prefixes": {key}})
	if err != nil {
		return &helpers.StorageError{Op: "delete", Key: key, Err: err}
	}
	req, err := g.newRequest(ctx, http.MethodDelete, "/storage/v1/object/"+bucket, bytes.NewReader(payload), "application/json")
	if err != nil {
		return &helpers.StorageError{Op: "delete", Key: key, Err: err}
	}

	var removed []struct {
		Name string `json:"name"`
	}
	if err := g.do(req, "delete", key, &removed); err != nil {
		return err
	}
	if len(removed) == 0 {
		return &helpers.StorageError{Op: "delete", Key: key, Err: errors.New("object not found")}
	}
	return nil
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
}

type batchSignItem struct {
	Path      string  `json:"path"`
	SignedURL string  `json:"signedURL"`
	Error     *string `json:"error"`
}

func (g *HTTPStorageGateway) absolute(signedPath string) string {
	if strings.Contains(signedPath, "://") {
		return signedPath
	}
	return g.cfg.BaseURL + "/storage/v1" + signedPath
}

func expirySeconds(expiresIn time.Duration) int {
	if expiresIn <= 0 {
		expiresIn = DefaultSignedURLExpiry
	}
	secs := int(expiresIn / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (g *HTTPStorageGateway) SignedURL(ctx context.Context, baseURL string, expiresIn time.Duration) string {
	start := time.Now()
	signed, err := g.signOne(ctx, baseURL, expiresIn)
	g.observer.RecordSign(time.Since(start), 1, err)
	if err != nil {
		log.Printf("WARN HTTPStorageGateway.SignedURL: serving unsigned url: %v", err)
		return baseURL
	}
	return signed
}

func (g *HTTPStorageGateway) signOne(ctx context.Context, baseURL string, expiresIn time.Duration) (string, error) {
	bucket, key, err := g.resolve(baseURL)
	if err != nil {
		return "", &helpers.StorageError{Op: "sign", Key: baseURL, Err: err}
	}
	payload, err := json.Marshal(map[string]int{"expiresIn": expirySeconds(expiresIn)})
	if err != nil {
		return "", &helpers.StorageError{Op: "sign", Key: key, Err: err}
	}
	req, err := g.newRequest(ctx, http.MethodPost, "/storage/v1/object/sign/"+bucket+"/"+key, bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", &helpers.StorageError{Op: "sign", Key: key, Err: err}
	}
	var out signResponse
	if err := g.do(req, "sign", key, &out); err != nil {
		return "", err
	}
	if out.SignedURL == "" {
		return "", &helpers.StorageError{Op: "sign", Key: key, Err: errors.New("empty signed url in response")}
	}
	return g.absolute(out.SignedURL), nil
}

func (g *HTTPStorageGateway) SignBatch(ctx context.Context, kind AssetKind, baseURLs []string, expiresIn time.Duration) ([]string, error) {
	start := time.Now()
	signed, err := g.signBatch(ctx, kind, baseURLs, expiresIn)
	g.observer.RecordSign(time.Since(start), len(baseURLs), err)
	return signed, err
}

func (g *HTTPStorageGateway) signBatch(ctx context.Context, kind AssetKind, baseURLs []string, expiresIn time.Duration) ([]string, error) {
	if len(baseURLs) == 0 {
		return []string{}, nil
	}
	bucket := g.bucketFor(kind)
	paths := make([]string, len(baseURLs))
	for i, u := range baseURLs {
		b, key, err := g.resolve(u)
		if err != nil {
			return nil, &helpers.StorageError{Op: "sign", Key: u, Err: err}
		}
		if b != bucket {
			return nil, &helpers.StorageError{Op: "sign", Key: u, Err: fmt.Errorf("object lives in bucket %q, expected %q", b, bucket)}
		}
		paths[i] = key
	}

	payload, err := json.Marshal(struct {
		ExpiresIn int      `json:"expiresIn"`
		Paths     []string `json:"paths"`
	}{expirySeconds(expiresIn), paths})
	if err != nil {
		return nil, &helpers.StorageError{Op: "sign", Key: bucket, Err: err}
	}
	req, err := g.newRequest(ctx, http.MethodPost, "/storage/v1/object/sign/"+bucket, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, &helpers.StorageError{Op: "sign", Key: bucket, Err: err}
	}

	var items []batchSignItem
	if err := g.do(req, "sign", bucket, &items); err != nil {
		return nil, err
	}
	if len(items) != len(paths) {
		return nil, &helpers.StorageError{Op: "sign", Key: bucket, Err: fmt.Errorf("signed %d of %d paths", len(items), len(paths))}
	}
	out := make([]string, len(items))
	for i, item := range items {
		if item.Error != nil && *item.Error != "" {
			return nil, &helpers.StorageError{Op: "sign", Key: paths[i], Err: errors.New(*item.Error)}
		}
		if item.SignedURL == "" {
			return nil, &helpers.StorageError{Op: "sign", Key: paths[i], Err: errors.New("empty signed url in response")}
		}
		out[i] = g.absolute(item.SignedURL)
	}
	return out, nil
}
