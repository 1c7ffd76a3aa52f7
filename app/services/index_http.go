package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type HTTPIndexConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPDocumentIndex writes documents to a REST document index:
// PUT {base}/documents/{id} and DELETE {base}/documents/{id}.
type HTTPDocumentIndex struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewHTTPDocumentIndex(cfg HTTPIndexConfig) *HTTPDocumentIndex {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPDocumentIndex{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

func (x *HTTPDocumentIndex) documentURL(id string) string {
	return x.baseURL + "/documents/" + url.PathEscape(id)
}

func (x *HTTPDocumentIndex) send(req *http.Request, okStatus ...int) error {
	if x.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+x.apiKey)
	}
	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	for _, s := range okStatus {
		if resp.StatusCode == s {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("document index error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func (x *HTTPDocumentIndex) Upsert(ctx context.Context, doc IndexDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, x.documentURL(doc.ID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return x.send(req)
}

func (x *HTTPDocumentIndex) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, x.documentURL(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return x.send(req, http.StatusNotFound)
}
