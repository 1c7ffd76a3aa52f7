package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/utils/chunker"
	"github.com/Rakhulsr/supplierhub/app/utils/format"
	"golang.org/x/time/rate"
)

type ChunkMetadata struct {
	ProductID  string   `json:"productId"`
	SupplierID string   `json:"supplierId"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Images     []string `json:"images"`
	PDFFiles   []string `json:"pdfFiles"`
	Context    string   `json:"context"`
}

// IndexChunk is one piece of a product's text. Chunks are rebuilt from the
// product on every sync and never stored locally.
type IndexChunk struct {
	ID       string
	Text     string
	Metadata ChunkMetadata
}

// IndexDocument is the unit written to a DocumentIndex.
type IndexDocument struct {
	ID        string        `json:"id"`
	Folder    string        `json:"folder"`
	Content   string        `json:"content"`
	Metadata  ChunkMetadata `json:"metadata"`
	IndexedAt time.Time     `json:"indexedAt"`
}

// DocumentIndex is an external search index. Upsert overwrites a document
// with the same id; deleting a missing id is not an error.
type DocumentIndex interface {
	Upsert(ctx context.Context, doc IndexDocument) error
	Delete(ctx context.Context, id string) error
}

type IndexSyncConfig struct {
	AppName       string
	MaxTokens     int
	// OverlapTokens defaults to 50 when zero; a negative value disables
	// overlap.
	OverlapTokens int
	// RatePerSecond paces sequential writes; zero or less disables pacing.
	RatePerSecond float64
}

type IndexSynchronizer struct {
	index    DocumentIndex
	cfg      IndexSyncConfig
	limiter  *rate.Limiter
	observer Observer
	now      func() time.Time
}

func NewIndexSynchronizer(index DocumentIndex, cfg IndexSyncConfig, observer Observer) *IndexSynchronizer {
	if index == nil {
		index = NopIndex{}
	}
	if cfg.AppName == "" {
		cfg.AppName = "SupplierHub"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = chunker.DefaultMaxTokens
	}
	if cfg.OverlapTokens == 0 {
		cfg.OverlapTokens = chunker.DefaultOverlapTokens
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &IndexSynchronizer{
		index:    index,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
		observer: observerOrNop(observer),
		now:      time.Now,
	}
}

func SupplierFolder(supplierID string) string {
	return "supplier-" + supplierID
}

func ChunkID(productID string, n int) string {
	return fmt.Sprintf("%s-chunk-%d", productID, n)
}

// RenderText builds the canonical text block indexed for a product.
func RenderText(p *models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Short Description: %s\n", p.ShortDescription)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	if strings.TrimSpace(p.Specifications) != "" {
		fmt.Fprintf(&b, "Specifications: %s\n", p.Specifications)
	}
	if price := format.OptionalMoney(p.Price); price != "" {
		fmt.Fprintf(&b, "Indicative Price: %s\n", price)
	}
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))
	fmt.Fprintf(&b, "Images: %s\n", strings.Join(p.Images, ", "))
	fmt.Fprintf(&b, "Files: %s", strings.Join(p.PDFFiles, ", "))
	return b.String()
}

func (s *IndexSynchronizer) BuildChunks(p *models.Product, supplierName string) []IndexChunk {
	if supplierName == "" {
		supplierName = "a supplier"
	}
	meta := ChunkMetadata{
		ProductID:  p.ID,
		SupplierID: p.SupplierID,
		Title:      p.Title,
		Tags:       append([]string{}, p.Tags...),
		Images:     append([]string{}, p.Images...),
		PDFFiles:   append([]string{}, p.PDFFiles...),
		Context:    fmt.Sprintf("Product from %s on %s: %s", supplierName, s.cfg.AppName, p.Title),
	}

	texts := chunker.Chunk(RenderText(p), s.cfg.MaxTokens, s.cfg.OverlapTokens)
	chunks := make([]IndexChunk, len(texts))
	for i, text := range texts {
		chunks[i] = IndexChunk{ID: ChunkID(p.ID, i), Text: text, Metadata: meta}
	}
	return chunks
}

// ChunkIDs lists the chunk ids a product occupies in the index.
func (s *IndexSynchronizer) ChunkIDs(p *models.Product) []string {
	chunks := s.BuildChunks(p, "")
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	return ids
}

// Ingest writes chunks one at a time into their supplier folder. The first
// failure stops the run and is reported as *helpers.IndexIngestError.
func (s *IndexSynchronizer) Ingest(ctx context.Context, chunks []IndexChunk) error {
	for _, c := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return &helpers.IndexIngestError{ChunkID: c.ID, Err: err}
		}
		start := time.Now()
		err := s.index.Upsert(ctx, IndexDocument{
			ID:        c.ID,
			Folder:    SupplierFolder(c.Metadata.SupplierID),
			Content:   c.Text,
			Metadata:  c.Metadata,
			IndexedAt: s.now().UTC(),
		})
		s.observer.RecordIndexWrite("upsert", time.Since(start), err)
		if err != nil {
			return &helpers.IndexIngestError{ChunkID: c.ID, Err: err}
		}
	}
	return nil
}

// Remove deletes every id, continuing past failures. Failures are logged and
// returned joined.
func (s *IndexSynchronizer) Remove(ctx context.Context, ids []string) error {
	var errs []error
	for _, id := range ids {
		start := time.Now()
		err := s.index.Delete(ctx, id)
		s.observer.RecordIndexWrite("delete", time.Since(start), err)
		if err != nil {
			log.Printf("WARN IndexSynchronizer.Remove: delete %s: %v", id, err)
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Sync ingests the product's current chunks, then removes previous ids the
// new chunk set no longer covers.
func (s *IndexSynchronizer) Sync(ctx context.Context, p *models.Product, supplierName string, previousIDs []string) error {
	chunks := s.BuildChunks(p, supplierName)
	if err := s.Ingest(ctx, chunks); err != nil {
		return err
	}
	current := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		current[c.ID] = struct{}{}
	}
	var stale []string
	for _, id := range previousIDs {
		if _, ok := current[id]; !ok {
			stale = append(stale, id)
		}
	}
	return s.Remove(ctx, stale)
}

// NopIndex discards writes. It is used when no index is configured.
type NopIndex struct{}

func (NopIndex) Upsert(context.Context, IndexDocument) error { return nil }

func (NopIndex) Delete(context.Context, string) error { return nil }
