package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/philippgille/chromem-go"
)

const (
	chromemCollection   = "products"
	hashEmbeddingDims   = 256
	defaultSearchResult = 10
)

// ChromemIndex is an embedded document index backed by chromem-go. Documents
// are embedded with a hashed bag of words so no embedding service is needed.
type ChromemIndex struct {
	collection *chromem.Collection
}

// NewChromemIndex opens the index. An empty path keeps it in memory only.
func NewChromemIndex(persistPath string) (*ChromemIndex, error) {
	var db *chromem.DB
	if persistPath == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(persistPath, true)
		if err != nil {
			return nil, fmt.Errorf("open chromem db at %s: %w", persistPath, err)
		}
	}
	coll, err := db.GetOrCreateCollection(chromemCollection, nil, HashEmbedding)
	if err != nil {
		return nil, fmt.Errorf("get chromem collection: %w", err)
	}
	return &ChromemIndex{collection: coll}, nil
}

// HashEmbedding maps text onto a normalized, fixed-size term frequency vector
// using FNV hashing of lower-cased words.
func HashEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, hashEmbeddingDims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%hashEmbeddingDims]++
	}
	if len(words) == 0 {
		vec[0] = 1
		return vec, nil
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func (c *ChromemIndex) Upsert(ctx context.Context, doc IndexDocument) error {
	return c.collection.AddDocument(ctx, chromem.Document{
		ID:      doc.ID,
		Content: doc.Content,
		Metadata: map[string]string{
			"folder":     doc.Folder,
			"productId":  doc.Metadata.ProductID,
			"supplierId": doc.Metadata.SupplierID,
			"title":      doc.Metadata.Title,
			"tags":       strings.Join(doc.Metadata.Tags, ","),
			"images":     strings.Join(doc.Metadata.Images, ","),
			"pdfFiles":   strings.Join(doc.Metadata.PDFFiles, ","),
			"context":    doc.Metadata.Context,
			"indexedAt":  doc.IndexedAt.Format(time.RFC3339),
		},
	})
}

func (c *ChromemIndex) Delete(ctx context.Context, id string) error {
	return c.collection.Delete(ctx, nil, nil, id)
}

func (c *ChromemIndex) Count() int {
	return c.collection.Count()
}

// SearchHit is one chunk returned by Search.
type SearchHit struct {
	ChunkID    string  `json:"chunkId"`
	ProductID  string  `json:"productId"`
	SupplierID string  `json:"supplierId"`
	Title      string  `json:"title"`
	Context    string  `json:"context"`
	Snippet    string  `json:"snippet"`
	Similarity float32 `json:"similarity"`
}

// Search returns up to limit chunks ordered by similarity to query.
func (c *ChromemIndex) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = defaultSearchResult
	}
	count := c.collection.Count()
	if count == 0 || strings.TrimSpace(query) == "" {
		return []SearchHit{}, nil
	}
	if limit > count {
		limit = count
	}
	results, err := c.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query chromem: %w", err)
	}
	hits := make([]SearchHit, len(results))
	for i, r := range results {
		snippet := r.Content
		if runes := []rune(snippet); len(runes) > 240 {
			snippet = string(runes[:240])
		}
		hits[i] = SearchHit{
			ChunkID:    r.ID,
			ProductID:  r.Metadata["productId"],
			SupplierID: r.Metadata["supplierId"],
			Title:      r.Metadata["title"],
			Context:    r.Metadata["context"],
			Snippet:    snippet,
			Similarity: r.Similarity,
		}
	}
	return hits, nil
}
