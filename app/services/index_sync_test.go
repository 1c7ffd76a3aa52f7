package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndex struct {
	mu      sync.Mutex
	docs    map[string]IndexDocument
	upserts []string
	deletes []string
	failOn  map[string]bool
	failAll bool
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{docs: map[string]IndexDocument{}, failOn: map[string]bool{}}
}

func (r *recordingIndex) Upsert(ctx context.Context, doc IndexDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts = append(r.upserts, doc.ID)
	if r.failAll || r.failOn[doc.ID] {
		return errors.New("index unavailable")
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *recordingIndex) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, id)
	if r.failAll || r.failOn[id] {
		return errors.New("index unavailable")
	}
	delete(r.docs, id)
	return nil
}

func (r *recordingIndex) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.docs))
	for id := range r.docs {
		out = append(out, id)
	}
	return out
}

func sampleProduct() *models.Product {
	return &models.Product{
		ID:               "p1",
		SupplierID:       "s1",
		Title:            "Hydraulic Pump",
		ShortDescription: "Gear pump",
		Description:      "Cast iron gear pump for industrial use.",
		Tags:             []string{"pump", "hydraulics"},
		Images:           []string{"http://b/i1.png"},
		PDFFiles:         []string{"http://b/d1.pdf"},
	}
}

func TestRenderText(t *testing.T) {
	p := sampleProduct()
	text := RenderText(p)

	assert.Contains(t, text, "Title: Hydraulic Pump\n")
	assert.Contains(t, text, "Tags: pump, hydraulics\n")
	assert.Contains(t, text, "Images: http://b/i1.png\n")
	assert.Contains(t, text, "Files: http://b/d1.pdf")
	assert.NotContains(t, text, "Specifications:")
	assert.NotContains(t, text, "Indicative Price:")

	p.Specifications = "Flow 20 l/min"
	assert.Contains(t, RenderText(p), "Specifications: Flow 20 l/min\n")
}

func TestBuildChunks(t *testing.T) {
	s := NewIndexSynchronizer(newRecordingIndex(), IndexSyncConfig{AppName: "SupplierHub"}, nil)
	p := sampleProduct()
	p.Description = strings.Repeat("steel ", 700)

	chunks := s.BuildChunks(p, "Acme Ltd")

	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, ChunkID("p1", i), c.ID)
		assert.Equal(t, "p1", c.Metadata.ProductID)
		assert.Equal(t, "s1", c.Metadata.SupplierID)
		assert.Equal(t, []string{"pump", "hydraulics"}, c.Metadata.Tags)
		assert.Equal(t, "Product from Acme Ltd on SupplierHub: Hydraulic Pump", c.Metadata.Context)
	}
	assert.Equal(t, []string{"p1-chunk-0", "p1-chunk-1", "p1-chunk-2"}, s.ChunkIDs(p))
}

func TestIngest_WritesSequentiallyIntoSupplierFolder(t *testing.T) {
	idx := newRecordingIndex()
	s := NewIndexSynchronizer(idx, IndexSyncConfig{MaxTokens: 10, OverlapTokens: 2}, nil)
	chunks := s.BuildChunks(sampleProduct(), "Acme")
	require.Greater(t, len(chunks), 2)

	require.NoError(t, s.Ingest(context.Background(), chunks))

	for i, id := range idx.upserts {
		assert.Equal(t, ChunkID("p1", i), id)
	}
	doc := idx.docs["p1-chunk-0"]
	assert.Equal(t, "supplier-s1", doc.Folder)
	assert.False(t, doc.IndexedAt.IsZero())
}

func TestIngest_StopsAtFirstFailure(t *testing.T) {
	idx := newRecordingIndex()
	idx.failOn["p1-chunk-1"] = true
	s := NewIndexSynchronizer(idx, IndexSyncConfig{MaxTokens: 10, OverlapTokens: 2}, nil)
	chunks := s.BuildChunks(sampleProduct(), "Acme")

	err := s.Ingest(context.Background(), chunks)

	var ierr *helpers.IndexIngestError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "p1-chunk-1", ierr.ChunkID)
	assert.Equal(t, []string{"p1-chunk-0", "p1-chunk-1"}, idx.upserts)
}

func TestRemove_ContinuesPastFailures(t *testing.T) {
	idx := newRecordingIndex()
	idx.failOn["b"] = true
	s := NewIndexSynchronizer(idx, IndexSyncConfig{}, nil)

	err := s.Remove(context.Background(), []string{"a", "b", "c"})

	assert.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, idx.deletes)
	assert.NoError(t, s.Remove(context.Background(), nil))
}

func TestSync_RemovesStaleChunks(t *testing.T) {
	idx := newRecordingIndex()
	s := NewIndexSynchronizer(idx, IndexSyncConfig{}, nil)
	p := sampleProduct()
	p.Description = strings.Repeat("long text ", 500)
	require.NoError(t, s.Sync(context.Background(), p, "Acme", nil))
	previous := s.ChunkIDs(p)
	require.Len(t, previous, 3)

	p.Description = "short"
	require.NoError(t, s.Sync(context.Background(), p, "Acme", previous))

	assert.ElementsMatch(t, []string{"p1-chunk-0"}, idx.ids())
}

func TestHTTPDocumentIndex(t *testing.T) {
	var mu sync.Mutex
	stored := map[string]IndexDocument{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "Bearer idx-key", r.Header.Get("Authorization"))
		id := strings.TrimPrefix(r.URL.Path, "/documents/")
		switch r.Method {
		case http.MethodPut:
			var doc IndexDocument
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
			stored[id] = doc
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			if _, ok := stored[id]; !ok {
				http.NotFound(w, r)
				return
			}
			delete(stored, id)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer ts.Close()

	idx := NewHTTPDocumentIndex(HTTPIndexConfig{BaseURL: ts.URL + "/", APIKey: "idx-key"})
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, IndexDocument{ID: "p1-chunk-0", Folder: "supplier-s1", Content: "hello"}))
	assert.Equal(t, "supplier-s1", stored["p1-chunk-0"].Folder)

	require.NoError(t, idx.Delete(ctx, "p1-chunk-0"))
	require.NoError(t, idx.Delete(ctx, "p1-chunk-0"), "missing ids are not an error")
}

func TestHTTPDocumentIndex_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	idx := NewHTTPDocumentIndex(HTTPIndexConfig{BaseURL: ts.URL})
	err := idx.Upsert(context.Background(), IndexDocument{ID: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestChromemIndex_UpsertSearchDelete(t *testing.T) {
	idx, err := NewChromemIndex("")
	require.NoError(t, err)
	s := NewIndexSynchronizer(idx, IndexSyncConfig{}, nil)
	ctx := context.Background()

	hits, err := idx.Search(ctx, "pump", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	pump := sampleProduct()
	valve := &models.Product{ID: "p2", SupplierID: "s2", Title: "Brass Valve", Description: "Ball valve made of brass", Tags: []string{"valve"}}
	require.NoError(t, s.Sync(ctx, pump, "Acme", nil))
	require.NoError(t, s.Sync(ctx, valve, "Brassworks", nil))
	assert.Equal(t, 2, idx.Count())

	hits, err = idx.Search(ctx, "brass valve", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "p2", hits[0].ProductID)
	assert.Equal(t, "Product from Brassworks on SupplierHub: Brass Valve", hits[0].Context)

	require.NoError(t, s.Sync(ctx, pump, "Acme", nil), "re-sync overwrites same ids")
	assert.Equal(t, 2, idx.Count())

	require.NoError(t, s.Remove(ctx, s.ChunkIDs(valve)))
	assert.Equal(t, 1, idx.Count())
}
