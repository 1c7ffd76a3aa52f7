package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSign_EmptyInputMakesNoCall(t *testing.T) {
	gw := newFakeGateway()
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	assert.Equal(t, []string{}, b.BatchSign(context.Background(), nil, AssetImage, time.Hour))
	assert.Equal(t, []string{}, b.BatchSign(context.Background(), []string{}, AssetDocument, time.Hour))
	assert.Equal(t, 0, gw.calls())
}

func TestBatchSign_BlankEntriesOnlyMakesNoCall(t *testing.T) {
	gw := newFakeGateway()
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	out := b.BatchSign(context.Background(), []string{"", "   "}, AssetImage, time.Hour)

	assert.Equal(t, []string{"", "   "}, out)
	assert.Equal(t, 0, gw.calls())
}

func TestBatchSign_SignerFailureReturnsInput(t *testing.T) {
	gw := newFakeGateway()
	gw.signErr = errors.New("signer exploded")
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	in := []string{"http://x/a.png"}
	out := b.BatchSign(context.Background(), in, AssetImage, time.Hour)

	assert.Equal(t, []string{"http://x/a.png"}, out)
	assert.Equal(t, 1, gw.calls())
}

func TestBatchSign_LengthMismatchFallsBack(t *testing.T) {
	gw := newFakeGateway()
	gw.signResult = func(urls []string) []string { return urls[:1] }
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	in := []string{"http://x/a.png", "http://x/b.png", "http://x/c.png"}
	out := b.BatchSign(context.Background(), in, AssetImage, time.Hour)

	assert.Equal(t, in, out)
}

func TestBatchSign_PreservesOrderAndBlanks(t *testing.T) {
	gw := newFakeGateway()
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	in := []string{"http://x/a.pdf", " ", "http://x/b.pdf"}
	out := b.BatchSign(context.Background(), in, AssetDocument, time.Hour)

	require.Len(t, out, 3)
	assert.Equal(t, "http://x/a.pdf?signed=pdf", out[0])
	assert.Equal(t, " ", out[1])
	assert.Equal(t, "http://x/b.pdf?signed=pdf", out[2])
	assert.Equal(t, []string{"http://x/a.pdf", " ", "http://x/b.pdf"}, in, "input must not be mutated")
}

func TestBatchSign_CacheSkipsRepeatCalls(t *testing.T) {
	gw := newFakeGateway()
	b := NewSignedURLBatcher(gw, BatcherOptions{CacheSize: 16, CacheTTL: 10 * time.Minute}, nil)
	in := []string{"http://x/a.png", "http://x/b.png"}

	first := b.BatchSign(context.Background(), in, AssetImage, time.Hour)
	second := b.BatchSign(context.Background(), in, AssetImage, time.Hour)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.calls())

	// Windows shorter than the cache TTL are never served from cache.
	b.BatchSign(context.Background(), in, AssetImage, time.Minute)
	assert.Equal(t, 2, gw.calls())
}

func TestSignProductAssets_UnflattensPerProduct(t *testing.T) {
	gw := newFakeGateway()
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	products := []ProductAssets{
		{Images: []string{"i1", "i2"}, PDFFiles: []string{"d1"}},
		{},
		{Images: []string{"i3"}, PDFFiles: []string{"d2", "d3"}},
	}
	out := b.SignProductAssets(context.Background(), products, time.Hour)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"i1?signed=image", "i2?signed=image"}, out[0].Images)
	assert.Equal(t, []string{"d1?signed=pdf"}, out[0].PDFFiles)
	assert.Empty(t, out[1].Images)
	assert.Empty(t, out[1].PDFFiles)
	assert.Equal(t, []string{"i3?signed=image"}, out[2].Images)
	assert.Equal(t, []string{"d2?signed=pdf", "d3?signed=pdf"}, out[2].PDFFiles)
	assert.Equal(t, 2, gw.calls())
}

func TestSignProductAssets_FailureKeepsBaseURLs(t *testing.T) {
	gw := newFakeGateway()
	gw.signErr = errors.New("unavailable")
	b := NewSignedURLBatcher(gw, BatcherOptions{}, nil)

	products := []ProductAssets{{Images: []string{"i1"}, PDFFiles: []string{"d1"}}}
	out := b.SignProductAssets(context.Background(), products, time.Hour)

	assert.Equal(t, products, out)
}
