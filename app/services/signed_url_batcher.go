package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

type BatcherOptions struct {
	// CacheSize enables an LRU of signed URLs when positive.
	CacheSize int
	// CacheTTL bounds how long a signed URL is reused. Requests whose expiry
	// window is not longer than CacheTTL bypass the cache.
	CacheTTL time.Duration
}

// SignedURLBatcher turns lists of base asset URLs into signed URLs with one
// storage call per list. Signing failures degrade to the unsigned input.
type SignedURLBatcher struct {
	gateway  StorageGateway
	cache    *expirable.LRU[string, string]
	cacheTTL time.Duration
	observer Observer
}

func NewSignedURLBatcher(gateway StorageGateway, opts BatcherOptions, observer Observer) *SignedURLBatcher {
	b := &SignedURLBatcher{gateway: gateway, observer: observerOrNop(observer)}
	if opts.CacheSize > 0 {
		if opts.CacheTTL <= 0 {
			opts.CacheTTL = DefaultSignedURLExpiry / 2
		}
		b.cache = expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL)
		b.cacheTTL = opts.CacheTTL
	}
	return b
}

func cacheKey(kind AssetKind, expiresIn time.Duration, u string) string {
	return fmt.Sprintf("%d|%d|%s", kind, expiresIn/time.Second, u)
}

func (b *SignedURLBatcher) cacheable(expiresIn time.Duration) bool {
	return b.cache != nil && expiresIn > b.cacheTTL
}

// BatchSign returns a slice parallel to urls. Blank entries are passed
// through and never sent. If nothing needs signing no call is made. When the
// signing call fails in any way the input is returned unchanged.
func (b *SignedURLBatcher) BatchSign(ctx context.Context, urls []string, kind AssetKind, expiresIn time.Duration) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	if len(urls) == 0 {
		return out
	}
	if expiresIn <= 0 {
		expiresIn = DefaultSignedURLExpiry
	}

	useCache := b.cacheable(expiresIn)
	positions := make([]int, 0, len(urls))
	pending := make([]string, 0, len(urls))
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if useCache {
			if signed, ok := b.cache.Get(cacheKey(kind, expiresIn, u)); ok {
				out[i] = signed
				continue
			}
		}
		positions = append(positions, i)
		pending = append(pending, u)
	}
	if len(pending) == 0 {
		return out
	}

	signed, err := b.gateway.SignBatch(ctx, kind, pending, expiresIn)
	if err == nil && len(signed) != len(pending) {
		err = fmt.Errorf("signer returned %d urls for %d inputs", len(signed), len(pending))
	}
	if err != nil {
		log.Printf("WARN SignedURLBatcher.BatchSign: falling back to %d unsigned %s urls: %v", len(urls), kind, err)
		b.observer.RecordSignFallback(kind)
		fallback := make([]string, len(urls))
		copy(fallback, urls)
		return fallback
	}

	for j, pos := range positions {
		out[pos] = signed[j]
		if useCache {
			b.cache.Add(cacheKey(kind, expiresIn, pending[j]), signed[j])
		}
	}
	return out
}

// ProductAssets holds the two asset lists of one product.
type ProductAssets struct {
	Images   []string `json:"images"`
	PDFFiles []string `json:"pdfFiles"`
}

type assetRange struct {
	imgStart, imgEnd int
	pdfStart, pdfEnd int
}

// SignProductAssets signs the assets of many products with at most two
// concurrent storage calls: one for every image, one for every document.
func (b *SignedURLBatcher) SignProductAssets(ctx context.Context, products []ProductAssets, expiresIn time.Duration) []ProductAssets {
	ranges := make([]assetRange, len(products))
	var images, pdfs []string
	for i, p := range products {
		ranges[i].imgStart = len(images)
		images = append(images, p.Images...)
		ranges[i].imgEnd = len(images)
		ranges[i].pdfStart = len(pdfs)
		pdfs = append(pdfs, p.PDFFiles...)
		ranges[i].pdfEnd = len(pdfs)
	}

	var signedImages, signedPDFs []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		signedImages = b.BatchSign(gctx, images, AssetImage, expiresIn)
		return nil
	})
	g.Go(func() error {
		signedPDFs = b.BatchSign(gctx, pdfs, AssetDocument, expiresIn)
		return nil
	})
	_ = g.Wait()

	out := make([]ProductAssets, len(products))
	for i, r := range ranges {
		out[i] = ProductAssets{
			Images:   append([]string{}, signedImages[r.imgStart:r.imgEnd]...),
			PDFFiles: append([]string{}, signedPDFs[r.pdfStart:r.pdfEnd]...),
		}
	}
	return out
}
