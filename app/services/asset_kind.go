package services

import (
	"fmt"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
)

// AssetKind is the closed set of file classes a product can carry.
type AssetKind int

const (
	AssetImage AssetKind = iota + 1
	AssetDocument
)

const (
	MaxImageSize    int64 = 10 << 20
	MaxDocumentSize int64 = 50 << 20
)

var allowedContentTypes = map[AssetKind][]string{
	AssetImage:    {"image/jpeg", "image/png", "image/webp", "image/gif"},
	AssetDocument: {"application/pdf"},
}

// ParseAssetKind accepts the discriminators used by the upload and
// signed-URL endpoints: image, images, pdf, pdfs, document, documents.
func ParseAssetKind(s string) (AssetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "images":
		return AssetImage, nil
	case "pdf", "pdfs", "document", "documents":
		return AssetDocument, nil
	}
	return 0, fmt.Errorf("unknown asset type %q", s)
}

func (k AssetKind) String() string {
	switch k {
	case AssetImage:
		return "image"
	case AssetDocument:
		return "pdf"
	}
	return "unknown"
}

// Plural is the form echoed back by the signed-URL endpoint.
func (k AssetKind) Plural() string {
	return k.String() + "s"
}

func (k AssetKind) MaxSize() int64 {
	if k == AssetDocument {
		return MaxDocumentSize
	}
	return MaxImageSize
}

func (k AssetKind) Allows(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, allowed := range allowedContentTypes[k] {
		if ct == allowed {
			return true
		}
	}
	return false
}

// Check rejects empty files, files over the size ceiling and content types the
// kind does not accept.
func (k AssetKind) Check(contentType string, size int64) error {
	switch {
	case size <= 0:
		return helpers.NewValidationError("file is empty", map[string]string{"file": "file is empty"})
	case size > k.MaxSize():
		msg := fmt.Sprintf("%s exceeds the %dMB limit", k, k.MaxSize()>>20)
		return helpers.NewValidationError(msg, map[string]string{"file": msg})
	case !k.Allows(contentType):
		msg := fmt.Sprintf("content type %q is not allowed for %s uploads", contentType, k)
		return helpers.NewValidationError(msg, map[string]string{"file": msg})
	}
	return nil
}
