package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// DefaultSignedURLExpiry is used when a caller does not ask for a window.
const DefaultSignedURLExpiry = time.Hour

// UploadRequest is one file handed to the storage gateway.
type UploadRequest struct {
	Data        []byte
	Filename    string
	ContentType string
	Kind        AssetKind
	OwnerID     string
	ProductID   string
}

// StorageGateway stores product assets and hands out time-limited read URLs.
// Upload returns a stable base URL; signed URLs are derived from base URLs on
// demand and must never be persisted.
type StorageGateway interface {
	Upload(ctx context.Context, req UploadRequest) (string, error)
	// Delete removes the object behind a base URL or storage key. Callers
	// treat failures as best effort.
	Delete(ctx context.Context, urlOrKey string) error
	// SignedURL never fails: when signing is not possible the base URL is
	// returned unchanged.
	SignedURL(ctx context.Context, baseURL string, expiresIn time.Duration) string
	// SignBatch signs every URL in one call. The result is parallel to
	// baseURLs; any failure fails the whole batch.
	SignBatch(ctx context.Context, kind AssetKind, baseURLs []string, expiresIn time.Duration) ([]string, error)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an
// underscore.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// ObjectKey derives the storage key {owner}/{product|new}/{millis}-{filename}.
func ObjectKey(ownerID, productID, filename string, now time.Time) string {
	if ownerID == "" {
		ownerID = "anonymous"
	}
	if productID == "" {
		productID = "new"
	}
	return fmt.Sprintf("%s/%s/%d-%s", SanitizeFilename(ownerID), SanitizeFilename(productID), now.UnixMilli(), SanitizeFilename(filename))
}

// OwnedBy reports whether an asset URL or key was stored under the owner's
// prefix, i.e. its owner segment matches ObjectKey's.
func OwnedBy(assetURL, ownerID string) bool {
	if ownerID == "" {
		return false
	}
	if i := strings.IndexAny(assetURL, "?#"); i >= 0 {
		assetURL = assetURL[:i]
	}
	segments := strings.Split(assetURL, "/")
	if len(segments) < 3 {
		return false
	}
	return segments[len(segments)-3] == SanitizeFilename(ownerID)
}

// DisplayFilename is the trailing path segment of an asset URL with the
// upload timestamp prefix removed.
func DisplayFilename(assetURL string) string {
	if i := strings.IndexAny(assetURL, "?#"); i >= 0 {
		assetURL = assetURL[:i]
	}
	name := path.Base(assetURL)
	if dash := strings.IndexByte(name, '-'); dash > 0 {
		allDigits := true
		for _, r := range name[:dash] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			return name[dash+1:]
		}
	}
	return name
}
