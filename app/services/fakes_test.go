package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Rakhulsr/supplierhub/app/helpers"
)

// fakeGateway wraps the memory gateway with failure injection and call
// recording.
type fakeGateway struct {
	*MemoryStorageGateway

	mu          sync.Mutex
	failUploads map[string]bool
	failDeletes bool
	signErr     error
	signResult  func(urls []string) []string
	signCalls   int
	deleted     []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		MemoryStorageGateway: NewMemoryStorageGateway("http://blobs.test", nil, nil),
		failUploads:          map[string]bool{},
	}
}

func (f *fakeGateway) Upload(ctx context.Context, req UploadRequest) (string, error) {
	f.mu.Lock()
	fail := f.failUploads[req.Filename]
	f.mu.Unlock()
	if fail {
		return "", &helpers.StorageError{Op: "upload", Key: req.Filename, Err: errors.New("injected write failure")}
	}
	return f.MemoryStorageGateway.Upload(ctx, req)
}

func (f *fakeGateway) Delete(ctx context.Context, urlOrKey string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, urlOrKey)
	fail := f.failDeletes
	f.mu.Unlock()
	if fail {
		return &helpers.StorageError{Op: "delete", Key: urlOrKey, Err: errors.New("injected delete failure")}
	}
	return f.MemoryStorageGateway.Delete(ctx, urlOrKey)
}

func (f *fakeGateway) SignBatch(ctx context.Context, kind AssetKind, baseURLs []string, expiresIn time.Duration) ([]string, error) {
	f.mu.Lock()
	f.signCalls++
	err := f.signErr
	result := f.signResult
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result(baseURLs), nil
	}
	out := make([]string, len(baseURLs))
	for i, u := range baseURLs {
		out[i] = u + "?signed=" + kind.String()
	}
	return out, nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signCalls
}

func (f *fakeGateway) deletedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}
