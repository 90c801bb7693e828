package uploadsvc

import (
	"context"
	"io"
	"sync"
)

// InmemUploader keeps objects in memory; used in dev and tests.
type InmemUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

var _ Uploader = (*InmemUploader)(nil)

func NewInmemUploader(baseURL string) *InmemUploader {
	return &InmemUploader{
		objects: make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (u *InmemUploader) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	u.objects[key] = content
	u.mu.Unlock()
	return u.baseURL + "/" + key, nil
}

func (u *InmemUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.objects[key]; !ok {
		return ErrNotFound
	}
	delete(u.objects, key)
	return nil
}

// Get returns a stored object's content; test helper.
func (u *InmemUploader) Get(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	content, ok := u.objects[key]
	return content, ok
}
