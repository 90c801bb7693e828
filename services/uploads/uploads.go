package uploadsvc

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
)

var ErrNotFound = errors.New("object not found")

// Uploader is any service that can store and remove uploaded objects.
type Uploader interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// ReplaceImage uploads the new object first, then deletes the old one.
// The delete is best-effort: a failure is logged and the new URL returned,
// since the new object is already live.
func ReplaceImage(ctx context.Context, up Uploader, logger core.Logger, oldKey, newKey, contentType string, r io.Reader) (string, error) {
	url, err := up.Upload(ctx, newKey, contentType, r)
	if err != nil {
		return "", errors.Wrap(err, "uploading replacement image")
	}
	if oldKey != "" && oldKey != newKey {
		if err := up.Delete(ctx, oldKey); err != nil {
			logger.Warn("deleting replaced image "+oldKey, err)
		}
	}
	return url, nil
}
