package uploadsvc

import (
	"context"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
)

const opTimeout = 2 * time.Minute

type gcsUploader struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

var _ Uploader = (*gcsUploader)(nil)

func NewGCSUploader(ctx context.Context, conf *core.Config) (Uploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &gcsUploader{
		client:  client,
		bucket:  conf.Storage.Bucket,
		baseURL: strings.TrimRight(conf.Storage.BaseURL, "/"),
	}, nil
}

func (u *gcsUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing object "+key)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing writer for "+key)
	}
	return u.publicURL(key), nil
}

func (u *gcsUploader) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := u.client.Bucket(u.bucket).Object(key).Delete(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return ErrNotFound
		}
		return errors.Wrap(err, "deleting object "+key)
	}
	return nil
}

func (u *gcsUploader) publicURL(key string) string {
	return u.baseURL + "/" + u.bucket + "/" + key
}
