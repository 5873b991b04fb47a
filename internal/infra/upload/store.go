// Package upload stores user-submitted images on the local filesystem
// behind the gocloud.dev blob abstraction. Stored names are opaque so a
// filename can never collide with or overwrite another user's upload.
package upload

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	"sharegarden/config"
	"sharegarden/internal/domain/service"
	"sharegarden/internal/errors"
)

// URLPrefix is the public path the HTTP layer serves stored files under.
const URLPrefix = "/uploads/"

type fileStore struct {
	bucket *blob.Bucket
	dir    string
}

// Params defines the dependencies for creating the upload store.
type Params struct {
	fx.In

	Config    *config.Config
	Lifecycle fx.Lifecycle
}

// New opens a fileblob bucket rooted at the configured uploads directory,
// creating the directory if needed.
func New(params Params) (service.UploadStore, error) {
	dir := params.Config.Uploads.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}

	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open uploads bucket")
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})

	return &fileStore{bucket: bucket, dir: dir}, nil
}

// Save writes the file under a random name, keeping only the original
// extension, and returns the public URL path of the stored file.
func (s *fileStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := uuid.NewString() + ext

	w, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return "", errors.Wrap(err, "open upload writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return "", errors.Wrap(err, "write upload")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "close upload")
	}

	return path.Join(URLPrefix, key), nil
}

// Wipe removes every stored file. Used by the database reset operation.
func (s *fileStore) Wipe(ctx context.Context) error {
	iter := s.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "list uploads")
		}
		if err := s.bucket.Delete(ctx, obj.Key); err != nil {
			return errors.Wrap(err, "delete upload")
		}
	}

	return nil
}
