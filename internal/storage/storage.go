package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Storage abstracts the case-images bucket. The local filesystem
// implementation can be swapped for S3 / R2 without touching handlers.
type Storage interface {
	// Save stores a file and returns its public URL.
	// key is a unique path within the bucket (see ObjectKey).
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes the file at key.
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free object key under the given prefix,
// named by upload timestamp plus a random suffix,
// e.g. "cases/<id>/1700000000000-6f1a....jpg".
func ObjectKey(prefix, ext string) string {
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	return path.Join(prefix, name)
}
