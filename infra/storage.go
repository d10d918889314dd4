package infra

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/config"
)

const (
	StorageDriverMinio  = "minio"
	StorageDriverS3     = "s3"
	StorageDriverMemory = "memory"
)

// ObjectStorage is what the admin API needs from a storage backend.
type ObjectStorage interface {
	attachment.ObjectStore
	attachment.Lister
	Ping(ctx context.Context) error
}

// PublicURLs maps storage keys to public URLs of the form
// <base>/<bucket>/<key> and back.
type PublicURLs struct {
	Base   string
	Bucket string
}

func NewPublicURLs(base, bucket string) PublicURLs {
	return PublicURLs{
		Base:   strings.TrimRight(base, "/"),
		Bucket: strings.Trim(bucket, "/"),
	}
}

func (p PublicURLs) Root() string {
	return p.Base + "/" + p.Bucket
}

func (p PublicURLs) URL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return p.Root() + "/" + strings.Join(segments, "/")
}

func (p PublicURLs) Key(rawURL string) (string, error) {
	rest, ok := strings.CutPrefix(rawURL, p.Root()+"/")
	if !ok {
		return "", fmt.Errorf("url %q is outside bucket %s", rawURL, p.Root())
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("malformed object url %q: %w", rawURL, err)
	}
	if key == "" {
		return "", fmt.Errorf("url %q has no object key", rawURL)
	}
	return key, nil
}

// InitStorage builds the storage backend selected by STORAGE_DRIVER.
func InitStorage(cfg *config.EnvConfig) ObjectStorage {
	urls := NewPublicURLs(cfg.Storage.PublicURL, cfg.Storage.Bucket)

	switch cfg.Storage.Driver {
	case StorageDriverMinio, "":
		return InitMinioClient(cfg, urls)
	case StorageDriverS3:
		return InitS3Client(cfg, urls)
	case StorageDriverMemory:
		return attachment.NewMemoryStore(urls.Root())
	default:
		panic(fmt.Sprintf("Unknown storage driver %q", cfg.Storage.Driver))
	}
}
