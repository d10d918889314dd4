package attachment

import (
	"context"
	"time"
)

// ObjectStore is the blob storage the manager writes to.
type ObjectStore interface {
	// Store writes data under key and returns the public URL of the object.
	Store(ctx context.Context, data []byte, key, contentType string) (string, error)
	// Remove deletes the object behind url. A missing object is not an error.
	Remove(ctx context.Context, url string) error
	// KeyFromURL maps a URL produced by Store back to its storage key.
	KeyFromURL(url string) (string, error)
}

// ObjectInfo describes a stored object returned by a Lister.
type ObjectInfo struct {
	Key          string
	URL          string
	Size         int64
	LastModified time.Time
}

// Lister is implemented by stores that can enumerate objects under a prefix.
type Lister interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// DeletionRetrier takes over best-effort deletions that failed.
type DeletionRetrier interface {
	RetryDeletion(ctx context.Context, url string, cause error) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) InfoWithContextf(context.Context, string, ...interface{}) {}
func (nopLogger) WarningWithContextf(context.Context, string, ...interface{}) {}
func (nopLogger) ErrorWithContextf(context.Context, error, string, ...interface{}) {}
