package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/genieblog/pkg/api"
)

// Store persists blogs.
type Store interface {
	CreateBlog(ctx context.Context, b api.Blog) (api.Blog, error)
	GetBlog(ctx context.Context, id int64) (api.Blog, error)
	// ListBlogs returns summaries, newest first.
	ListBlogs(ctx context.Context) ([]api.BlogSummary, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	DeleteBlog(ctx context.Context, id int64) error
	Close() error
}

var ErrNotFound = errors.New("not found")

// Open returns a Store based on a URL: sqlite://path or mem://.
// A bare path is treated as a sqlite file.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "mem://"):
		return newMemStore(), nil
	case strings.HasPrefix(dsn, "sqlite://"), !strings.Contains(dsn, "://"):
		return openSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store url %q", dsn)
	}
}

// orEmptyObject stores "{}" for research steps that returned nothing.
func orEmptyObject(raw []byte) []byte {
	if len(raw) == 0 {
		return api.EmptyObject
	}
	return raw
}
