package clients

import (
	"context"
	"time"

	"library-ledger/internal/core/domain"
	"library-ledger/internal/core/services"
	"library-ledger/internal/pkg/cache"

	"go.uber.org/zap"
)

// CatalogClient looks books up in the catalog service. Found books are
// cached when a cache is configured; misses and errors are never cached.
type CatalogClient struct {
	base
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogClient creates a catalog client. c may be nil.
func NewCatalogClient(baseURL string, timeout time.Duration, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *CatalogClient {
	return &CatalogClient{
		base:     newBase("catalog", baseURL, timeout),
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

var _ services.BookLookup = (*CatalogClient)(nil)

// GetBook returns the book or an error matching ErrNotFound or
// ErrUnavailable
func (c *CatalogClient) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	if c.cache != nil {
		var cached domain.Book
		found, err := c.cache.Get(ctx, cache.BookKey(id), &cached)
		if err != nil {
			c.logger.Warn("Catalog cache read failed", zap.Int64("book_id", id), zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	var book domain.Book
	if err := c.do(ctx, c.http.Get(c.url("/books/%d", id)), &book); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cache.BookKey(id), book, c.cacheTTL); err != nil {
			c.logger.Warn("Catalog cache write failed", zap.Int64("book_id", id), zap.Error(err))
		}
	}
	return &book, nil
}
