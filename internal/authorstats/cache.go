package authorstats

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helixir/literature-digest-service/internal/domain"
)

// Fetcher retrieves an author's mean citedness from an upstream catalog.
// *openalex.Client satisfies this interface.
type Fetcher interface {
	AuthorMeanCitedness(ctx context.Context, author string) (float64, error)
}

// Cache is a read-through cache over a Store. A miss fetches from the
// upstream catalog and writes the value back before returning it.
type Cache struct {
	store   Store
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewCache creates a read-through cache.
func NewCache(store Store, fetcher Fetcher, logger zerolog.Logger) *Cache {
	return &Cache{
		store:   store,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "authorstats").Logger(),
	}
}

// MeanCitedness returns the mean citedness for an author, consulting the
// store first. Unknown authors return domain.ErrNotFound; an unknown
// result is not cached so a later request can retry the lookup.
func (c *Cache) MeanCitedness(ctx context.Context, author string) (float64, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return 0, domain.ErrNotFound
	}

	if v, ok, err := c.store.Get(ctx, author); err != nil {
		c.logger.Warn().Err(err).Str("author", author).Msg("author stats store read failed")
	} else if ok {
		return v, nil
	}

	v, err := c.fetcher.AuthorMeanCitedness(ctx, author)
	if err != nil {
		return 0, err
	}

	if err := c.store.Put(ctx, author, v); err != nil {
		// A failed write-back only costs a refetch next time.
		c.logger.Warn().Err(err).Str("author", author).Msg("author stats store write failed")
	}

	return v, nil
}
