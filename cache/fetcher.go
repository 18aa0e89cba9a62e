package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinescope/catalog"
)

// Fetcher serves list pages from the store and falls through to next on a
// miss. Failures are never cached.
type Fetcher struct {
	store     *Store
	next      catalog.Fetcher
	namespace string
	logger    zerolog.Logger
}

// NewFetcher wraps next with the store. namespace separates entries of
// different catalogs or languages sharing one cache file.
func NewFetcher(store *Store, next catalog.Fetcher, namespace string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		store:     store,
		next:      next,
		namespace: namespace,
		logger:    logger,
	}
}

// Namespace derives a short stable namespace from the catalog URL and language
func Namespace(baseURL, language string) string {
	normalized := strings.TrimRight(strings.ToLower(baseURL), "/") + "|" + strings.ToLower(language)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Key builds the cache key of one list page
func Key(namespace string, mode catalog.Mode, param string, page int) string {
	if mode == catalog.ModeSearch {
		param = strings.ToLower(strings.TrimSpace(param))
	}
	return fmt.Sprintf("%s:%s:%s:%d", namespace, mode, param, page)
}

// FetchList implements catalog.Fetcher
func (f *Fetcher) FetchList(ctx context.Context, mode catalog.Mode, param string, page int) (*catalog.ListResult, error) {
	key := Key(f.namespace, mode, param, max(page, 1))

	if result, ok := f.store.Get(key); ok {
		f.logger.Debug().Str("key", key).Msg("Cache hit")
		return result, nil
	}

	result, err := f.next.FetchList(ctx, mode, param, page)
	if err != nil {
		return nil, err
	}

	if err := f.store.Put(key, result); err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache list page")
	}

	return result, nil
}
