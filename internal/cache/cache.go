// Package cache provides a small response cache for match pages. Ranked
// results are deterministic for a fixed listing snapshot, so caching a page
// for a short TTL is safe; listing churn is absorbed by expiry rather than
// invalidation.
package cache

import (
	"context"
	"fmt"
)

// MatchCache stores serialized match pages keyed by preference and window.
type MatchCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key builds the cache key for one match page.
func Key(preferenceID string, page, limit int) string {
	return fmt.Sprintf("match:%s:p%d:l%d", preferenceID, page, limit)
}
