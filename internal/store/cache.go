// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/common/metrics"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// CachedStore caches ledger slices in Redis in front of another store.
// Intervals are calendar-bounded so entries stay valid until ingestion
// rewrites a day; the TTL bounds that staleness window.
type CachedStore struct {
	inner LedgerStore
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedStore(inner LedgerStore, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{inner: inner, redis: client, ttl: ttl, log: log}
}

func cacheKey(ledger models.LedgerKind, kind models.EntityKind, label string, interval models.DateInterval) string {
	return fmt.Sprintf("agg:%s:%s:%s:%s:%s",
		ledger, kind, label,
		interval.Start.Format("2006-01-02"), interval.End.Format("2006-01-02"))
}

// GetAggregate serves from Redis when possible; a miss or any cache error
// falls through to the inner store, then populates the cache.
func (c *CachedStore) GetAggregate(ctx context.Context, ledger models.LedgerKind, kind models.EntityKind, label string, interval models.DateInterval) (models.LedgerSlice, error) {
	key := cacheKey(ledger, kind, label, interval)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var slice models.LedgerSlice
		if err := json.Unmarshal([]byte(val), &slice); err == nil {
			metrics.LedgerCacheHits.WithLabelValues("hit").Inc()
			return slice, nil
		}
	} else if err != redis.Nil {
		c.log.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	metrics.LedgerCacheHits.WithLabelValues("miss").Inc()

	slice, err := c.inner.GetAggregate(ctx, ledger, kind, label, interval)
	if err != nil {
		return models.LedgerSlice{}, err
	}

	if data, err := json.Marshal(slice); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return slice, nil
}

// ListVocabulary always hits the inner store; vocabularies are loaded
// once at startup and on explicit reloads only.
func (c *CachedStore) ListVocabulary(ctx context.Context, kind models.EntityKind) ([]string, error) {
	return c.inner.ListVocabulary(ctx, kind)
}
