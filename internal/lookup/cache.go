package lookup

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cached wraps a provider with a Redis cache. Cache failures fall through
// to the wrapped provider; only successful lookups are stored.
type Cached struct {
	next Provider
	rdb  *redis.Client
	ttl  time.Duration
	log  *logrus.Logger
}

// NewCached initializes a caching provider.
func NewCached(next Provider, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: log}
}

// Lookup serves from cache when possible.
func (c *Cached) Lookup(ctx context.Context, title string) (*Metadata, error) {
	key := cacheKey(title)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var meta Metadata
		if err := json.Unmarshal([]byte(raw), &meta); err == nil {
			return &meta, nil
		}
	} else if err != redis.Nil {
		c.log.Debugf("Lookup cache read failed for %q: %v", title, err)
	}

	meta, err := c.next.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(meta); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Debugf("Lookup cache write failed for %q: %v", title, err)
		}
	}
	return meta, nil
}

func cacheKey(title string) string {
	return "lookup:" + strings.ToLower(strings.TrimSpace(title))
}
