package resolver

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/SkynetLabs/webportal-dnslink-api/pkg/dnsclient"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	DefaultCacheMaxEntries = 5000
	DefaultCacheTTL        = 5 * time.Minute
)

// CacheOptions configures a TXTCache at construction time. Zero values fall
// back to the defaults above.
type CacheOptions struct {
	MaxEntries int
	TTL        time.Duration
}

// TXTCache wraps the DNS client with a bounded, expiring cache of successful
// TXT lookups. Failed lookups are never cached. Concurrent misses for the
// same key are not coalesced; each caller issues its own upstream query and
// the last one to finish wins the cache slot.
type TXTCache struct {
	client dnsclient.Client
	cache  *expirable.LRU[string, []string]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// CacheStats is a point-in-time snapshot of cache activity.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

func NewTXTCache(client dnsclient.Client, opts CacheOptions) *TXTCache {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultCacheMaxEntries
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	return &TXTCache{
		client: client,
		cache:  expirable.NewLRU[string, []string](opts.MaxEntries, nil, opts.TTL),
	}
}

// Fetch returns the TXT record set for lookupKey, from cache when present and
// unexpired, otherwise from a live upstream query. Upstream failures are
// classified into a resolution error and left uncached.
func (c *TXTCache) Fetch(ctx context.Context, lookupKey string) ([]string, error) {
	if records, ok := c.cache.Get(lookupKey); ok {
		c.hits.Add(1)
		return records, nil
	}
	c.misses.Add(1)

	records, err := c.client.LookupTXT(ctx, lookupKey)
	if err != nil {
		switch {
		case errors.Is(err, dnsclient.ErrNotFound):
			return nil, newError(KindResolution, "dns lookup for %s failed: domain not found", lookupKey)
		case errors.Is(err, dnsclient.ErrNoData):
			return nil, newError(KindResolution, "dns lookup for %s failed: no txt records", lookupKey)
		default:
			return nil, newError(KindResolution, "dns lookup for %s failed: %v", lookupKey, err)
		}
	}

	c.cache.Add(lookupKey, records)
	return records, nil
}

// Purge drops every cached entry.
func (c *TXTCache) Purge() {
	c.cache.Purge()
}

func (c *TXTCache) Stats() CacheStats {
	return CacheStats{
		Entries: c.cache.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// StartStatsDaemon periodically logs cache statistics until done closes.
// An interval of zero disables the daemon.
func (c *TXTCache) StartStatsDaemon(interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		return
	}
	logrus.Infof("starting cache stats daemon. Interval: %v", interval)
	wait.JitterUntil(func() {
		s := c.Stats()
		logrus.WithFields(logrus.Fields{
			"entries": s.Entries,
			"hits":    s.Hits,
			"misses":  s.Misses,
		}).Info("txt lookup cache stats")
	}, interval, .002, true, done)
}
