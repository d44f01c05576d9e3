package capscore

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

// CachedLookuper wraps a Lookuper with an in-memory LRU cache keyed by PWSID.
type CachedLookuper struct {
	inner   Lookuper
	cache   *lruCache[Score]
	metrics *observability.Metrics
}

// NewCachedLookuper creates a cache decorator around a CAP score source.
func NewCachedLookuper(inner Lookuper, maxEntries int, metrics *observability.Metrics) *CachedLookuper {
	return &CachedLookuper{
		inner:   inner,
		cache:   newLRUCache[Score](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedLookuper) Lookup(ctx context.Context, pwsid string) Score {
	key := strings.ToUpper(strings.TrimSpace(pwsid))
	if score, ok := c.cache.get(key); ok {
		c.metrics.CAPCache.WithLabelValues("hit").Inc()
		return score
	}
	c.metrics.CAPCache.WithLabelValues("miss").Inc()

	score := c.inner.Lookup(ctx, pwsid)
	// Empty results are not cached so a source outage or a newly listed
	// system is picked up on the next lookup.
	if score.Found() {
		c.cache.put(key, score)
	}
	return score
}

// lruCache is a size-bounded, least-recently-used map from PWSID to V.
// A size below one keeps a single entry.
type lruCache[V any] struct {
	mu    sync.Mutex
	size  int
	order *list.List // front is most recent; elements hold *lruItem[V]
	items map[string]*list.Element
}

type lruItem[V any] struct {
	pwsid string
	value V
}

func newLRUCache[V any](size int) *lruCache[V] {
	return &lruCache[V]{
		size:  max(size, 1),
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

func (c *lruCache[V]) get(pwsid string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[pwsid]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruItem[V]).value, true
}

func (c *lruCache[V]) put(pwsid string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[pwsid]; ok {
		el.Value.(*lruItem[V]).value = value
		c.order.MoveToFront(el)
		return
	}
	c.items[pwsid] = c.order.PushFront(&lruItem[V]{pwsid: pwsid, value: value})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruItem[V]).pwsid)
	}
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
