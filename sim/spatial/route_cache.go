package spatial

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultRouteCacheCapacity is the default bounded LRU size (spec §4.1).
const DefaultRouteCacheCapacity = 20_000

// routeCacheKey is the directional (from, to) cache key.
type routeCacheKey struct {
	from, to CellID
}

// CachedRouteProvider wraps any RouteProvider with a bounded LRU cache
// (spec §4.1). On an inner miss, it optionally falls back to a GridRouter
// before giving up — grounded on original_source/.../routing.rs's
// `CachedRouteProvider` with its explicit `fallback_to_h3` flag.
type CachedRouteProvider struct {
	inner      RouteProvider
	cache      *lru.Cache[routeCacheKey, Route]
	fallback   bool
	gridRouter GridRouter
}

// NewCachedRouteProvider wraps inner with an LRU cache of the given
// capacity. If fallbackToGrid is true, an inner miss is retried against a
// GridRouter before the overall call reports a miss.
func NewCachedRouteProvider(inner RouteProvider, capacity int, fallbackToGrid bool) *CachedRouteProvider {
	if capacity <= 0 {
		capacity = DefaultRouteCacheCapacity
	}
	cache, err := lru.New[routeCacheKey, Route](capacity)
	if err != nil {
		// Only possible if capacity <= 0, which is guarded above.
		panic(err)
	}
	return &CachedRouteProvider{inner: inner, cache: cache, fallback: fallbackToGrid}
}

func (c *CachedRouteProvider) Route(from, to CellID) (Route, bool) {
	key := routeCacheKey{from: from, to: to}
	if route, ok := c.cache.Get(key); ok {
		return route, true
	}

	route, ok := c.inner.Route(from, to)
	if !ok && c.fallback {
		route, ok = c.gridRouter.Route(from, to)
	}
	if ok {
		c.cache.Add(key, route)
	}
	return route, ok
}
