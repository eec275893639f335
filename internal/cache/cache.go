// Package cache memoizes expensive aggregate queries behind a keyed TTL
// cache. The cache is best-effort and never authoritative: every mutation
// path announces itself to the Registry, which evicts the affected keys.
package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTLs per cached aggregate.
const (
	AdminSummaryTTL = 300 * time.Second
	UserSummaryTTL  = 900 * time.Second
	LotSearchTTL    = 120 * time.Second
)

// AdminSummaryKey is the global key for the admin dashboard aggregate.
const AdminSummaryKey = "summary:admin"

// UserSummaryKey returns the per-user summary cache key.
func UserSummaryKey(userID string) string {
	return "summary:user:" + userID
}

// LotSearchKey returns the query-parameterized lot search cache key.
func LotSearchKey(query string) string {
	return fmt.Sprintf("search:lots:%s", query)
}

// Keyed is a goroutine-safe keyed TTL cache.
type Keyed struct {
	store *gocache.Cache
}

// NewKeyed creates a cache with a background janitor sweeping expired
// entries every ten minutes.
func NewKeyed() *Keyed {
	return &Keyed{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

// GetOrCompute returns the cached value for key, or computes it with fn and
// stores it with the given TTL. Compute errors are never cached.
func (k *Keyed) GetOrCompute(key string, ttl time.Duration, fn func() (any, error)) (any, error) {
	if v, found := k.store.Get(key); found {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return nil, err
	}
	k.store.Set(key, v, ttl)
	return v, nil
}

// Peek returns the cached value without computing on miss.
func (k *Keyed) Peek(key string) (any, bool) {
	return k.store.Get(key)
}

// Invalidate evicts a single key.
func (k *Keyed) Invalidate(key string) {
	k.store.Delete(key)
}

// Clear evicts every key.
func (k *Keyed) Clear() {
	k.store.Flush()
}

// Registry enumerates which cache keys each kind of mutation invalidates.
// Mutation call sites call exactly one method here instead of naming raw
// keys, so a new cached aggregate only needs wiring in one place.
type Registry struct {
	cache *Keyed
}

// NewRegistry creates the invalidation registry for a cache.
func NewRegistry(c *Keyed) *Registry {
	return &Registry{cache: c}
}

// LotsMutated is announced by every lot or spot mutation (create, resize,
// delete). It clears the whole cache: the admin summary and all search
// results depend on lot state, and per-user summaries reference lot names.
func (r *Registry) LotsMutated() {
	r.cache.Clear()
}

// UserActivity is announced by a user's booking, release or payment. Only
// that user's summary is evicted; search results tolerate staleness until
// their TTL lapses.
func (r *Registry) UserActivity(userID string) {
	r.cache.Invalidate(UserSummaryKey(userID))
}
