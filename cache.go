package wardrobedup

import (
	"context"
	"reflect"
	"sync"
)

// MapCache is an in-memory Cache backed by a sync.Map. Entries are never
// evicted; they live for the process lifetime, which matches the
// near-immutable nature of reference imagery. Long-lived server processes
// should inject a TTL-capable Cache instead.
type MapCache struct {
	m sync.Map
}

// NewMapCache creates an empty MapCache.
func NewMapCache() *MapCache { return &MapCache{} }

// Key joins a namespace prefix and a value into a cache key.
func (c *MapCache) Key(prefix, value string) string { return prefix + ":" + value }

// Get loads the stored value into dest. Returns false on a miss, a non-pointer
// dest, or a type mismatch.
func (c *MapCache) Get(_ context.Context, key string, dest any) bool {
	v, ok := c.m.Load(key)
	if !ok {
		return false
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return false
	}
	sv := reflect.ValueOf(v)
	if !sv.Type().AssignableTo(dv.Elem().Type()) {
		return false
	}
	dv.Elem().Set(sv)
	return true
}

// Set stores value under key, replacing any previous entry.
func (c *MapCache) Set(_ context.Context, key string, value any) { c.m.Store(key, value) }

// itemCacheKey derives a stable cache identity for an existing item: its
// identifier, else its image location, else a structural key from name and
// location. The structural fallback can collide for two distinct items that
// share a display name and have no URL; that ambiguity is accepted.
func itemCacheKey(item *ExistingItem) string {
	switch {
	case item.ID != "":
		return item.ID
	case item.ImageURL != "":
		return item.ImageURL
	default:
		return "struct:" + item.Name + "|" + item.ImageURL
	}
}
