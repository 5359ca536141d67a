// Package cache provides the in-memory response cache used by the fetch pipeline.
//
// Responses are stored by fingerprint, the deterministic string form of a
// request (see Key). Each entry carries its own TTL:
//
// - An entry is served only while now - InsertedAt < TTL
// - A stale entry is removed when it is looked up
// - PurgeExpired sweeps all stale entries at once
// - When the store is full the entry inserted longest ago is evicted
//
// Entries are not persisted; a restart starts with an empty cache.
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	key := cache.KeyFromURL(req.URL)
//	if body, ok := store.Lookup(key.String()); ok {
//		// serve cached body
//	}
//
//	store.Put(key.String(), body, 5*time.Minute)
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - weather_cache_hits_total - Fresh lookups
//   - weather_cache_misses_total - Lookups without a fresh entry
//   - weather_cache_evictions_total{reason} - Removed entries (capacity, expired, purge)
//   - weather_cache_entries - Current entry count
package cache
