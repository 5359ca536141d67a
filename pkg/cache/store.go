package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rs/zerolog"
)

// DefaultCapacity is the maximum number of entries held by default.
const DefaultCapacity = 100

// ErrInvalidCapacity is returned when a store is configured without room for entries.
var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// Config holds response store configuration.
type Config struct {
	// Capacity is the maximum number of entries (default: 100)
	Capacity int

	// Clock returns the current time (default: time.Now)
	Clock func() time.Time

	// Logger receives debug output for cache operations
	Logger zerolog.Logger
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		Clock:    time.Now,
		Logger:   zerolog.Nop(),
	}
}

// Store is an in-memory, capacity-bounded response cache keyed by fingerprint.
//
// When full, the entry inserted longest ago is evicted. Reads do not
// refresh an entry's position; storing an existing fingerprint does.
// All operations are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries *simplelru.LRU[string, Entry]
	clock   func() time.Time
	logger  zerolog.Logger
}

// NewStore creates a response store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, cfg.Capacity)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	entries, err := simplelru.NewLRU[string, Entry](cfg.Capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("create entry list: %w", err)
	}

	return &Store{
		entries: entries,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}, nil
}

// Lookup returns the payload for fingerprint if a fresh entry exists.
// A stale entry is removed and reported as a miss.
func (s *Store) Lookup(fingerprint string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries.Peek(fingerprint)
	if !ok {
		CacheMisses.Inc()
		s.logger.Debug().Str("fingerprint", fingerprint).Msg("Cache miss")
		return nil, false
	}

	now := s.clock()
	if !entry.Fresh(now) {
		s.entries.Remove(fingerprint)
		CacheMisses.Inc()
		CacheEvictions.WithLabelValues("expired").Inc()
		CacheEntries.Set(float64(s.entries.Len()))
		s.logger.Debug().
			Str("fingerprint", fingerprint).
			Dur("age", now.Sub(entry.InsertedAt)).
			Msg("Cache entry expired")
		return nil, false
	}

	CacheHits.Inc()
	s.logger.Debug().
		Str("fingerprint", fingerprint).
		Dur("ttl", entry.Remaining(now)).
		Msg("Cache hit")
	return entry.Payload, true
}

// Put stores payload under fingerprint for ttl, replacing any existing entry.
// A non-positive ttl stores nothing.
func (s *Store) Put(fingerprint string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Remove first so a refreshed entry is re-inserted at the newest position.
	s.entries.Remove(fingerprint)
	evicted := s.entries.Add(fingerprint, Entry{
		Payload:    payload,
		InsertedAt: s.clock(),
		TTL:        ttl,
	})
	if evicted {
		CacheEvictions.WithLabelValues("capacity").Inc()
	}
	CacheEntries.Set(float64(s.entries.Len()))

	s.logger.Debug().
		Str("fingerprint", fingerprint).
		Dur("ttl", ttl).
		Int("size", len(payload)).
		Bool("evicted", evicted).
		Msg("Cache entry stored")
}

// PurgeExpired removes every stale entry and returns how many were removed.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	removed := 0
	for _, fingerprint := range s.entries.Keys() {
		entry, ok := s.entries.Peek(fingerprint)
		if ok && !entry.Fresh(now) {
			s.entries.Remove(fingerprint)
			removed++
		}
	}

	if removed > 0 {
		CacheEvictions.WithLabelValues("purge").Add(float64(removed))
	}
	CacheEntries.Set(float64(s.entries.Len()))

	s.logger.Debug().
		Int("removed", removed).
		Int("remaining", s.entries.Len()).
		Msg("Expired cache entries purged")
	return removed
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries.Purge()
	CacheEntries.Set(0)
}

// Len returns the number of entries currently held, fresh or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries.Len()
}

// Contains reports whether fingerprint is held, without checking freshness.
func (s *Store) Contains(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries.Contains(fingerprint)
}
