package cache

import "time"

// Entry is a cached provider response body.
// Entries are never mutated once stored; a refresh replaces the entry.
type Entry struct {
	// Payload is the raw response body
	Payload []byte

	// InsertedAt is when the entry was stored
	InsertedAt time.Time

	// TTL is how long the entry stays fresh after InsertedAt
	TTL time.Duration
}

// Fresh reports whether the entry is still servable at now.
// An entry is fresh iff now - InsertedAt < TTL.
func (e Entry) Fresh(now time.Time) bool {
	return now.Sub(e.InsertedAt) < e.TTL
}

// Remaining returns the time left until the entry goes stale.
// Returns 0 if already stale.
func (e Entry) Remaining(now time.Time) time.Duration {
	left := e.TTL - now.Sub(e.InsertedAt)
	if left < 0 {
		return 0
	}
	return left
}
