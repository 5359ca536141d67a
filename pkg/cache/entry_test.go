package cache

import (
	"testing"
	"time"
)

func TestEntry_Fresh(t *testing.T) {
	inserted := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ttl  time.Duration
		at   time.Duration
		want bool
	}{
		{name: "just inserted", ttl: 5 * time.Minute, at: 0, want: true},
		{name: "before expiry", ttl: 5 * time.Minute, at: 4*time.Minute + 59*time.Second, want: true},
		{name: "exactly at ttl", ttl: 5 * time.Minute, at: 5 * time.Minute, want: false},
		{name: "after expiry", ttl: 5 * time.Minute, at: time.Hour, want: false},
		{name: "zero ttl", ttl: 0, at: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := Entry{InsertedAt: inserted, TTL: tt.ttl}
			if got := entry.Fresh(inserted.Add(tt.at)); got != tt.want {
				t.Errorf("Fresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_Remaining(t *testing.T) {
	inserted := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := Entry{InsertedAt: inserted, TTL: 10 * time.Minute}

	if got := entry.Remaining(inserted.Add(4 * time.Minute)); got != 6*time.Minute {
		t.Errorf("Remaining() = %v, want %v", got, 6*time.Minute)
	}
	if got := entry.Remaining(inserted.Add(time.Hour)); got != 0 {
		t.Errorf("Remaining() = %v, want 0", got)
	}
}
