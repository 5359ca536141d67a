package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wx:prefs:"

// ErrNotSet is returned when a subject has no stored preference.
var ErrNotSet = errors.New("preferences not set")

// Store keeps unit preferences in Redis.
type Store struct {
	redis *redis.Client
}

// NewStore creates a preference store.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Store{redis: redisClient}
}

func key(subjectID string) string {
	return keyPrefix + subjectID
}

// Get returns the stored units for subjectID.
// Returns ErrNotSet if nothing is stored.
func (s *Store) Get(ctx context.Context, subjectID string) (Units, error) {
	data, err := s.redis.Get(ctx, key(subjectID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Units{}, ErrNotSet
		}
		return Units{}, fmt.Errorf("redis get: %w", err)
	}

	var units Units
	if err := json.Unmarshal(data, &units); err != nil {
		return Units{}, fmt.Errorf("decode preferences: %w", err)
	}
	return units, nil
}

// Units returns the stored units for subjectID or the defaults.
func (s *Store) Units(ctx context.Context, subjectID string) Units {
	units, err := s.Get(ctx, subjectID)
	if err != nil {
		return DefaultUnits()
	}
	return units
}

// Set stores units for subjectID without expiry.
func (s *Store) Set(ctx context.Context, subjectID string, units Units) error {
	if err := units.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(units)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.redis.Set(ctx, key(subjectID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the preference of subjectID.
func (s *Store) Delete(ctx context.Context, subjectID string) error {
	if err := s.redis.Del(ctx, key(subjectID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
