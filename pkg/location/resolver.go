package location

import (
	"context"
	"errors"

	"github.com/Sternrassler/weather-pipeline/pkg/weather"
	"github.com/rs/zerolog"
)

// Source tells where a resolved location came from.
type Source string

const (
	SourceDatabase Source = "database"
	SourceBuiltin  Source = "builtin"
	SourceDefault  Source = "default"
)

// Lookup is the read side of a city store.
type Lookup interface {
	Get(ctx context.Context, id string) (weather.Location, error)
}

// Resolver maps subject ids to coordinates.
// Stored cities win over built-in ones; anything else gets the fallback.
type Resolver struct {
	lookup   Lookup
	fallback weather.Location
	logger   zerolog.Logger
}

// NewResolver creates a resolver. lookup may be nil.
func NewResolver(lookup Lookup, fallback weather.Location, logger zerolog.Logger) *Resolver {
	return &Resolver{lookup: lookup, fallback: fallback, logger: logger}
}

// Resolve returns the location for id. It never fails.
func (r *Resolver) Resolve(ctx context.Context, id string) (weather.Location, Source) {
	if r.lookup != nil {
		loc, err := r.lookup.Get(ctx, id)
		switch {
		case err == nil && (loc.Latitude != 0 || loc.Longitude != 0):
			return loc, SourceDatabase
		case err != nil && !errors.Is(err, ErrNotFound):
			r.logger.Warn().Err(err).Str("subject_id", id).Msg("City lookup failed, using fallback")
		}
	}

	if loc, ok := Builtin(id); ok {
		return loc, SourceBuiltin
	}

	r.logger.Debug().Str("subject_id", id).Str("fallback", r.fallback.Name).Msg("Unknown subject, using default location")
	loc := r.fallback
	loc.ID = id
	return loc, SourceDefault
}
