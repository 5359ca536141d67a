package client

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Response is a gateway result.
type Response struct {
	Payload []byte

	// FromCache is true when the payload was served without network activity
	FromCache bool

	// Shared is true when the payload came from a concurrent identical fetch
	Shared bool
}

// GatewayConfig holds gateway configuration.
type GatewayConfig struct {
	// SingleFlight collapses concurrent fetches of the same fingerprint
	// into one network call (default: true)
	SingleFlight bool

	// Logger for gateway diagnostics (default: component logger)
	Logger *zerolog.Logger
}

// DefaultGatewayConfig returns the default gateway configuration.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{SingleFlight: true}
}

// Gateway serves fresh cached responses and fetches the rest.
type Gateway struct {
	store        *cache.Store
	fetcher      *Fetcher
	group        singleflight.Group
	singleFlight bool
	logger       zerolog.Logger
}

// NewGateway creates a gateway over store and fetcher.
func NewGateway(store *cache.Store, fetcher *Fetcher, cfg GatewayConfig) (*Gateway, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	logger := log.With().Str("component", "gateway").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Gateway{
		store:        store,
		fetcher:      fetcher,
		singleFlight: cfg.SingleFlight,
		logger:       logger,
	}, nil
}

// Fetch returns the payload for req.
//
// With useCache set, a fresh entry is returned immediately with FromCache.
// Otherwise the fetcher is invoked and a successful payload is stored for
// ttl before returning. When single-flight is enabled, concurrent callers
// for the same fingerprint share the first caller's fetch, context and ttl.
func (g *Gateway) Fetch(ctx context.Context, req Request, ttl time.Duration, useCache bool) (Response, error) {
	if req.URL == nil {
		return Response{}, &FetchError{Kind: KindProvider, Message: "request URL is required"}
	}
	fingerprint := req.Fingerprint()

	if useCache {
		if payload, ok := g.store.Lookup(fingerprint); ok {
			return Response{Payload: payload, FromCache: true}, nil
		}
	}

	if !g.singleFlight {
		payload, err := g.fetchAndStore(ctx, req, fingerprint, ttl)
		if err != nil {
			return Response{}, err
		}
		return Response{Payload: payload}, nil
	}

	ch := g.group.DoChan(fingerprint, func() (interface{}, error) {
		return g.fetchAndStore(ctx, req, fingerprint, ttl)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Response{}, res.Err
		}
		payload, _ := res.Val.([]byte)
		if res.Shared {
			g.logger.Debug().Str("fingerprint", fingerprint).Msg("Joined in-flight fetch")
		}
		return Response{Payload: payload, Shared: res.Shared}, nil
	case <-ctx.Done():
		return Response{}, &FetchError{Kind: KindCanceled, Fingerprint: fingerprint, Err: ctx.Err()}
	}
}

// fetchAndStore waits for the fetcher's result and caches a success.
func (g *Gateway) fetchAndStore(ctx context.Context, req Request, fingerprint string, ttl time.Duration) ([]byte, error) {
	select {
	case res := <-g.fetcher.Send(ctx, req):
		if res.Err != nil {
			return nil, res.Err
		}
		g.store.Put(fingerprint, res.Payload, ttl)
		return res.Payload, nil
	case <-ctx.Done():
		return nil, &FetchError{Kind: KindCanceled, Fingerprint: fingerprint, Err: ctx.Err()}
	}
}

// PurgeExpired removes stale cache entries and returns how many were removed.
func (g *Gateway) PurgeExpired() int {
	return g.store.PurgeExpired()
}

// ClearCache drops every cached response.
func (g *Gateway) ClearCache() {
	g.store.Clear()
	g.logger.Info().Msg("Response cache cleared")
}

// Fetcher returns the underlying fetcher.
func (g *Gateway) Fetcher() *Fetcher {
	return g.fetcher
}
