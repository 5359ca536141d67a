package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cacheable provider request.
type Key struct {
	// Host is the provider host (e.g., "api.open-meteo.com")
	Host string

	// Endpoint is the request path (e.g., "/v1/forecast")
	Endpoint string

	// QueryParams are the request query parameters
	QueryParams url.Values
}

// KeyFromURL derives a Key from a fully built request URL.
func KeyFromURL(u *url.URL) Key {
	return Key{
		Host:        u.Host,
		Endpoint:    u.Path,
		QueryParams: u.Query(),
	}
}

// String generates the deterministic fingerprint for the key.
// Format: wx:host/endpoint:query1=a:query1=b:query2=c
//
// Query parameters are sorted by name and query-escaped; repeated values
// keep their order and each gets its own segment.
//
// Example:
//   wx:api.open-meteo.com/v1/forecast:latitude=39.9042:longitude=116.4074
func (k Key) String() string {
	parts := []string{"wx"}

	target := strings.Trim(k.Host+"/"+strings.Trim(k.Endpoint, "/"), "/")
	if target != "" {
		parts = append(parts, target)
	}

	if len(k.QueryParams) > 0 {
		names := make([]string, 0, len(k.QueryParams))
		for name := range k.QueryParams {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			escaped := url.QueryEscape(name)
			for _, value := range k.QueryParams[name] {
				parts = append(parts, escaped+"="+url.QueryEscape(value))
			}
		}
	}

	return strings.Join(parts, ":")
}
