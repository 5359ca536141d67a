package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "endpoint only",
			key: Key{
				Endpoint: "/v1/forecast/",
			},
			want: "wx:v1/forecast",
		},
		{
			name: "host and endpoint",
			key: Key{
				Host:     "api.open-meteo.com",
				Endpoint: "/v1/forecast",
			},
			want: "wx:api.open-meteo.com/v1/forecast",
		},
		{
			name: "query params sorted",
			key: Key{
				Endpoint: "/v1/forecast",
				QueryParams: url.Values{
					"longitude": []string{"116.4074"},
					"latitude":  []string{"39.9042"},
				},
			},
			want: "wx:v1/forecast:latitude=39.9042:longitude=116.4074",
		},
		{
			name: "repeated values kept apart",
			key: Key{
				Endpoint: "/v1/forecast",
				QueryParams: url.Values{
					"hourly": []string{"temperature_2m", "weather_code"},
				},
			},
			want: "wx:v1/forecast:hourly=temperature_2m:hourly=weather_code",
		},
		{
			name: "comma list escaped",
			key: Key{
				Endpoint: "/v1/forecast",
				QueryParams: url.Values{
					"hourly": []string{"temperature_2m,weather_code"},
				},
			},
			want: "wx:v1/forecast:hourly=temperature_2m%2Cweather_code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_Deterministic(t *testing.T) {
	a, err := url.Parse("https://api.open-meteo.com/v1/forecast?latitude=1&longitude=2&timezone=auto")
	if err != nil {
		t.Fatal(err)
	}
	b, err := url.Parse("https://api.open-meteo.com/v1/forecast?timezone=auto&longitude=2&latitude=1")
	if err != nil {
		t.Fatal(err)
	}

	ka, kb := KeyFromURL(a).String(), KeyFromURL(b).String()
	if ka != kb {
		t.Errorf("fingerprints differ: %q vs %q", ka, kb)
	}

	c, _ := url.Parse("https://api.open-meteo.com/v1/forecast?latitude=1&longitude=3&timezone=auto")
	if KeyFromURL(c).String() == ka {
		t.Error("different requests produced the same fingerprint")
	}
}

func TestKey_RepeatedValuesDifferFromCommaList(t *testing.T) {
	repeated, _ := url.Parse("https://api.open-meteo.com/v1/forecast?a=1&a=2")
	joined, _ := url.Parse("https://api.open-meteo.com/v1/forecast?a=1,2")

	if KeyFromURL(repeated).String() == KeyFromURL(joined).String() {
		t.Errorf("a=1&a=2 and a=1,2 share fingerprint %q", KeyFromURL(joined).String())
	}
}
