package weather

import "testing"

func TestWindDirection(t *testing.T) {
	tests := []struct {
		degree int
		want   string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{337, "NW"},
		{338, "N"},
		{360, "N"},
		{-90, "W"},
	}

	for _, tt := range tests {
		if got := WindDirection(tt.degree); got != tt.want {
			t.Errorf("WindDirection(%d) = %q, want %q", tt.degree, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(0); got != "Clear sky" {
		t.Errorf("Describe(0) = %q", got)
	}
	if got := Describe(95); got != "Thunderstorm" {
		t.Errorf("Describe(95) = %q", got)
	}
	if got := Describe(42); got != "Unknown" {
		t.Errorf("Describe(42) = %q, want Unknown", got)
	}
}
