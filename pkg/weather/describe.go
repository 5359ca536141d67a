package weather

var wmoDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Rain showers",
	81: "Heavy rain showers",
	82: "Violent rain showers",
	85: "Snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns a human-readable description of a WMO weather code.
func Describe(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// WindDirection maps a bearing in degrees to one of eight compass points.
func WindDirection(degree int) string {
	d := ((degree % 360) + 360) % 360
	// Sectors are 45 degrees wide, centred on each point.
	return compassPoints[((d*2+45)/90)%8]
}

// Precipitating reports whether a WMO code denotes rain, snow or storms.
func Precipitating(code int) bool {
	return code >= 51
}
