// Package weather builds forecast API requests and decodes their payloads
// into domain values.
package weather

import "time"

// Location is a resolved subject with coordinates.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentConditions is the latest observation for a location.
type CurrentConditions struct {
	SubjectID     string    `json:"subject_id"`
	ObservedAt    time.Time `json:"observed_at"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feels_like"`
	Humidity      int       `json:"humidity"`
	Pressure      int       `json:"pressure"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDegree    int       `json:"wind_degree"`
	WindDirection string    `json:"wind_direction"`
	WeatherCode   int       `json:"weather_code"`
	Description   string    `json:"description"`
}

// HourlyPoint is one hour of forecast.
type HourlyPoint struct {
	Time              time.Time `json:"time"`
	Temperature       float64   `json:"temperature"`
	Humidity          int       `json:"humidity"`
	WeatherCode       int       `json:"weather_code"`
	Description       string    `json:"description"`
	WindSpeed         float64   `json:"wind_speed"`
	WindDirection     string    `json:"wind_direction"`
	PrecipitationProb int       `json:"precipitation_prob"`
}

// DailyPoint is one day of forecast.
type DailyPoint struct {
	Date              time.Time `json:"date"`
	High              float64   `json:"high"`
	Low               float64   `json:"low"`
	WeatherCode       int       `json:"weather_code"`
	Description       string    `json:"description"`
	WindSpeed         float64   `json:"wind_speed"`
	WindDirection     string    `json:"wind_direction"`
	PrecipitationProb int       `json:"precipitation_prob"`
	UVIndex           float64   `json:"uv_index"`
	Sunrise           string    `json:"sunrise"`
	Sunset            string    `json:"sunset"`
}

// SecondaryIndex is a derived lifestyle indicator (UV, comfort, clothing...).
type SecondaryIndex struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Advisory is a weather warning issued for a location.
type Advisory struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	PubTime  string `json:"pubTime"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Level    string `json:"level"`
	Type     string `json:"type"`
	TypeName string `json:"typeName"`
	Text     string `json:"text"`
}
