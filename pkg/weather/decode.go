package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/client"
)

const (
	localTimeLayout = "2006-01-02T15:04"
	dateLayout      = "2006-01-02"
)

type forecastEnvelope struct {
	UTCOffsetSeconds int           `json:"utc_offset_seconds"`
	Current          *currentBlock `json:"current"`
	Hourly           *hourlyBlock  `json:"hourly"`
	Daily            *dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Time                string   `json:"time"`
	Temperature         float64  `json:"temperature_2m"`
	RelativeHumidity    float64  `json:"relative_humidity_2m"`
	ApparentTemperature float64  `json:"apparent_temperature"`
	WeatherCode         int      `json:"weather_code"`
	SurfacePressure     float64  `json:"surface_pressure"`
	WindSpeed           float64  `json:"wind_speed_10m"`
	WindDirection       float64  `json:"wind_direction_10m"`
	UVIndex             *float64 `json:"uv_index"`
}

type hourlyBlock struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature_2m"`
	RelativeHumidity         []float64 `json:"relative_humidity_2m"`
	WeatherCode              []int     `json:"weather_code"`
	WindSpeed                []float64 `json:"wind_speed_10m"`
	WindDirection            []float64 `json:"wind_direction_10m"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
}

type dailyBlock struct {
	Time                        []string  `json:"time"`
	TemperatureMax              []float64 `json:"temperature_2m_max"`
	TemperatureMin              []float64 `json:"temperature_2m_min"`
	WeatherCode                 []int     `json:"weather_code"`
	WindSpeedMax                []float64 `json:"wind_speed_10m_max"`
	WindDirectionDominant       []float64 `json:"wind_direction_10m_dominant"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	UVIndexMax                  []float64 `json:"uv_index_max"`
	Sunrise                     []string  `json:"sunrise"`
	Sunset                      []string  `json:"sunset"`
}

type advisoryEnvelope struct {
	Alerts []Advisory `json:"alerts"`
}

func decodeError(format string, args ...interface{}) error {
	return &client.FetchError{Kind: client.KindDecode, Message: fmt.Sprintf(format, args...)}
}

func decodeEnvelope(payload []byte) (forecastEnvelope, *time.Location, error) {
	var env forecastEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return env, nil, &client.FetchError{Kind: client.KindDecode, Message: "decode forecast", Err: err}
	}
	return env, time.FixedZone("", env.UTCOffsetSeconds), nil
}

// DecodeCurrent decodes a current-conditions payload.
func DecodeCurrent(subjectID string, payload []byte) (CurrentConditions, error) {
	env, loc, err := decodeEnvelope(payload)
	if err != nil {
		return CurrentConditions{}, err
	}
	if env.Current == nil {
		return CurrentConditions{}, decodeError("payload has no current block")
	}

	c := env.Current
	observed, err := time.ParseInLocation(localTimeLayout, c.Time, loc)
	if err != nil {
		return CurrentConditions{}, decodeError("current time %q: %v", c.Time, err)
	}
	degree := int(math.Round(c.WindDirection))

	return CurrentConditions{
		SubjectID:     subjectID,
		ObservedAt:    observed,
		Temperature:   c.Temperature,
		FeelsLike:     c.ApparentTemperature,
		Humidity:      int(math.Round(c.RelativeHumidity)),
		Pressure:      int(math.Round(c.SurfacePressure)),
		WindSpeed:     c.WindSpeed,
		WindDegree:    degree,
		WindDirection: WindDirection(degree),
		WeatherCode:   c.WeatherCode,
		Description:   Describe(c.WeatherCode),
	}, nil
}

// DecodeHourly decodes an hourly payload, keeping at most limit points.
func DecodeHourly(payload []byte, limit int) ([]HourlyPoint, error) {
	env, loc, err := decodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	if env.Hourly == nil || env.Hourly.Time == nil {
		return nil, decodeError("payload has no hourly block")
	}

	h := env.Hourly
	count := len(h.Time)
	if limit > 0 && count > limit {
		count = limit
	}

	points := make([]HourlyPoint, 0, count)
	for i := 0; i < count; i++ {
		at, err := time.ParseInLocation(localTimeLayout, h.Time[i], loc)
		if err != nil {
			return nil, decodeError("hourly time %q: %v", h.Time[i], err)
		}
		code := intAt(h.WeatherCode, i)
		points = append(points, HourlyPoint{
			Time:              at,
			Temperature:       floatAt(h.Temperature, i, 0),
			Humidity:          int(math.Round(floatAt(h.RelativeHumidity, i, 0))),
			WeatherCode:       code,
			Description:       Describe(code),
			WindSpeed:         floatAt(h.WindSpeed, i, 0),
			WindDirection:     WindDirection(int(math.Round(floatAt(h.WindDirection, i, 0)))),
			PrecipitationProb: int(math.Round(floatAt(h.PrecipitationProbability, i, 0))),
		})
	}
	return points, nil
}

// DecodeDaily decodes a daily payload, keeping at most limit days.
func DecodeDaily(payload []byte, limit int) ([]DailyPoint, error) {
	env, loc, err := decodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	if env.Daily == nil || env.Daily.Time == nil {
		return nil, decodeError("payload has no daily block")
	}

	d := env.Daily
	count := len(d.Time)
	if limit > 0 && count > limit {
		count = limit
	}

	days := make([]DailyPoint, 0, count)
	for i := 0; i < count; i++ {
		date, err := time.ParseInLocation(dateLayout, d.Time[i], loc)
		if err != nil {
			return nil, decodeError("daily date %q: %v", d.Time[i], err)
		}
		code := intAt(d.WeatherCode, i)
		days = append(days, DailyPoint{
			Date:              date,
			High:              floatAt(d.TemperatureMax, i, 0),
			Low:               floatAt(d.TemperatureMin, i, 0),
			WeatherCode:       code,
			Description:       Describe(code),
			WindSpeed:         floatAt(d.WindSpeedMax, i, 0),
			WindDirection:     WindDirection(int(math.Round(floatAt(d.WindDirectionDominant, i, 0)))),
			PrecipitationProb: int(math.Round(floatAt(d.PrecipitationProbabilityMax, i, 0))),
			UVIndex:           floatAt(d.UVIndexMax, i, 0),
			Sunrise:           clockTime(stringAt(d.Sunrise, i), loc),
			Sunset:            clockTime(stringAt(d.Sunset, i), loc),
		})
	}
	return days, nil
}

// DecodeAdvisories decodes an advisory payload.
func DecodeAdvisories(payload []byte) ([]Advisory, error) {
	var env advisoryEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &client.FetchError{Kind: client.KindDecode, Message: "decode advisories", Err: err}
	}
	if env.Alerts == nil {
		return []Advisory{}, nil
	}
	return env.Alerts, nil
}

// DecodeIndices decodes a current-conditions payload and derives the
// secondary indices from it.
func DecodeIndices(payload []byte) ([]SecondaryIndex, error) {
	env, _, err := decodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	if env.Current == nil {
		return nil, decodeError("payload has no current block")
	}

	c := env.Current
	uv := 0.0
	if c.UVIndex != nil {
		uv = *c.UVIndex
	}
	return DeriveIndices(Inputs{
		Temperature: c.Temperature,
		FeelsLike:   c.ApparentTemperature,
		Humidity:    c.RelativeHumidity,
		WindSpeed:   c.WindSpeed,
		WeatherCode: c.WeatherCode,
		UVIndex:     uv,
	}), nil
}

func floatAt(values []float64, i int, fallback float64) float64 {
	if i < len(values) {
		return values[i]
	}
	return fallback
}

func intAt(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func stringAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// clockTime reduces a local timestamp to HH:MM.
func clockTime(value string, loc *time.Location) string {
	t, err := time.ParseInLocation(localTimeLayout, value, loc)
	if err != nil {
		return ""
	}
	return t.Format("15:04")
}
