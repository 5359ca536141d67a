package weather

// Inputs are the observations secondary indices are derived from.
type Inputs struct {
	Temperature float64
	FeelsLike   float64
	Humidity    float64
	WindSpeed   float64 // km/h
	WeatherCode int
	UVIndex     float64
}

// Index types, in the order DeriveIndices returns them.
const (
	IndexSport    = "sport"
	IndexClothing = "clothing"
	IndexUV       = "uv"
	IndexCarWash  = "car_wash"
	IndexComfort  = "comfort"
	IndexColdRisk = "cold_risk"
)

// DeriveIndices computes lifestyle indicators from current conditions.
func DeriveIndices(in Inputs) []SecondaryIndex {
	return []SecondaryIndex{
		sportIndex(in),
		clothingIndex(in),
		uvIndex(in),
		carWashIndex(in),
		comfortIndex(in),
		coldRiskIndex(in),
	}
}

func sportIndex(in Inputs) SecondaryIndex {
	idx := SecondaryIndex{Type: IndexSport, Name: "Outdoor sport"}
	switch {
	case Precipitating(in.WeatherCode) || in.WindSpeed >= 39:
		idx.Level, idx.Category, idx.Description = 4, "Unsuitable", "Rain or strong wind, exercise indoors"
	case in.FeelsLike >= 33 || in.FeelsLike <= -5:
		idx.Level, idx.Category, idx.Description = 3, "Less suitable", "Temperature is extreme, keep sessions short"
	case in.FeelsLike >= 28 || in.FeelsLike <= 5:
		idx.Level, idx.Category, idx.Description = 2, "Fairly suitable", "Mind the temperature while exercising"
	default:
		idx.Level, idx.Category, idx.Description = 1, "Suitable", "Good conditions for outdoor activity"
	}
	return idx
}

func clothingIndex(in Inputs) SecondaryIndex {
	idx := SecondaryIndex{Type: IndexClothing, Name: "Clothing"}
	switch t := in.FeelsLike; {
	case t >= 28:
		idx.Level, idx.Category, idx.Description = 1, "Hot", "Light summer clothing"
	case t >= 20:
		idx.Level, idx.Category, idx.Description = 2, "Warm", "Short sleeves or thin shirts"
	case t >= 12:
		idx.Level, idx.Category, idx.Description = 3, "Mild", "A light jacket or jeans"
	case t >= 5:
		idx.Level, idx.Category, idx.Description = 4, "Cool", "Sweater and coat"
	case t >= -5:
		idx.Level, idx.Category, idx.Description = 5, "Cold", "Winter coat, hat and gloves"
	default:
		idx.Level, idx.Category, idx.Description = 6, "Freezing", "Heavy down jacket and thermal layers"
	}
	return idx
}

func uvIndex(in Inputs) SecondaryIndex {
	idx := SecondaryIndex{Type: IndexUV, Name: "UV"}
	switch uv := in.UVIndex; {
	case uv < 3:
		idx.Level, idx.Category, idx.Description = 1, "Low", "No protection needed"
	case uv < 6:
		idx.Level, idx.Category, idx.Description = 2, "Moderate", "Use SPF 15+ sunscreen"
	case uv < 8:
		idx.Level, idx.Category, idx.Description = 3, "High", "SPF 30+, hat and sunglasses"
	case uv < 11:
		idx.Level, idx.Category, idx.Description = 4, "Very high", "Avoid midday sun"
	default:
		idx.Level, idx.Category, idx.Description = 5, "Extreme", "Stay indoors around noon"
	}
	return idx
}

func carWashIndex(in Inputs) SecondaryIndex {
	idx := SecondaryIndex{Type: IndexCarWash, Name: "Car wash"}
	switch {
	case Precipitating(in.WeatherCode):
		idx.Level, idx.Category, idx.Description = 3, "Unsuitable", "Precipitation expected"
	case in.WindSpeed >= 29 || in.WeatherCode == 45 || in.WeatherCode == 48:
		idx.Level, idx.Category, idx.Description = 2, "Less suitable", "Wind or fog will soil the car quickly"
	default:
		idx.Level, idx.Category, idx.Description = 1, "Suitable", "Dry weather, good for washing"
	}
	return idx
}

func comfortIndex(in Inputs) SecondaryIndex {
	idx := SecondaryIndex{Type: IndexComfort, Name: "Comfort"}
	switch t := in.FeelsLike; {
	case t >= 32 || (t >= 28 && in.Humidity >= 70):
		idx.Level, idx.Category, idx.Description = 4, "Very uncomfortable", "Hot and muggy"
	case t >= 27:
		idx.Level, idx.Category, idx.Description = 3, "Uncomfortable", "Warm, stay hydrated"
	case t >= 17:
		idx.Level, idx.Category, idx.Description = 1, "Comfortable", "Pleasant temperature"
	case t >= 8:
		idx.Level, idx.Category, idx.Description = 2, "Fairly comfortable", "Slightly cool"
	default:
		idx.Level, idx.Category, idx.Description = 4, "Very uncomfortable", "Cold, dress warmly"
	}
	return idx
}

func coldRiskIndex(in Inputs) SecondaryIndex {
	idx := SecondaryIndex{Type: IndexColdRisk, Name: "Cold risk"}
	spread := in.Temperature - in.FeelsLike
	switch {
	case in.FeelsLike < 5 || spread >= 6:
		idx.Level, idx.Category, idx.Description = 3, "Likely", "Wrap up well to avoid catching a cold"
	case in.FeelsLike < 12 || (in.Humidity >= 85 && in.FeelsLike < 18):
		idx.Level, idx.Category, idx.Description = 2, "Possible", "Add layers in the evening"
	default:
		idx.Level, idx.Category, idx.Description = 1, "Unlikely", "Low risk"
	}
	return idx
}
