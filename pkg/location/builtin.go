package location

import (
	"sort"

	"github.com/Sternrassler/weather-pipeline/pkg/weather"
)

// DefaultLocation is used when a subject cannot be resolved.
var DefaultLocation = weather.Location{ID: "101010100", Name: "Beijing", Latitude: 39.9042, Longitude: 116.4074}

// builtinCities maps well-known subject ids to coordinates.
var builtinCities = map[string]weather.Location{
	"101010100": {ID: "101010100", Name: "Beijing", Latitude: 39.9042, Longitude: 116.4074},
	"101020100": {ID: "101020100", Name: "Shanghai", Latitude: 31.2304, Longitude: 121.4737},
	"101030100": {ID: "101030100", Name: "Tianjin", Latitude: 39.0842, Longitude: 117.2009},
	"101040100": {ID: "101040100", Name: "Chongqing", Latitude: 29.4316, Longitude: 106.9123},
	"101280101": {ID: "101280101", Name: "Guangzhou", Latitude: 23.1291, Longitude: 113.2644},
	"101280601": {ID: "101280601", Name: "Shenzhen", Latitude: 22.5431, Longitude: 114.0579},
	"101281601": {ID: "101281601", Name: "Dongguan", Latitude: 23.0489, Longitude: 113.7447},
	"101280301": {ID: "101280301", Name: "Zhuhai", Latitude: 22.2006, Longitude: 113.5461},
	"101280501": {ID: "101280501", Name: "Foshan", Latitude: 23.0292, Longitude: 113.1056},
	"101280701": {ID: "101280701", Name: "Huizhou", Latitude: 22.7789, Longitude: 113.9213},
	"101280201": {ID: "101280201", Name: "Meizhou", Latitude: 24.2998, Longitude: 116.6822},
	"101280401": {ID: "101280401", Name: "Shantou", Latitude: 23.3535, Longitude: 116.6819},
	"101281501": {ID: "101281501", Name: "Zhongshan", Latitude: 22.5177, Longitude: 113.3926},
	"101281701": {ID: "101281701", Name: "Jiangmen", Latitude: 21.8577, Longitude: 111.9822},
	"101280801": {ID: "101280801", Name: "Jieyang", Latitude: 23.6618, Longitude: 116.6229},
	"101210101": {ID: "101210101", Name: "Hangzhou", Latitude: 30.2741, Longitude: 120.1551},
	"101210401": {ID: "101210401", Name: "Ningbo", Latitude: 29.8683, Longitude: 121.5440},
	"101210301": {ID: "101210301", Name: "Wenzhou", Latitude: 28.0001, Longitude: 120.6722},
	"101190101": {ID: "101190101", Name: "Nanjing", Latitude: 32.0603, Longitude: 118.7969},
	"101190401": {ID: "101190401", Name: "Suzhou", Latitude: 31.2989, Longitude: 120.5853},
	"101190201": {ID: "101190201", Name: "Wuxi", Latitude: 31.4906, Longitude: 120.3119},
	"101200101": {ID: "101200101", Name: "Wuhan", Latitude: 30.5928, Longitude: 114.3055},
	"101270101": {ID: "101270101", Name: "Chengdu", Latitude: 30.5728, Longitude: 104.0668},
	"101250101": {ID: "101250101", Name: "Changsha", Latitude: 28.2282, Longitude: 112.9388},
	"101110101": {ID: "101110101", Name: "Xi'an", Latitude: 34.3416, Longitude: 108.9398},
	"101230101": {ID: "101230101", Name: "Fuzhou", Latitude: 26.0745, Longitude: 119.2965},
	"101230201": {ID: "101230201", Name: "Xiamen", Latitude: 24.4798, Longitude: 118.0894},
	"101120101": {ID: "101120101", Name: "Jinan", Latitude: 36.6512, Longitude: 117.1201},
	"101120201": {ID: "101120201", Name: "Qingdao", Latitude: 36.0671, Longitude: 120.3826},
	"101070101": {ID: "101070101", Name: "Shenyang", Latitude: 41.8057, Longitude: 123.4315},
	"101070201": {ID: "101070201", Name: "Dalian", Latitude: 38.9140, Longitude: 121.6147},
	"101180101": {ID: "101180101", Name: "Zhengzhou", Latitude: 34.7466, Longitude: 113.6253},
	"101090101": {ID: "101090101", Name: "Shijiazhuang", Latitude: 38.0428, Longitude: 114.5149},
	"101220101": {ID: "101220101", Name: "Hefei", Latitude: 31.8206, Longitude: 117.2272},
	"101240101": {ID: "101240101", Name: "Nanchang", Latitude: 28.6820, Longitude: 115.8579},
	"101290101": {ID: "101290101", Name: "Kunming", Latitude: 25.0389, Longitude: 102.7183},
	"101260101": {ID: "101260101", Name: "Guiyang", Latitude: 26.6470, Longitude: 106.6302},
	"101300101": {ID: "101300101", Name: "Nanning", Latitude: 22.8150, Longitude: 108.3275},
	"101310101": {ID: "101310101", Name: "Haikou", Latitude: 20.0200, Longitude: 110.3486},
	"101310201": {ID: "101310201", Name: "Sanya", Latitude: 18.2533, Longitude: 109.5117},
	"101050101": {ID: "101050101", Name: "Harbin", Latitude: 45.8038, Longitude: 126.5340},
	"101060101": {ID: "101060101", Name: "Changchun", Latitude: 43.8171, Longitude: 125.3235},
	"101080101": {ID: "101080101", Name: "Hohhot", Latitude: 40.8424, Longitude: 111.7490},
	"101130101": {ID: "101130101", Name: "Urumqi", Latitude: 43.7930, Longitude: 87.6271},
	"101160101": {ID: "101160101", Name: "Lanzhou", Latitude: 36.0611, Longitude: 103.8343},
	"101170101": {ID: "101170101", Name: "Yinchuan", Latitude: 38.4872, Longitude: 106.2309},
	"101150101": {ID: "101150101", Name: "Xining", Latitude: 36.6171, Longitude: 101.7782},
	"101140101": {ID: "101140101", Name: "Lhasa", Latitude: 29.6500, Longitude: 91.1000},
	"101100101": {ID: "101100101", Name: "Taiyuan", Latitude: 37.8706, Longitude: 112.5489},
}

// Builtin returns the built-in location for id.
func Builtin(id string) (weather.Location, bool) {
	loc, ok := builtinCities[id]
	return loc, ok
}

// BuiltinLocations returns every built-in location.
func BuiltinLocations() []weather.Location {
	out := make([]weather.Location, 0, len(builtinCities))
	for _, loc := range builtinCities {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
