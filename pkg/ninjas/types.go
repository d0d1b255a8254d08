package ninjas

import "encoding/json"

// CityResult is one entry of the /v1/city response array. Every field is
// optional.
type CityResult struct {
	Name       *string  `json:"name"`
	Country    *string  `json:"country"`
	Population *int     `json:"population"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Timezone   *string  `json:"timezone"`
}

// PollutantResult is a pollutant sub-object of the /v1/airquality response.
type PollutantResult struct {
	Concentration *float64 `json:"concentration"`
	AQI           *int     `json:"aqi"`
}

// AirQualityResult is the /v1/airquality response. Pollutants are kept raw
// so callers can tell a missing key from a malformed one.
type AirQualityResult map[string]json.RawMessage

// OverallAQIKey is the response key carrying the overall index.
const OverallAQIKey = "overall_aqi"
