package fetcher

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/airquality-cli/internal/model"
	"github.com/sells-group/airquality-cli/pkg/ninjas"
)

// isEmptyPayload matches bodies the provider sends for unknown places.
func isEmptyPayload(body []byte) bool {
	t := bytes.TrimSpace(body)
	return len(t) == 0 || bytes.Equal(t, []byte("{}")) || bytes.Equal(t, []byte("[]"))
}

// parsePlace decodes the first entry of a city response. A nil result means
// the provider returned nothing usable.
func parsePlace(body []byte) (*model.PlaceInfo, error) {
	if isEmptyPayload(body) {
		return nil, nil
	}

	var results []ninjas.CityResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "fetcher: decode city response")
	}
	if len(results) == 0 {
		return nil, nil
	}

	r := results[0]
	return &model.PlaceInfo{
		Name:       r.Name,
		Country:    r.Country,
		Population: r.Population,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Timezone:   r.Timezone,
	}, nil
}

// parseReading decodes an air quality response, requiring the overall index
// and every pollutant.
func parseReading(place string, body []byte) (*model.QualityReading, error) {
	if isEmptyPayload(body) {
		return nil, newError(KindNoData, place, nil)
	}

	var raw ninjas.AirQualityResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, newError(KindMalformed, place, err)
	}

	overallRaw, ok := raw[ninjas.OverallAQIKey]
	if !ok {
		return nil, newError(KindInvalidResponse, place, nil)
	}
	var overall *int
	if err := json.Unmarshal(overallRaw, &overall); err != nil {
		return nil, newError(KindMalformed, place, eris.Wrap(err, "overall_aqi"))
	}
	if overall == nil {
		return nil, newError(KindMalformed, place, eris.New("overall_aqi is null"))
	}

	reading := &model.QualityReading{
		OverallIndex: overall,
		Pollutants:   make(map[model.Pollutant]model.PollutantLevel, len(model.AllPollutants())),
	}
	for _, p := range model.AllPollutants() {
		if _, ok := raw[string(p)]; !ok {
			return nil, newError(KindIncomplete, place, eris.Errorf("missing %s", p))
		}
	}
	for _, p := range model.AllPollutants() {
		var pr ninjas.PollutantResult
		if err := json.Unmarshal(raw[string(p)], &pr); err != nil {
			return nil, newError(KindMalformed, place, eris.Wrapf(err, "pollutant %s", p))
		}
		if pr.Concentration == nil || pr.AQI == nil {
			return nil, newError(KindMalformed, place, eris.Errorf("pollutant %s missing concentration or aqi", p))
		}
		reading.Pollutants[p] = model.PollutantLevel{Concentration: *pr.Concentration, Index: *pr.AQI}
	}
	return reading, nil
}
