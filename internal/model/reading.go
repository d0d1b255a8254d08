package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Pollutant identifies a pollutant reported by the air quality provider.
type Pollutant string

const (
	PollutantPM25 Pollutant = "PM2.5"
	PollutantPM10 Pollutant = "PM10"
	PollutantCO   Pollutant = "CO"
	PollutantNO2  Pollutant = "NO2"
	PollutantO3   Pollutant = "O3"
	PollutantSO2  Pollutant = "SO2"
)

// AllPollutants returns every pollutant in display order.
func AllPollutants() []Pollutant {
	return []Pollutant{
		PollutantPM25,
		PollutantPM10,
		PollutantCO,
		PollutantNO2,
		PollutantO3,
		PollutantSO2,
	}
}

// Label returns the display label, with subscript digits for gases.
func (p Pollutant) Label() string {
	switch p {
	case PollutantNO2:
		return "NO₂"
	case PollutantO3:
		return "O₃"
	case PollutantSO2:
		return "SO₂"
	default:
		return string(p)
	}
}

// PollutantLevel is a single pollutant's concentration and sub-index.
type PollutantLevel struct {
	Concentration float64 `json:"concentration"`
	Index         int     `json:"aqi"`
}

// QualityReading is a parsed air quality response.
type QualityReading struct {
	OverallIndex *int                         `json:"overall_aqi,omitempty"`
	Pollutants   map[Pollutant]PollutantLevel `json:"pollutants,omitempty"`
}

// Complete reports whether the overall index and all six pollutants are present.
func (r QualityReading) Complete() bool {
	if r.OverallIndex == nil {
		return false
	}
	for _, p := range AllPollutants() {
		if _, ok := r.Pollutants[p]; !ok {
			return false
		}
	}
	return true
}

// Text renders the reading as display lines:
//
//	AQI: 42
//	PM2.5: 10.5 (42)
//	...
//
// Missing entries are skipped.
func (r QualityReading) Text() string {
	var lines []string
	if r.OverallIndex != nil {
		lines = append(lines, fmt.Sprintf("AQI: %d", *r.OverallIndex))
	}
	for _, p := range AllPollutants() {
		lvl, ok := r.Pollutants[p]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%d)", p.Label(), formatConcentration(lvl.Concentration), lvl.Index))
	}
	return strings.Join(lines, "\n")
}

// formatConcentration prints the shortest exact form, always with a decimal point.
func formatConcentration(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
