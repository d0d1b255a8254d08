package aqi

import (
	"regexp"
	"strings"
)

// displayErrorMarkers are case-insensitive substrings that mark text as an
// error message rather than a reading. Shared by both predicates.
var displayErrorMarkers = []string{
	"error",
	"exception",
	"not found",
	"invalid",
	"failed",
}

// persistErrorMarkers extend displayErrorMarkers for the persistence gate.
var persistErrorMarkers = []string{
	"city not found",
	"no data",
	"unable to fetch",
	"connection",
}

var persistErrorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`error\s*code\s*:\s*\d+`),
	regexp.MustCompile(`http\s*error`),
}

var indexLabelRe = regexp.MustCompile(`AQI\s*:\s*\d+`)

// Markers lists the structural markers a persistable record must carry.
// Pollutant markers are tied to the display labels the fetcher renders.
type Markers struct {
	Index      []string `yaml:"index_markers" mapstructure:"index_markers"`
	Pollutants []string `yaml:"pollutant_markers" mapstructure:"pollutant_markers"`
}

// DefaultMarkers returns the markers matching the reading text the fetcher
// produces.
func DefaultMarkers() Markers {
	return Markers{
		Index:      []string{"AQI:"},
		Pollutants: []string{"PM2.5", "PM10", "CO:", "NO₂:", "O₃:", "SO₂:"},
	}
}

// Validator applies the display and persistence gates.
type Validator struct {
	markers Markers
}

// NewValidator creates a Validator. Empty marker lists fall back to the
// defaults.
func NewValidator(m Markers) *Validator {
	def := DefaultMarkers()
	if len(m.Index) == 0 {
		m.Index = def.Index
	}
	if len(m.Pollutants) == 0 {
		m.Pollutants = def.Pollutants
	}
	return &Validator{markers: m}
}

var defaultValidator = NewValidator(DefaultMarkers())

// Default returns the validator configured with DefaultMarkers.
func Default() *Validator { return defaultValidator }

// Markers returns a copy of the validator's markers.
func (v *Validator) Markers() Markers {
	return Markers{
		Index:      append([]string(nil), v.markers.Index...),
		Pollutants: append([]string(nil), v.markers.Pollutants...),
	}
}

// IsDisplayValid reports whether text looks like a reading worth offering
// to save. It is looser than IsPersistable.
func (v *Validator) IsDisplayValid(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if containsAny(strings.ToLower(text), displayErrorMarkers) {
		return false
	}
	if v.hasIndexLiteral(text) {
		return true
	}
	_, ok := ExtractIndex(text)
	return ok
}

// IsPersistable reports whether text is complete enough to store: free of
// error markers, with both an index marker and a pollutant marker.
func (v *Validator) IsPersistable(text string) bool {
	data := strings.TrimSpace(text)
	if data == "" {
		return false
	}
	if isErrorText(strings.ToLower(data)) {
		return false
	}

	hasIndex := v.hasIndexLiteral(data) || indexLabelRe.MatchString(data)
	hasPollutant := containsAny(data, v.markers.Pollutants)
	return hasIndex && hasPollutant
}

func (v *Validator) hasIndexLiteral(text string) bool {
	return containsAny(text, v.markers.Index)
}

// isErrorText expects lowercased input.
func isErrorText(lower string) bool {
	if containsAny(lower, displayErrorMarkers) || containsAny(lower, persistErrorMarkers) {
		return true
	}
	for _, re := range persistErrorPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsDisplayValid applies the display gate with the default markers.
func IsDisplayValid(text string) bool {
	return defaultValidator.IsDisplayValid(text)
}

// IsPersistable applies the persistence gate with the default markers.
func IsPersistable(text string) bool {
	return defaultValidator.IsPersistable(text)
}
