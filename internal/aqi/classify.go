// Package aqi maps air quality index values to severity tiers and decides
// whether provider text is fit to display or to persist.
package aqi

import "fmt"

// Tier represents an ordered AQI severity band.
type Tier int

const (
	TierUnknown Tier = iota
	TierGood
	TierModerate
	TierUnhealthySensitive
	TierUnhealthy
	TierVeryUnhealthy
	TierHazardous
)

// AllTiers returns every tier in ascending severity.
func AllTiers() []Tier {
	return []Tier{
		TierUnknown,
		TierGood,
		TierModerate,
		TierUnhealthySensitive,
		TierUnhealthy,
		TierVeryUnhealthy,
		TierHazardous,
	}
}

func (t Tier) String() string {
	switch t {
	case TierGood:
		return "Good"
	case TierModerate:
		return "Moderate"
	case TierUnhealthySensitive:
		return "Unhealthy for Sensitive Groups"
	case TierUnhealthy:
		return "Unhealthy"
	case TierVeryUnhealthy:
		return "Very Unhealthy"
	case TierHazardous:
		return "Hazardous"
	default:
		return "Unknown"
	}
}

// Color returns the tier's display color as a #RRGGBB hex string.
func (t Tier) Color() string {
	switch t {
	case TierGood:
		return "#00E400"
	case TierModerate:
		return "#FFFF00"
	case TierUnhealthySensitive:
		return "#FF8C00"
	case TierUnhealthy:
		return "#FF0000"
	case TierVeryUnhealthy:
		return "#8B008B"
	case TierHazardous:
		return "#800000"
	default:
		return "#808080" // gray
	}
}

// MarshalText encodes the tier by its display name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Classification is the result of banding an index value.
type Classification struct {
	Index int    `json:"index"`
	Tier  Tier   `json:"tier"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// TierFor returns the severity tier for index. Upper bounds are inclusive.
func TierFor(index int) Tier {
	switch {
	case index < 0:
		return TierUnknown
	case index <= 50:
		return TierGood
	case index <= 100:
		return TierModerate
	case index <= 150:
		return TierUnhealthySensitive
	case index <= 200:
		return TierUnhealthy
	case index <= 300:
		return TierVeryUnhealthy
	default:
		return TierHazardous
	}
}

// Classify bands index into a tier with its color and caption. The same
// result drives both the color indicator and the category caption.
func Classify(index int) Classification {
	tier := TierFor(index)
	label := tier.String()
	if tier != TierUnknown {
		label = fmt.Sprintf("%s (AQI: %d)", tier, index)
	}
	return Classification{
		Index: index,
		Tier:  tier,
		Color: tier.Color(),
		Label: label,
	}
}

// ClassifyText extracts the index from text and classifies it. Text with no
// recognizable index classifies as Unknown.
func ClassifyText(text string) Classification {
	idx, _ := ExtractIndex(text)
	return Classify(idx)
}
