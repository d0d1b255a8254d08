package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PlaceUnavailable is shown when no place metadata could be obtained.
const PlaceUnavailable = "Location: Information not available"

var numberPrinter = message.NewPrinter(language.English)

// PlaceInfo is metadata about a searched place. All fields are optional.
type PlaceInfo struct {
	Name       *string  `json:"name,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Population *int     `json:"population,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Timezone   *string  `json:"timezone,omitempty"`
}

// Text renders the place as display lines, or PlaceUnavailable when no
// field is set.
func (p *PlaceInfo) Text() string {
	if p == nil {
		return PlaceUnavailable
	}

	var lines []string
	if p.Name != nil {
		lines = append(lines, "City: "+*p.Name)
	}
	if p.Country != nil {
		lines = append(lines, "Country: "+*p.Country)
	}
	if p.Population != nil {
		lines = append(lines, numberPrinter.Sprintf("Population: %d", *p.Population))
	}
	if p.Latitude != nil && p.Longitude != nil {
		lines = append(lines, fmt.Sprintf("Coordinates: %.4f, %.4f", *p.Latitude, *p.Longitude))
	}
	if p.Timezone != nil {
		lines = append(lines, "Timezone: "+*p.Timezone)
	}

	if len(lines) == 0 {
		return PlaceUnavailable
	}
	return strings.Join(lines, "\n")
}
