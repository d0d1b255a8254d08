package model

import "time"

// SavedRecord is a persisted lookup result for a place.
type SavedRecord struct {
	ID        int64     `json:"id"`
	Place     string    `json:"place"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaceSummary is a saved place with its record count.
type PlaceSummary struct {
	Place   string `json:"place"`
	Records int    `json:"records"`
}

// Lookup is the outcome of a successful fetch for a place.
type Lookup struct {
	RequestID string    `json:"request_id"`
	Place     string    `json:"place"`
	Reading   string    `json:"reading"`
	PlaceText string    `json:"place_info"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CombinedSeparator joins place text and reading text in a saved record.
const CombinedSeparator = "\n\n"

// Combined returns the text persisted for this lookup.
func (l Lookup) Combined() string {
	return l.PlaceText + CombinedSeparator + l.Reading
}
