// Package view builds the search, summary and details screens as plain
// values and renders them for the terminal.
package view

import (
	"fmt"
	"strings"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/model"
)

// User-facing notices.
const (
	LoadingText   = "Loading air quality..."
	SavedNotice   = "Data saved successfully!"
	SaveFailed    = "Failed to save - city may not exist or data is invalid"
	SaveCityLabel = "Save City"
	NoDataLabel   = "No Data to Save"
	NoSavedCities = "No saved cities yet"
)

// DeletedNotice reports a successful delete.
func DeletedNotice(place string) string {
	return fmt.Sprintf("%q deleted successfully", place)
}

// DeleteFailedNotice reports a delete that removed nothing.
func DeleteFailedNotice(place string) string {
	return fmt.Sprintf("Failed to delete %q", place)
}

// DeletePrompt asks for confirmation before deleting every record of place.
func DeletePrompt(place string, count int) string {
	msg := fmt.Sprintf("Are you sure you want to delete %q?", place)
	if count > 1 {
		msg += fmt.Sprintf(" (%d saved records)", count)
	}
	return msg
}

// SearchRequest is the query typed on the search screen.
type SearchRequest struct {
	Query string
}

// Normalize trims the query. A blank query yields a fetcher error of kind
// KindBlankQuery so callers can show its message.
func (r SearchRequest) Normalize() (string, error) {
	q := strings.TrimSpace(r.Query)
	if q == "" {
		return "", &fetcher.Error{Kind: fetcher.KindBlankQuery}
	}
	return q, nil
}

// SearchScreen lists saved places.
type SearchScreen struct {
	Places []model.PlaceSummary `json:"places"`
}

// Place returns the name at 1-based position n.
func (s SearchScreen) Place(n int) (string, bool) {
	if n < 1 || n > len(s.Places) {
		return "", false
	}
	return s.Places[n-1].Place, true
}

// SummaryScreen is the header shown above a place's details.
type SummaryScreen struct {
	Place string `json:"place"`
}

// Title returns the summary line.
func (s SummaryScreen) Title() string {
	return "City: " + s.Place
}

// DetailsScreen is the result of a lookup, or a saved record, ready to
// render.
type DetailsScreen struct {
	Place          string             `json:"place"`
	ReadingText    string             `json:"reading"`
	PlaceText      string             `json:"place_info"`
	Classification aqi.Classification `json:"classification"`
	Error          string             `json:"error,omitempty"`
	CanSave        bool               `json:"can_save"`
	Saved          bool               `json:"saved"`
	RequestID      string             `json:"request_id,omitempty"`
}

// NewDetails builds the details screen for a lookup outcome. On error the
// reading text carries the error message and the place text falls back to
// the placeholder.
func NewDetails(place string, l *model.Lookup, err error, v *aqi.Validator) DetailsScreen {
	if v == nil {
		v = aqi.Default()
	}
	d := DetailsScreen{Place: strings.TrimSpace(place)}

	if err != nil || l == nil {
		msg := fetcher.MessageOf(err)
		if msg == "" {
			msg = "City not found - Exception: unknown"
		}
		d.Error = msg
		d.ReadingText = "Error: " + msg
		d.PlaceText = model.PlaceUnavailable
		d.Classification = aqi.ClassifyText(d.ReadingText)
		return d
	}

	d.Place = l.Place
	d.RequestID = l.RequestID
	d.ReadingText = l.Reading
	d.PlaceText = l.PlaceText
	if d.PlaceText == "" {
		d.PlaceText = model.PlaceUnavailable
	}
	d.Classification = aqi.ClassifyText(d.ReadingText)
	d.CanSave = v.IsDisplayValid(d.ReadingText)
	return d
}

// NewSavedDetails rebuilds the details screen from a stored record. Saved
// records cannot be saved again.
func NewSavedDetails(rec model.SavedRecord) DetailsScreen {
	placeText, reading, ok := strings.Cut(rec.Text, model.CombinedSeparator)
	if !ok {
		placeText, reading = model.PlaceUnavailable, rec.Text
	}
	return DetailsScreen{
		Place:          rec.Place,
		ReadingText:    reading,
		PlaceText:      placeText,
		Classification: aqi.ClassifyText(reading),
		Saved:          true,
	}
}

// SaveLabel returns the save button text.
func (d DetailsScreen) SaveLabel() string {
	if d.CanSave {
		return SaveCityLabel
	}
	return NoDataLabel
}

// Combined returns the text persisted when the screen is saved.
func (d DetailsScreen) Combined() string {
	return d.PlaceText + model.CombinedSeparator + d.ReadingText
}
