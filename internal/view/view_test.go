package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/model"
)

const (
	placeText = "City: Paris\nCountry: FR"
	reading   = "AQI: 57\nPM2.5: 14.2 (57)\nPM10: 17.0 (15)"
)

func lookup() *model.Lookup {
	return &model.Lookup{RequestID: "req-1", Place: "Paris", Reading: reading, PlaceText: placeText}
}

func TestSearchRequest_Normalize(t *testing.T) {
	t.Parallel()

	q, err := SearchRequest{Query: "  Lima "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Lima", q)

	_, err = SearchRequest{Query: " \t"}.Normalize()
	require.Error(t, err)
	assert.Equal(t, fetcher.KindBlankQuery, fetcher.KindOf(err))
	assert.Equal(t, "Please enter a city", fetcher.MessageOf(err))
}

func TestNewDetails_Success(t *testing.T) {
	t.Parallel()

	d := NewDetails("Paris", lookup(), nil, nil)
	assert.Equal(t, "Paris", d.Place)
	assert.Equal(t, "req-1", d.RequestID)
	assert.Empty(t, d.Error)
	assert.True(t, d.CanSave)
	assert.Equal(t, "Save City", d.SaveLabel())
	assert.Equal(t, aqi.TierModerate, d.Classification.Tier)
	assert.Equal(t, "Moderate (AQI: 57)", d.Classification.Label)
	assert.Equal(t, placeText+"\n\n"+reading, d.Combined())
	assert.True(t, aqi.IsPersistable(d.Combined()))
}

func TestNewDetails_Error(t *testing.T) {
	t.Parallel()

	err := &fetcher.Error{Kind: fetcher.KindStatus, StatusCode: 500}
	d := NewDetails("Paris", nil, err, nil)

	assert.Equal(t, "City not found - Error code: 500", d.Error)
	assert.Equal(t, "Error: City not found - Error code: 500", d.ReadingText)
	assert.Equal(t, model.PlaceUnavailable, d.PlaceText)
	assert.False(t, d.CanSave)
	assert.Equal(t, "No Data to Save", d.SaveLabel())
	assert.Equal(t, aqi.TierHazardous, d.Classification.Tier, "the status code is the only number in the text")
	assert.False(t, aqi.IsPersistable(d.Combined()))
}

func TestNewDetails_PlainError(t *testing.T) {
	t.Parallel()

	d := NewDetails("Paris", nil, errors.New("boom"), nil)
	assert.Equal(t, "Error: City not found - Exception: boom", d.ReadingText)
	assert.Equal(t, aqi.TierUnknown, d.Classification.Tier)
}

func TestNewDetails_UnreadableReadingCannotSave(t *testing.T) {
	t.Parallel()

	l := lookup()
	l.Reading = "no numbers here"
	d := NewDetails("Paris", l, nil, nil)
	assert.False(t, d.CanSave)
	assert.Equal(t, aqi.TierUnknown, d.Classification.Tier)
}

func TestNewSavedDetails(t *testing.T) {
	t.Parallel()

	d := NewSavedDetails(model.SavedRecord{Place: "Paris", Text: placeText + "\n\n" + reading})
	assert.Equal(t, placeText, d.PlaceText)
	assert.Equal(t, reading, d.ReadingText)
	assert.True(t, d.Saved)
	assert.Equal(t, 57, d.Classification.Index)

	d = NewSavedDetails(model.SavedRecord{Place: "Paris", Text: reading})
	assert.Equal(t, model.PlaceUnavailable, d.PlaceText)
	assert.Equal(t, reading, d.ReadingText)
}

func TestDeletePromptAndNotices(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `Are you sure you want to delete "Paris"?`, DeletePrompt("Paris", 1))
	assert.Equal(t, `Are you sure you want to delete "Paris"? (3 saved records)`, DeletePrompt("Paris", 3))
	assert.Equal(t, `"Paris" deleted successfully`, DeletedNotice("Paris"))
	assert.Equal(t, `Failed to delete "Paris"`, DeleteFailedNotice("Paris"))
}

func TestSearchScreen_Place(t *testing.T) {
	t.Parallel()

	s := SearchScreen{Places: []model.PlaceSummary{{Place: "Lima"}, {Place: "Paris"}}}
	p, ok := s.Place(2)
	assert.True(t, ok)
	assert.Equal(t, "Paris", p)
	_, ok = s.Place(0)
	assert.False(t, ok)
	_, ok = s.Place(3)
	assert.False(t, ok)
}

func TestSwatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[#00E400]", Swatch("#00E400", false))
	assert.Equal(t, "\x1b[48;2;0;228;0m      \x1b[0m", Swatch("#00E400", true))
	assert.Equal(t, "[bad]", Swatch("bad", true))
	assert.Equal(t, "\x1b[38;2;128;0;0mHazardous\x1b[0m", Colorize("Hazardous", "#800000", true))
	assert.Equal(t, "x", Colorize("x", "#800000", false))
}

func TestRenderDetails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderDetails(&buf, NewDetails("Paris", lookup(), nil, nil), false))

	want := "City: Paris\n[#FFFF00] Moderate (AQI: 57)\n\n" + placeText + "\n\n" + reading + "\n\n[Save City]\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := model.SavedRecord{Place: "Paris", Text: placeText + "\n\n" + reading, CreatedAt: time.Now()}
	require.NoError(t, RenderRecord(&buf, rec, false))

	out := buf.String()
	assert.Contains(t, out, "Moderate (AQI: 57)")
	assert.Contains(t, out, "Saved ")
	assert.NotContains(t, out, "[Save City]")
}

func TestRenderSearch(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderSearch(&buf, SearchScreen{}))
	assert.Equal(t, "No saved cities yet\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderSearch(&buf, SearchScreen{Places: []model.PlaceSummary{
		{Place: "Lima", Records: 1},
		{Place: "Rio de Janeiro", Records: 12},
	}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "#  CITY            RECORDS", lines[0])
	assert.Equal(t, "2  Rio de Janeiro  12", lines[2])
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, NewDetails("Paris", lookup(), nil, nil)))
	assert.Contains(t, buf.String(), `"tier": "Moderate"`)
	assert.Contains(t, buf.String(), `"can_save": true`)
}
