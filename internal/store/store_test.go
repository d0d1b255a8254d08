package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/airquality-cli/internal/aqi"
)

const validText = "City: Paris\nCountry: FR\n\nAQI: 57\nPM2.5: 14.2 (57)\nPM10: 17.0 (15)\nCO: 223.64 (2)"

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		place string
		text  string
		ok    bool
	}{
		{"valid", "  Paris ", "  " + validText + "\n", true},
		{"blank place", "   ", validText, false},
		{"blank text", "Paris", "  \n ", false},
		{"error code", "Paris", "City not found - Error code: 1", false},
		{"no pollutant", "Paris", "AQI: 57", false},
		{"no index", "Paris", "PM2.5: 14.2 (57)", false},
		{"connection", "Paris", "AQI: 5 PM10: 1 connection reset", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			place, text, err := ValidateRecord(nil, tt.place, tt.text)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrRejected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Paris", place)
			assert.Equal(t, validText, text)
		})
	}
}

func TestValidateRecord_CustomMarkers(t *testing.T) {
	t.Parallel()

	v := aqi.NewValidator(aqi.Markers{Pollutants: []string{"Ozone"}})

	_, _, err := ValidateRecord(v, "Paris", "AQI: 40\nOzone 12")
	require.NoError(t, err)

	_, _, err = ValidateRecord(v, "Paris", validText)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestNormalizePlaces(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"Lima", "Paris"}, normalizePlaces([]string{" Lima", "", "Lima", "Paris ", "  "}))
	assert.Empty(t, normalizePlaces(nil))
}
