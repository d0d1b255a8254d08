package aqi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index int
		tier  Tier
		color string
		label string
	}{
		{-1, TierUnknown, "#808080", "Unknown"},
		{-100, TierUnknown, "#808080", "Unknown"},
		{0, TierGood, "#00E400", "Good (AQI: 0)"},
		{50, TierGood, "#00E400", "Good (AQI: 50)"},
		{51, TierModerate, "#FFFF00", "Moderate (AQI: 51)"},
		{100, TierModerate, "#FFFF00", "Moderate (AQI: 100)"},
		{101, TierUnhealthySensitive, "#FF8C00", "Unhealthy for Sensitive Groups (AQI: 101)"},
		{150, TierUnhealthySensitive, "#FF8C00", "Unhealthy for Sensitive Groups (AQI: 150)"},
		{151, TierUnhealthy, "#FF0000", "Unhealthy (AQI: 151)"},
		{200, TierUnhealthy, "#FF0000", "Unhealthy (AQI: 200)"},
		{201, TierVeryUnhealthy, "#8B008B", "Very Unhealthy (AQI: 201)"},
		{300, TierVeryUnhealthy, "#8B008B", "Very Unhealthy (AQI: 300)"},
		{301, TierHazardous, "#800000", "Hazardous (AQI: 301)"},
		{999, TierHazardous, "#800000", "Hazardous (AQI: 999)"},
	}

	for _, tt := range tests {
		got := Classify(tt.index)
		assert.Equal(t, tt.index, got.Index)
		assert.Equal(t, tt.tier, got.Tier, "index %d", tt.index)
		assert.Equal(t, tt.color, got.Color, "index %d", tt.index)
		assert.Equal(t, tt.label, got.Label, "index %d", tt.index)
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	t.Parallel()

	prev := TierFor(-1)
	for i := 0; i <= 600; i++ {
		cur := TierFor(i)
		assert.GreaterOrEqual(t, int(cur), int(prev), "tier decreased at %d", i)
		prev = cur
	}
}

func TestAllTiers_DistinctColors(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, tier := range AllTiers() {
		assert.False(t, seen[tier.Color()], "duplicate color for %s", tier)
		seen[tier.Color()] = true
	}
	assert.Len(t, seen, 7)
}

func TestClassification_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Classify(120))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":120,"tier":"Unhealthy for Sensitive Groups","color":"#FF8C00","label":"Unhealthy for Sensitive Groups (AQI: 120)"}`, string(b))
}

func TestClassifyText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TierModerate, ClassifyText("AQI: 72\nPM2.5: 20.1 (72)").Tier)
	assert.Equal(t, TierUnknown, ClassifyText("Error: City not found - please check the city name").Tier)
}
