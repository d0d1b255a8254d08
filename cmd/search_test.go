package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/airquality-cli/internal/view"
)

func TestRunSearch_RendersAndSaves(t *testing.T) {
	records := newTestRecords(t)
	lookups := &fakeLookups{}
	var buf bytes.Buffer

	err := runSearch(context.Background(), &buf, lookups, records, nil, " Paris ", searchOptions{save: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "City: Paris\n")
	assert.Contains(t, out, "Moderate (AQI: 57)")
	assert.Contains(t, out, view.SavedNotice)
	assert.Equal(t, []string{"Paris"}, lookups.queries)
	assert.Equal(t, 1, records.CountRecords(context.Background(), "Paris"))
}

func TestRunSearch_ErrorIsRenderedNotSaved(t *testing.T) {
	records := newTestRecords(t)
	var buf bytes.Buffer

	err := runSearch(context.Background(), &buf, &fakeLookups{}, records, nil, "Atlantis", searchOptions{save: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Error: City not found - no air quality data available")
	assert.Contains(t, out, "[No Data to Save]")
	assert.Contains(t, out, view.SaveFailed)
	assert.Empty(t, records.ListDistinctPlaces(context.Background()))
}

func TestRunSearch_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := runSearch(context.Background(), &buf, &fakeLookups{}, newTestRecords(t), nil, "Paris", searchOptions{json: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"label": "Moderate (AQI: 57)"`)
}

func TestRunSearch_BlankQuery(t *testing.T) {
	lookups := &fakeLookups{}
	err := runSearch(context.Background(), &bytes.Buffer{}, lookups, newTestRecords(t), nil, "   ", searchOptions{})
	require.Error(t, err)
	assert.Equal(t, "Please enter a city", err.Error())
	assert.Empty(t, lookups.queries)
}
