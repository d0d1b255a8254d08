package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePlace_Confirmed(t *testing.T) {
	records := newTestRecords(t)
	ctx := context.Background()
	require.True(t, records.Save(ctx, "Paris", testPlaceText+"\n\n"+testReading))
	require.True(t, records.Save(ctx, "Paris", testPlaceText+"\n\n"+testReading))

	var buf bytes.Buffer
	err := deletePlace(ctx, &buf, bufio.NewReader(strings.NewReader("y\n")), records, " Paris", false)
	require.NoError(t, err)

	assert.Equal(t, "Are you sure you want to delete \"Paris\"? (2 saved records) [y/N]: \"Paris\" deleted successfully\n", buf.String())
	assert.Zero(t, records.CountRecords(ctx, "Paris"))
}

func TestDeletePlace_Declined(t *testing.T) {
	records := newTestRecords(t)
	ctx := context.Background()
	require.True(t, records.Save(ctx, "Paris", testPlaceText+"\n\n"+testReading))

	for _, answer := range []string{"n\n", "\n", "", "maybe\n"} {
		var buf bytes.Buffer
		err := deletePlace(ctx, &buf, bufio.NewReader(strings.NewReader(answer)), records, "Paris", false)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Cancelled.")
	}
	assert.Equal(t, 1, records.CountRecords(ctx, "Paris"))
}

func TestDeletePlace_YesFlagAndMissing(t *testing.T) {
	records := newTestRecords(t)
	ctx := context.Background()

	var buf bytes.Buffer
	err := deletePlace(ctx, &buf, bufio.NewReader(strings.NewReader("")), records, "Atlantis", true)
	assert.ErrorIs(t, err, errNothingDeleted)
	assert.Equal(t, "Failed to delete \"Atlantis\"\n", buf.String())
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"y", true},
		{"no\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		got := confirm(&buf, bufio.NewReader(strings.NewReader(tt.input)), "Delete?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.True(t, strings.HasPrefix(buf.String(), "Delete? [y/N]: "))
	}
}
