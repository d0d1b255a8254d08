package main

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/model"
	"github.com/sells-group/airquality-cli/internal/store"
)

const (
	testPlaceText = "City: Paris\nCountry: FR"
	testReading   = "AQI: 57\nPM2.5: 14.2 (57)\nPM10: 17.0 (15)"
)

func newTestRecords(t *testing.T) *store.Records {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cmd.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return store.NewRecords(st, nil)
}

// fakeLookups answers from a map keyed by lowercase place; unknown places
// fail with KindNoData.
type fakeLookups struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeLookups) Fetch(_ context.Context, place string) (*model.Lookup, error) {
	f.mu.Lock()
	f.queries = append(f.queries, place)
	f.mu.Unlock()

	switch strings.ToLower(place) {
	case "paris":
		return &model.Lookup{RequestID: "r", Place: place, Reading: testReading, PlaceText: testPlaceText}, nil
	case "lima":
		return &model.Lookup{Place: place, Reading: "AQI: 12\nPM10: 3.0 (12)", PlaceText: model.PlaceUnavailable}, nil
	default:
		return nil, &fetcher.Error{Kind: fetcher.KindNoData, Place: place}
	}
}

func (f *fakeLookups) Go(ctx context.Context, place string) <-chan fetcher.Outcome {
	ch := make(chan fetcher.Outcome, 1)
	go func() {
		defer close(ch)
		l, err := f.Fetch(ctx, place)
		ch <- fetcher.Outcome{Lookup: l, Err: err}
	}()
	return ch
}
