// Package store persists air quality lookups per place.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/model"
)

// SchemaVersion is the fixed version recorded by Migrate.
const SchemaVersion = 1

var (
	// ErrRejected is returned when a record fails validation.
	ErrRejected = eris.New("store: record rejected")
	// ErrNotFound is returned when no record exists for a place.
	ErrNotFound = eris.New("store: record not found")
)

// Store defines the persistence interface for saved lookups. Backends
// validate every insert themselves; callers are never trusted.
type Store interface {
	// Insert validates and stores a record, trimming both fields.
	Insert(ctx context.Context, place, text string) (*model.SavedRecord, error)
	// ListPlaces returns distinct place names in alphabetical order.
	ListPlaces(ctx context.Context) ([]string, error)
	// ListSummaries returns distinct places with their record counts.
	ListSummaries(ctx context.Context) ([]model.PlaceSummary, error)
	// CountRecords returns the number of records for place.
	CountRecords(ctx context.Context, place string) (int, error)
	// DeleteAll removes every record for place and returns the count removed.
	DeleteAll(ctx context.Context, place string) (int64, error)
	// GetOne returns the first record stored for place, or ErrNotFound.
	GetOne(ctx context.Context, place string) (*model.SavedRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// ValidateRecord trims place and text and checks that the text is
// persistable according to v.
func ValidateRecord(v *aqi.Validator, place, text string) (string, string, error) {
	place = strings.TrimSpace(place)
	text = strings.TrimSpace(text)
	if place == "" {
		return "", "", eris.Wrap(ErrRejected, "place is blank")
	}
	if text == "" {
		return "", "", eris.Wrap(ErrRejected, "text is blank")
	}
	if v == nil {
		v = aqi.Default()
	}
	if !v.IsPersistable(text) {
		return "", "", eris.Wrap(ErrRejected, "text is not a complete reading")
	}
	return place, text, nil
}

// normalizePlaces trims names, drops blanks and duplicates, and keeps the
// input order, which backends already sort.
func normalizePlaces(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func trimPlace(place string) string {
	return strings.TrimSpace(place)
}
