package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// SaveObserver is notified of every save attempt with its outcome
// ("saved", "rejected" or "error").
type SaveObserver interface {
	ObserveSave(outcome string)
}

// Records wraps a Store with the best-effort contract used by the CLI and
// the HTTP API: failures are logged and reported as false, empty or zero.
type Records struct {
	store    Store
	observer SaveObserver
}

// NewRecords creates a Records facade. observer may be nil.
func NewRecords(s Store, observer SaveObserver) *Records {
	return &Records{store: s, observer: observer}
}

// Store returns the underlying store.
func (r *Records) Store() Store {
	return r.store
}

// Save stores text for place and reports whether a row was written.
func (r *Records) Save(ctx context.Context, place, text string) bool {
	rec, err := r.store.Insert(ctx, place, text)
	switch {
	case err == nil:
		zap.L().Info("record saved", zap.String("place", rec.Place), zap.Int64("id", rec.ID))
		r.observe("saved")
		return true
	case errors.Is(err, ErrRejected):
		zap.L().Warn("record rejected", zap.String("place", place), zap.Error(err))
		r.observe("rejected")
	default:
		zap.L().Error("save record failed", zap.String("place", place), zap.Error(err))
		r.observe("error")
	}
	return false
}

// ListDistinctPlaces returns saved place names in alphabetical order.
func (r *Records) ListDistinctPlaces(ctx context.Context) []string {
	names, err := r.store.ListPlaces(ctx)
	if err != nil {
		zap.L().Error("list places failed", zap.Error(err))
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}

// CountRecords returns the number of records saved for place.
func (r *Records) CountRecords(ctx context.Context, place string) int {
	n, err := r.store.CountRecords(ctx, place)
	if err != nil {
		zap.L().Error("count records failed", zap.String("place", place), zap.Error(err))
		return 0
	}
	return n
}

// DeleteAll removes every record for place. It returns true iff at least
// one row was removed.
func (r *Records) DeleteAll(ctx context.Context, place string) bool {
	n, err := r.store.DeleteAll(ctx, place)
	if err != nil {
		zap.L().Error("delete records failed", zap.String("place", place), zap.Error(err))
		return false
	}
	zap.L().Info("records deleted", zap.String("place", place), zap.Int64("rows", n))
	return n > 0
}

// GetOne returns the text of the first record saved for place.
func (r *Records) GetOne(ctx context.Context, place string) (string, bool) {
	rec, err := r.store.GetOne(ctx, place)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			zap.L().Error("get record failed", zap.String("place", place), zap.Error(err))
		}
		return "", false
	}
	return rec.Text, true
}

func (r *Records) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveSave(outcome)
	}
}
