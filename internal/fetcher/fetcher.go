// Package fetcher looks up place metadata and air quality for a place name
// and normalizes both into display text.
package fetcher

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/airquality-cli/internal/model"
	"github.com/sells-group/airquality-cli/internal/resilience"
	"github.com/sells-group/airquality-cli/pkg/ninjas"
)

// Outcome is the single result delivered by Go: exactly one of Lookup and
// Err is set.
type Outcome struct {
	Lookup *model.Lookup
	Err    error
}

// Observer is notified of every completed lookup.
type Observer interface {
	ObserveLookup(kind string, elapsed time.Duration)
}

// Fetcher performs the two-step lookup for a place.
type Fetcher struct {
	client   ninjas.Client
	observer Observer
	group    singleflight.Group
	now      func() time.Time
}

// New creates a Fetcher backed by client. observer may be nil.
func New(client ninjas.Client, observer Observer) *Fetcher {
	return &Fetcher{client: client, observer: observer, now: time.Now}
}

// Fetch looks up place metadata, then air quality, sequentially. A failed
// metadata lookup degrades to model.PlaceUnavailable and never fails the
// call. Errors are always *Error.
func (f *Fetcher) Fetch(ctx context.Context, place string) (*model.Lookup, error) {
	start := f.now()
	l, err := f.fetch(ctx, place)

	kind := "success"
	if err != nil {
		kind = KindOf(err).String()
	}
	if f.observer != nil {
		f.observer.ObserveLookup(kind, f.now().Sub(start))
	}
	return l, err
}

func (f *Fetcher) fetch(ctx context.Context, place string) (*model.Lookup, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, newError(KindBlankQuery, place, nil)
	}

	requestID := uuid.NewString()
	log := zap.L().With(zap.String("request_id", requestID), zap.String("place", place))

	placeText := f.placeText(ctx, log, place)

	body, err := f.client.AirQuality(ctx, place)
	if err != nil {
		fe := classify(place, err)
		log.Info("air quality lookup failed", zap.Stringer("kind", fe.Kind), zap.Error(err))
		return nil, fe
	}

	reading, err := parseReading(place, body)
	if err != nil {
		log.Info("air quality response rejected", zap.Stringer("kind", KindOf(err)), zap.Error(err))
		return nil, err
	}

	log.Debug("air quality lookup complete", zap.Int("aqi", *reading.OverallIndex))
	return &model.Lookup{
		RequestID: requestID,
		Place:     place,
		Reading:   reading.Text(),
		PlaceText: placeText,
		FetchedAt: f.now().UTC(),
	}, nil
}

// placeText never fails; every problem degrades to the placeholder.
func (f *Fetcher) placeText(ctx context.Context, log *zap.Logger, place string) string {
	body, err := f.client.City(ctx, place)
	if err != nil {
		log.Debug("place lookup failed", zap.Error(err))
		return model.PlaceUnavailable
	}
	info, err := parsePlace(body)
	if err != nil {
		log.Debug("place response unusable", zap.Error(err))
		return model.PlaceUnavailable
	}
	return info.Text()
}

// Go runs Fetch on its own goroutine. The returned channel receives exactly
// one Outcome and is then closed. Cancelling ctx is the only way to abandon
// the lookup early.
func (f *Fetcher) Go(ctx context.Context, place string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		l, err := f.Fetch(ctx, place)
		ch <- Outcome{Lookup: l, Err: err}
	}()
	return ch
}

// FetchShared is Fetch with identical in-flight lookups collapsed into one
// upstream call. Places are matched case-insensitively; each caller gets its
// own copy of the lookup carrying the place as it asked for it.
func (f *Fetcher) FetchShared(ctx context.Context, place string) (*model.Lookup, error) {
	place = strings.TrimSpace(place)
	v, err, _ := f.group.Do(strings.ToLower(place), func() (any, error) {
		return f.Fetch(ctx, place)
	})
	if err != nil {
		return nil, err
	}
	l := *v.(*model.Lookup)
	l.Place = place
	return &l, nil
}

// classify maps a client error onto the lookup taxonomy.
func classify(place string, err error) *Error {
	var se *ninjas.StatusError
	if errors.As(err, &se) {
		fe := newError(statusKind(se.StatusCode), place, err)
		fe.StatusCode = se.StatusCode
		return fe
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return newError(KindUnavailable, place, err)
	}
	if resilience.IsNetwork(err) {
		return newError(KindNetwork, place, err)
	}
	return newError(KindOther, place, err)
}

func statusKind(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindAuthFailed
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindStatus
	}
}
