package monitoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/airquality-cli/internal/model"
	"github.com/sells-group/airquality-cli/internal/resilience"
	"github.com/sells-group/airquality-cli/internal/store"
)

// mockStore embeds store.Store so only ListSummaries needs implementing.
type mockStore struct {
	store.Store
	sums []model.PlaceSummary
	err  error
}

func (m *mockStore) ListSummaries(context.Context) ([]model.PlaceSummary, error) {
	return m.sums, m.err
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	st := &mockStore{sums: []model.PlaceSummary{{Place: "Lima", Records: 2}, {Place: "Paris", Records: 3}}}
	breakers := resilience.NewBreakers(resilience.BreakerConfig{})
	breakers.Get("airquality")

	snap, err := NewCollector(st, breakers).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Places)
	assert.Equal(t, 5, snap.Records)
	assert.Equal(t, map[string]resilience.CircuitState{"airquality": resilience.CircuitClosed}, snap.Breakers)
	assert.False(t, snap.CollectedAt.IsZero())
}

func TestCollector_CollectStoreError(t *testing.T) {
	t.Parallel()

	_, err := NewCollector(&mockStore{err: errors.New("down")}, nil).Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring: list summaries")
}

func TestCollector_AsPrometheus(t *testing.T) {
	t.Parallel()

	st := &mockStore{sums: []model.PlaceSummary{{Place: "Paris", Records: 4}}}
	m := NewMetrics()
	require.NoError(t, m.Register(NewCollector(st, nil).AsPrometheus()))

	expected := `
# HELP airquality_saved_places Distinct places with at least one saved record.
# TYPE airquality_saved_places gauge
airquality_saved_places 1
# HELP airquality_saved_records Saved records across all places.
# TYPE airquality_saved_records gauge
airquality_saved_records 4
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"airquality_saved_places", "airquality_saved_records")
	assert.NoError(t, err)
}
