package postgres

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ridexchange/dealer-api/pkg/metrics"
)

func TestTrackRecordsOperationOutcome(t *testing.T) {
	m := metrics.New("test")
	repo := BaseRepository{metrics: m}

	repo.track("get_booking")(nil)
	repo.track("get_booking")(errors.New("connection reset"))
	repo.track("create_booking")(nil)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("get_booking", "success")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("get_booking", "error")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("create_booking", "success")))

	// One latency series per operation label.
	assert.Equal(t, 2, testutil.CollectAndCount(m.DatabaseLatency))
}

func TestTrackWithoutMetricsIsNoop(t *testing.T) {
	repo := BaseRepository{}
	assert.NotPanics(t, func() {
		repo.track("get_booking")(nil)
		repo.track("get_booking")(errors.New("boom"))
	})
}
