package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/geodist/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	appMetrics.Calculations.WithLabelValues("km").Inc()
	appMetrics.Calculations.WithLabelValues("km").Inc()
	appMetrics.RateLimitDecisions.WithLabelValues("memory", "denied").Inc()

	assert.InDelta(t, 2, testutil.ToFloat64(appMetrics.Calculations.WithLabelValues("km")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.RateLimitDecisions.WithLabelValues("memory", "denied")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "geodist_distance_calculations_total")
	assert.Contains(t, names, "geodist_ratelimit_decisions_total")
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)

	assert.Panics(t, func() {
		metrics.NewMetrics(reg)
	})
}
