package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveOptimization(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New("splitticket", reg)
	require.NoError(t, err)

	m.ObserveOptimization("partition-backtracking", ResultOK, 8, 256, 3*time.Millisecond)
	m.ObserveOptimization("greedy", ResultFallback, 30, 4096, time.Second)
	m.ObserveOptimization("", ResultError, 2, 0, 0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Optimizations.WithLabelValues("partition-backtracking", ResultOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Optimizations.WithLabelValues("greedy", ResultFallback)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Optimizations.WithLabelValues("none", ResultError)))
	require.Equal(t, 4352.0, testutil.ToFloat64(m.Leaves))
	require.Equal(t, 2, testutil.CollectAndCount(m.Duration))
	require.Equal(t, 1, testutil.CollectAndCount(m.Items))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New("splitticket", reg)
	require.NoError(t, err)
	second, err := New("splitticket", reg)
	require.NoError(t, err)

	second.ObserveLookup("found")
	require.Equal(t, 1.0, testutil.ToFloat64(first.Lookups.WithLabelValues("found")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveOptimization("greedy", ResultOK, 1, 1, time.Millisecond)
		m.ObserveLookup("found")
	})
}
