// Package metrics exposes Prometheus collectors for the optimizer.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK        = "ok"
	ResultFallback  = "fallback"
	ResultCancelled = "cancelled"
	ResultError     = "error"
)

// Metrics groups the optimizer collectors. A nil *Metrics records nothing,
// which is how the server runs with metrics disabled.
type Metrics struct {
	Optimizations *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Leaves        prometheus.Counter
	Items         prometheus.Histogram
	Lookups       *prometheus.CounterVec
}

// New creates the collectors under namespace and registers them on reg.
// Collectors already registered on reg are reused.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizations_total",
			Help:      "Count of split optimizations by algorithm and outcome.",
		}, []string{"algorithm", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimization_duration_seconds",
			Help:      "Wall time spent finding a split.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"algorithm"}),
		Leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_leaves_total",
			Help:      "Complete assignments evaluated by the exact search.",
		}),
		Items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimization_items",
			Help:      "Voucher-eligible unit items per optimization.",
			Buckets:   prometheus.LinearBuckets(0, 4, 8),
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_lookups_total",
			Help:      "Barcode lookups against the product catalogue by outcome.",
		}, []string{"result"}),
	}

	var err error
	m.Optimizations = register(reg, m.Optimizations, &err)
	m.Duration = register(reg, m.Duration, &err)
	m.Leaves = register(reg, m.Leaves, &err)
	m.Items = register(reg, m.Items, &err)
	m.Lookups = register(reg, m.Lookups, &err)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, errp *error) C {
	if *errp != nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		*errp = err
	}
	return c
}

// ObserveOptimization records one optimization. algorithm is empty when the
// request failed before a split was produced.
func (m *Metrics) ObserveOptimization(algorithm, result string, items int, leaves int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	if algorithm == "" {
		algorithm = "none"
	}
	m.Optimizations.WithLabelValues(algorithm, result).Inc()
	m.Items.Observe(float64(items))
	if result == ResultOK || result == ResultFallback {
		m.Duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	}
	if leaves > 0 {
		m.Leaves.Add(float64(leaves))
	}
}

// ObserveLookup records one product lookup outcome.
func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}
