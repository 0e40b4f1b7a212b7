package storage

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// storeMetrics holds the Prometheus collectors for one Store.
type storeMetrics struct {
	ops       *prometheus.CounterVec
	opErrors  *prometheus.CounterVec
	keys      prometheus.Gauge
	txnsLive  prometheus.Gauge
	commitOps prometheus.Counter
}

// RegisterMetrics registers store metrics with Prometheus.
//
// This should be called once per store during initialization; each
// store needs its own registry (or a uniquely prefixed one) since the
// collector names are fixed. Returns the store for method chaining.
func (s *Store) RegisterMetrics(registry *prometheus.Registry) *Store {
	m := &storeMetrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flexstore",
			Subsystem: "storage",
			Name:      "ops_total",
			Help:      "Total storage operations by kind",
		}, []string{"op"}),

		opErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flexstore",
			Subsystem: "storage",
			Name:      "op_errors_total",
			Help:      "Total failed storage operations by kind",
		}, []string{"op"}),

		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flexstore",
			Subsystem: "storage",
			Name:      "keys",
			Help:      "Number of keys visible to this store's namespace",
		}),

		txnsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flexstore",
			Subsystem: "storage",
			Name:      "transactions_live",
			Help:      "Transactions begun but not yet committed or rolled back",
		}),

		commitOps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flexstore",
			Subsystem: "storage",
			Name:      "commit_ops_applied_total",
			Help:      "Total buffered operations applied by transaction commits",
		}),
	}

	registry.MustRegister(
		m.ops,
		m.opErrors,
		m.keys,
		m.txnsLive,
		m.commitOps,
	)

	s.metrics = m
	s.refreshKeyGauge(context.Background())
	return s
}

// observe records one operation outcome when metrics are registered.
func (s *Store) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ops.WithLabelValues(op).Inc()
	if err != nil {
		s.metrics.opErrors.WithLabelValues(op).Inc()
	}
}

// refreshKeyGauge recounts the namespace's keys after a mutation.
// Stores are passive, so the gauge is updated inline rather than by a
// background loop.
func (s *Store) refreshKeyGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}

	raw, err := s.backend.Keys(ctx, "")
	if err != nil {
		return
	}

	count := 0
	for _, rk := range raw {
		if _, ok := decodeKey(s.cfg.Namespace, rk); ok {
			count++
		}
	}
	s.metrics.keys.Set(float64(count))
}
