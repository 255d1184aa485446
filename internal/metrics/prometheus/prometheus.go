package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carson-networks/banking-view/internal/metrics"
)

// Collector implements metrics.Collector for Prometheus.
type Collector struct {
	storeCalls   *prometheus.CounterVec
	storeErrors  *prometheus.CounterVec
	storeRetries *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	circuitState *prometheus.GaugeVec
}

var _ metrics.Collector = (*Collector)(nil)

// NewCollector creates the collectors; call Register to expose them.
func NewCollector(namespace string) *Collector {
	return &Collector{
		storeCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_calls_total",
				Help:      "Total number of record store calls per table and operation",
			},
			[]string{"table", "operation"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total number of failed record store calls per table and operation",
			},
			[]string{"table", "operation"},
		),
		storeRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_retries_total",
				Help:      "Total number of retried record store reads per table and operation",
			},
			[]string{"table", "operation"},
		),
		storeLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_call_duration_seconds",
				Help:      "Record store call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"table", "operation"},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_circuit_state",
				Help:      "Circuit breaker state per table (0=closed, 1=open, 2=half-open)",
			},
			[]string{"table"},
		),
	}
}

// Register registers every collector with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.storeCalls, c.storeErrors, c.storeRetries, c.storeLatency, c.circuitState,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) RecordStoreCall(table, operation string, success bool, duration time.Duration) {
	c.storeCalls.WithLabelValues(table, operation).Inc()
	if !success {
		c.storeErrors.WithLabelValues(table, operation).Inc()
	}
	c.storeLatency.WithLabelValues(table, operation).Observe(duration.Seconds())
}

func (c *Collector) RecordStoreRetry(table, operation string) {
	c.storeRetries.WithLabelValues(table, operation).Inc()
}

func (c *Collector) RecordCircuitState(table string, state metrics.CircuitState) {
	c.circuitState.WithLabelValues(table).Set(float64(state))
}
