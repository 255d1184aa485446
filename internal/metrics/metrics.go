package metrics

import (
	"time"
)

// Collector records what happens on the way to the record store.
// Implementations can export metrics to various backends.
type Collector interface {
	RecordStoreCall(table, operation string, success bool, duration time.Duration)
	RecordStoreRetry(table, operation string)
	RecordCircuitState(table string, state CircuitState)
}

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed means the circuit breaker is allowing requests through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit breaker is blocking requests.
	CircuitOpen
	// CircuitHalfOpen means the circuit breaker is testing if the store has recovered.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector is used when metrics are not needed.
type NoOpCollector struct{}

func (NoOpCollector) RecordStoreCall(table, operation string, success bool, duration time.Duration) {}

func (NoOpCollector) RecordStoreRetry(table, operation string) {}

func (NoOpCollector) RecordCircuitState(table string, state CircuitState) {}
