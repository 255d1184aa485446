package resilient

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/carson-networks/banking-view/internal/metrics"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

// guard applies a per-attempt timeout, a circuit breaker, and for reads a
// bounded retry to calls against one table.
type guard struct {
	table        string
	cb           *gobreaker.CircuitBreaker
	timeout      time.Duration
	readRetries  uint64
	retryBackoff time.Duration
	metrics      metrics.Collector
	logger       *logrus.Entry
}

func newGuard(table string, cfg Config, collector metrics.Collector, logger *logrus.Logger) *guard {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}

	g := &guard{
		table:        table,
		timeout:      cfg.Timeout,
		retryBackoff: cfg.RetryBackoff,
		metrics:      collector,
		logger:       logger.WithField("table", table),
	}
	if cfg.ReadRetries > 0 {
		g.readRetries = uint64(cfg.ReadRetries)
	}
	if g.retryBackoff <= 0 {
		g.retryBackoff = time.Millisecond
	}

	consecutiveFailures := cfg.BreakerConsecutiveFailures
	if consecutiveFailures == 0 {
		consecutiveFailures = 5
	}

	g.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        table,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		IsSuccessful: isHealthy,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			g.logger.WithFields(logrus.Fields{
				"from": from.String(),
				"to":   to.String(),
			}).Warn("Store.CircuitBreaker.StateChange")
			g.metrics.RecordCircuitState(name, toCircuitState(to))
		},
	})

	return g
}

// isHealthy decides what counts against the breaker. A rejected row or an
// abandoned request says nothing about the store's health.
func isHealthy(err error) bool {
	return err == nil ||
		sqlconfig.IsConstraintViolation(err) ||
		errors.Is(err, context.Canceled)
}

func isRetryable(err error) bool {
	return !isHealthy(err) &&
		!errors.Is(err, gobreaker.ErrOpenState) &&
		!errors.Is(err, gobreaker.ErrTooManyRequests)
}

func toCircuitState(s gobreaker.State) metrics.CircuitState {
	switch s {
	case gobreaker.StateOpen:
		return metrics.CircuitOpen
	case gobreaker.StateHalfOpen:
		return metrics.CircuitHalfOpen
	default:
		return metrics.CircuitClosed
	}
}

func (g *guard) attempt(ctx context.Context, operation string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := g.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	g.metrics.RecordStoreCall(g.table, operation, isHealthy(err), time.Since(start))
	return result, err
}

func (g *guard) write(ctx context.Context, operation string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	return g.attempt(ctx, operation, fn)
}

func (g *guard) read(ctx context.Context, operation string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	var result interface{}
	attempts := 0

	backoff := retry.WithMaxRetries(g.readRetries, retry.NewConstant(g.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempts > 0 {
			g.metrics.RecordStoreRetry(g.table, operation)
			g.logger.WithField("operation", operation).Info("Store.Read.Retry")
		}
		attempts++

		var err error
		result, err = g.attempt(ctx, operation, fn)
		if err != nil && isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return result, err
}
