package resilient

import (
	"time"

	"github.com/carson-networks/banking-view/internal/config"
)

// Config configures the protection placed around each store table.
type Config struct {
	// Timeout bounds a single attempt. Zero disables it.
	Timeout time.Duration
	// ReadRetries is how many extra attempts a failed read gets. Writes are
	// never retried.
	ReadRetries int
	// RetryBackoff is the constant wait between read attempts.
	RetryBackoff time.Duration

	BreakerMaxRequests         uint32
	BreakerInterval            time.Duration
	BreakerTimeout             time.Duration
	BreakerConsecutiveFailures uint32
}

// DefaultConfig is a single retried read and a breaker that trips after five
// consecutive failures.
func DefaultConfig() Config {
	return Config{
		Timeout:                    5 * time.Second,
		ReadRetries:                1,
		RetryBackoff:               100 * time.Millisecond,
		BreakerMaxRequests:         1,
		BreakerInterval:            60 * time.Second,
		BreakerTimeout:             30 * time.Second,
		BreakerConsecutiveFailures: 5,
	}
}

// FromConfig maps the store and breaker sections of the process config.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Timeout:                    cfg.Store.Timeout,
		ReadRetries:                cfg.Store.ReadRetries,
		RetryBackoff:               cfg.Store.RetryBackoff,
		BreakerMaxRequests:         cfg.Breaker.MaxRequests,
		BreakerInterval:            cfg.Breaker.Interval,
		BreakerTimeout:             cfg.Breaker.Timeout,
		BreakerConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
	}
}
