// Package breaker builds circuit breakers for the outbound API clients.
package breaker

import (
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vmunix/arrsync/internal/metrics"
)

// Config tunes a breaker.
type Config struct {
	MaxRequests      uint32        // allowed while half-open
	Interval         time.Duration // closed-state count reset period
	Timeout          time.Duration // open duration before probing
	FailureThreshold uint32        // consecutive failures that trip it
}

// DefaultConfig suits slow third-party APIs polled by scheduled jobs.
var DefaultConfig = Config{
	MaxRequests:      3,
	Interval:         time.Minute,
	Timeout:          30 * time.Second,
	FailureThreshold: 5,
}

// New returns a breaker named name. isSuccessful decides which errors are
// expected outcomes (a 404, say) rather than failures; nil counts every
// error as a failure.
func New[T any](name string, cfg Config, logger *slog.Logger, isSuccessful func(error) bool) *gobreaker.CircuitBreaker[T] {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerTransition(name, from.String(), to.String(), int(to))
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: isSuccessful,
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}

// Open reports whether err came from a breaker refusing the call.
func Open(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
