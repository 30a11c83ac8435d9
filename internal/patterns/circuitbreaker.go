package patterns

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/shopkit/storefront/internal/metrics"
)

// CircuitBreaker guards one backend dependency (catalog, auth, orders).
// Wraps gobreaker and reports state changes to Prometheus.
type CircuitBreaker struct {
	*gobreaker.CircuitBreaker
	name    string
	service string
}

// NewCircuitBreaker creates a breaker that trips when 60% of at least 3
// requests in a 15s window fail, and probes again after 30s.
func NewCircuitBreaker(name, service string) *CircuitBreaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(service, cbName).Set(stateValue(to))

			log.WithFields(log.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state changed")
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(service, name).Set(stateValue(gobreaker.StateClosed))

	return &CircuitBreaker{
		CircuitBreaker: cb,
		name:           name,
		service:        service,
	}
}

// Execute runs fn through the breaker, counting failures.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.CircuitBreaker.Execute(fn)
	if err != nil {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.service, cb.name).Inc()
	}
	return result, err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// FormatError rewrites gobreaker sentinel errors into messages that name the
// unavailable dependency.
func FormatError(circuitName string, err error) error {
	if err == gobreaker.ErrOpenState {
		return fmt.Errorf("circuit breaker %s is open (service unavailable)", circuitName)
	}
	if err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("circuit breaker %s: too many requests in half-open state", circuitName)
	}
	return err
}
