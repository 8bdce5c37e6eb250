package discovery

import (
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerRegistry hands out one circuit breaker per (service, operation)
// pair, so a persistently failing call (e.g. a service disabled in an
// account) stops being retried without affecting unrelated calls (spec §4.3,
// "circuit breaking per service+operation").
type BreakerRegistry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewBreakerRegistry returns an empty registry; breakers are created lazily
// on first use so unit tests that never touch a given service pay nothing.
func NewBreakerRegistry() *BreakerRegistry {
	return &BreakerRegistry{breakers: map[string]*gobreaker.CircuitBreaker{}}
}

// For returns the breaker for a (service, operation) pair, creating one on
// first access. Breakers trip after 5 consecutive failures and stay open for
// 30 seconds before allowing a half-open probe.
func (r *BreakerRegistry) For(service, operation string) *gobreaker.CircuitBreaker {
	key := service + ":" + operation

	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[key]; ok {
		return b
	}

	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	r.breakers[key] = b
	return b
}

// Execute runs fn through the (service, operation) breaker. An open-circuit
// rejection comes back as gobreaker's own error, unchanged.
func (r *BreakerRegistry) Execute(service, operation string, fn func() (any, error)) (any, error) {
	return r.For(service, operation).Execute(fn)
}
