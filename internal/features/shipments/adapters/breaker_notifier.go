package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-tracker/internal/features/shipments/ports"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrNotifierUnavailable is returned while the breaker is open.
var ErrNotifierUnavailable = errors.New("sms provider unavailable")

// BreakerSettings tunes the notifier circuit breaker.
type BreakerSettings struct {
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultBreakerSettings returns the production breaker tuning.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// BreakerNotifier guards a Notifier with a circuit breaker so a provider
// outage fails fast instead of holding every request for the full timeout.
type BreakerNotifier struct {
	next ports.Notifier
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerNotifier wraps next.
func NewBreakerNotifier(next ports.Notifier, settings BreakerSettings, logger *zap.Logger) *BreakerNotifier {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sms",
		MaxRequests: settings.HalfOpenRequests,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerNotifier{next: next, cb: cb}
}

// Send forwards to the wrapped notifier unless the breaker is open.
func (n *BreakerNotifier) Send(ctx context.Context, phoneNumber, message string) error {
	_, err := n.cb.Execute(func() (interface{}, error) {
		return nil, n.next.Send(ctx, phoneNumber, message)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrNotifierUnavailable, err)
	}
	return err
}

// State reports the breaker state.
func (n *BreakerNotifier) State() gobreaker.State {
	return n.cb.State()
}
