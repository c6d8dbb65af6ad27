package restclient

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the backend circuit breaker.
type BreakerSettings struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval is the closed-state window after which counts reset.
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// FailureThreshold is the number of consecutive transport failures that trips it.
	FailureThreshold uint32
}

// NewBreaker returns a breaker that trips on consecutive transport failures.
// Backend answers, even error answers, never reach it as failures; a caller
// cancelling its own request does not count either.
func NewBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 3
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 10 * time.Second
	}
	threshold := s.FailureThreshold
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}
