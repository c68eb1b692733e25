package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/AnshRaj112/journeys-backend/internal/logging"
	"github.com/AnshRaj112/journeys-backend/internal/metrics"
	"github.com/AnshRaj112/journeys-backend/internal/models"
)

// BreakerGeocoder fails fast while the wrapped geocoder keeps erroring.
// An address with no match, or a request cancelled by its caller, does not count as a failure.
type BreakerGeocoder struct {
	next Geocoder
	cb   *gobreaker.CircuitBreaker[models.LatLng]
}

// NewBreakerGeocoder opens after 5 consecutive failures, or a 60% failure rate
// over at least 10 calls in a minute, and probes again after 30 seconds.
func NewBreakerGeocoder(next Geocoder, name string) *BreakerGeocoder {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[models.LatLng](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// A caller that went away says nothing about the provider.
			return err == nil || errors.Is(err, ErrLocationNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerGeocoder{next: next, cb: cb}
}

func (b *BreakerGeocoder) Resolve(ctx context.Context, address string) (models.LatLng, error) {
	loc, err := b.cb.Execute(func() (models.LatLng, error) {
		return b.next.Resolve(ctx, address)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.GeocodeRequestsTotal.WithLabelValues("rejected").Inc()
		return models.LatLng{}, fmt.Errorf("geocode: %w", err)
	}
	return loc, err
}

// State reports the breaker state.
func (b *BreakerGeocoder) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
