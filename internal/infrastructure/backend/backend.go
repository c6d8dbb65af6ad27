// Package backend holds one module per REST resource. Each wraps the shared
// restclient with typed request and response shapes. Read operations answer
// with a domain.Result: when the backend is unreachable or failing they
// substitute fixed sample data tagged as fallback. Auth and mutation
// operations return the error to the caller.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/infrastructure/restclient"
	"github.com/hoardly/dashboard/internal/metrics"
)

type base struct {
	client   *restclient.Client
	notifier ports.Notifier
	log      zerolog.Logger
}

// Services bundles every resource module of one session.
type Services struct {
	Auth        *Auth
	Users       *Users
	Clients     *Clients
	Hoardings   *Hoardings
	Contracts   *Contracts
	Billings    *Billings
	Photos      *Photos
	Assignments *Assignments
	Search      *Search
}

// NewServices wires every module to client. notifier receives the warnings
// raised when a read falls back to sample data; it may be nil.
func NewServices(client *restclient.Client, notifier ports.Notifier, log zerolog.Logger) *Services {
	b := base{client: client, notifier: notifier, log: log}
	return &Services{
		Auth:        &Auth{base: b},
		Users:       &Users{base: b},
		Clients:     &Clients{base: b},
		Hoardings:   &Hoardings{base: b},
		Contracts:   &Contracts{base: b},
		Billings:    &Billings{base: b},
		Photos:      &Photos{base: b},
		Assignments: &Assignments{base: b},
		Search:      &Search{base: b},
	}
}

func (b base) notify(level domain.Level, msg string) {
	if b.notifier == nil {
		return
	}
	b.notifier.Notify(domain.Notification{Level: level, Message: msg, At: time.Now()})
}

// readThrough runs fetch and, on a recoverable failure, answers with the
// sample returned by fallback. A 404 is a real answer and maps to
// domain.ErrNotFound; other 4xx answers are returned as they are.
func readThrough[T any](ctx context.Context, b base, resource string, fetch func(ctx context.Context) (T, error), fallback func() (T, bool)) (domain.Result[T], error) {
	data, err := fetch(restclient.Quiet(ctx))
	if err == nil {
		return domain.Live(data), nil
	}
	if errors.Is(err, context.Canceled) {
		return domain.Result[T]{}, err
	}

	if !restclient.Recoverable(err) {
		if apiErr, ok := restclient.AsAPIError(err); ok && apiErr.IsNotFound() {
			return domain.Result[T]{}, fmt.Errorf("%s: %w", resource, domain.ErrNotFound)
		}
		b.notify(domain.LevelError, restclient.MessageOf(err))
		return domain.Result[T]{}, fmt.Errorf("%s: %w", resource, err)
	}

	sample, ok := fallback()
	if !ok {
		return domain.Result[T]{}, fmt.Errorf("%s: %w", resource, domain.ErrNotFound)
	}

	msg := fmt.Sprintf("Showing sample %s: %s", resource, restclient.MessageOf(err))
	metrics.FallbacksTotal.WithLabelValues(resource).Inc()
	b.log.Warn().Err(err).Str("resource", resource).Msg("serving sample data")
	b.notify(domain.LevelWarning, msg)
	return domain.Fallback(sample, msg), nil
}

func all[T any](items []T) func() ([]T, bool) {
	return func() ([]T, bool) { return items, true }
}

func one[T any](items []T, id string, idOf func(T) string) func() (T, bool) {
	return func() (T, bool) { return findByID(items, id, idOf) }
}

// mutate wraps a write error with the operation name. Writes are never
// substituted; the restclient has already notified the user.
func mutate(op string, err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := restclient.AsAPIError(err); ok && apiErr.IsNotFound() {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
