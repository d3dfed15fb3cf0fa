// Package resilient wraps repositories with per-call timeouts, retries for
// idempotent reads and a circuit breaker shared by every storage call.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/uAvicii/0718/internal/config"
	"github.com/uAvicii/0718/internal/domain"
)

// Guard holds the breaker and retry policy applied to wrapped repositories.
type Guard struct {
	cfg     config.ResilienceConfig
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// StateHook is called after every breaker state transition.
type StateHook func(name string, from, to gobreaker.State)

// NewGuard creates a Guard named name. hook may be nil.
func NewGuard(name string, cfg config.ResilienceConfig, log *slog.Logger, hook StateHook) *Guard {
	g := &Guard{cfg: cfg, log: log.With("service", "resilient", "breaker", name)}

	failures := cfg.BreakerFailures
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return failures > 0 && c.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn("circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
			if hook != nil {
				hook(name, from, to)
			}
		},
	})
	return g
}

// State reports the current breaker state.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}

// countsAsSuccess keeps business outcomes from tripping the breaker: a missing
// row or a rejected insert means the storage answered.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	return isDomainError(err) || errors.Is(err, context.Canceled)
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrConflict)
}

func (g *Guard) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = g.cfg.InitialBackoff
	exp.MaxInterval = g.cfg.MaxBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, g.cfg.MaxRetries), ctx)
}

// run executes fn through the breaker with the per-call timeout. Reads
// (retry == true) are retried with exponential backoff on transient errors.
func run[T any](ctx context.Context, g *Guard, op string, retry bool, fn func(context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		var zero T
		res, err := g.breaker.Execute(func() (any, error) {
			callCtx := ctx
			if g.cfg.OpTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, g.cfg.OpTimeout)
				defer cancel()
			}
			return fn(callCtx)
		})
		if err != nil {
			return zero, err
		}
		return res.(T), nil
	}

	if !retry || g.cfg.MaxRetries == 0 {
		return attempt()
	}

	var out T
	tries := 0
	err := backoff.RetryNotify(func() error {
		tries++
		res, err := attempt()
		if err != nil {
			if isDomainError(err) || errors.Is(err, gobreaker.ErrOpenState) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = res
		return nil
	}, g.newBackOff(ctx), func(err error, wait time.Duration) {
		g.log.Warn("retrying storage call", slog.String("op", op), slog.Int("attempt", tries), slog.Duration("wait", wait), slog.String("error", err.Error()))
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
