// Package occ runs optimistic read-validate-write cycles with a bounded retry budget.
package occ

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/GlebRadaev/mileage/internal/domain"
)

const (
	DefaultMaxAttempts = 5
	DefaultTimeout     = 2 * time.Second
	DefaultBackoff     = 5 * time.Millisecond
)

type Policy struct {
	MaxAttempts int
	Timeout     time.Duration
	Backoff     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
		Backoff:     DefaultBackoff,
	}
}

// Run calls fn until it returns something other than domain.ErrConflict.
// When the attempts or the wall-clock budget run out it returns domain.ErrContention.
// Cancellation of the parent context is returned as is.
func (p Policy) Run(parent context.Context, fn func(ctx context.Context) error) error {
	ctx := parent
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, p.Timeout)
		defer cancel()
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err != nil && ctx.Err() != nil && parent.Err() == nil && domain.KindOf(err) == domain.KindInternal {
			// the budget ran out inside fn, e.g. while waiting on a row lock
			return domain.ErrContention
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		if attempt >= maxAttempts {
			return domain.ErrContention
		}

		timer := time.NewTimer(p.wait(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			if parent.Err() != nil {
				return parent.Err()
			}
			return domain.ErrContention
		case <-timer.C:
		}
	}
}

func (p Policy) wait(attempt int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}
	base := p.Backoff * time.Duration(attempt)
	return base + rand.N(p.Backoff)
}
