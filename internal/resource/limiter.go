// Package resource provides admission control for query execution:
// a concurrency cap and an optional rate limit.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds query admission limits.
type Config struct {
	// MaxConcurrent is the maximum number of queries running at once.
	// If 0, concurrency is unlimited.
	MaxConcurrent int64

	// QueriesPerSec is the maximum sustained query rate.
	// If 0, unlimited.
	QueriesPerSec float64
}

// Limiter gates query admission. A nil Limiter admits everything.
type Limiter struct {
	sem     *semaphore.Weighted // nil if unlimited
	limiter *rate.Limiter       // nil if unlimited
}

// NewLimiter creates a limiter from cfg. Returns nil when no limits are
// configured, so callers can skip admission entirely.
func NewLimiter(cfg Config) *Limiter {
	if cfg.MaxConcurrent <= 0 && cfg.QueriesPerSec <= 0 {
		return nil
	}

	l := &Limiter{}
	if cfg.MaxConcurrent > 0 {
		l.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	if cfg.QueriesPerSec > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSec), 1)
	}
	return l
}

// Acquire blocks until the query may run or ctx is canceled.
// Every successful Acquire must be paired with Release.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}

	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	return nil
}

// Release returns the concurrency slot taken by Acquire.
func (l *Limiter) Release() {
	if l == nil {
		return
	}
	if l.sem != nil {
		l.sem.Release(1)
	}
}
