package deliveryapi

import (
	"context"
	"errors"
	"time"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/logx"
)

type fetcher interface {
	FetchPending(context.Context, string) ([]domain.Session, error)
	FetchOngoing(context.Context, string) ([]domain.Session, error)
	FetchHistory(context.Context, string) ([]domain.Session, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes RetryingFetcher behaviour.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingFetcher retries the read-only session views on transport
// failures. Transition commands are deliberately not retried here: a
// command whose response was lost may already have been applied, and only
// a fresh fetch can tell.
type RetryingFetcher struct {
	next    fetcher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(context.Context, time.Duration) bool
}

// NewRetryingFetcher checks that next is not nil and returns a RetryingFetcher.
func NewRetryingFetcher(next fetcher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingFetcher {
	if next == nil {
		return nil
	}
	return &RetryingFetcher{next: next, logger: logger, retries: retries, cfg: cfg, sleep: sleepWithContext}
}

// FetchPending retries the pending view.
func (g *RetryingFetcher) FetchPending(ctx context.Context, riderID string) ([]domain.Session, error) {
	return g.retry(ctx, "FetchPending", riderID, g.next.FetchPending)
}

// FetchOngoing retries the ongoing view.
func (g *RetryingFetcher) FetchOngoing(ctx context.Context, riderID string) ([]domain.Session, error) {
	return g.retry(ctx, "FetchOngoing", riderID, g.next.FetchOngoing)
}

// FetchHistory retries the history view.
func (g *RetryingFetcher) FetchHistory(ctx context.Context, riderID string) ([]domain.Session, error) {
	return g.retry(ctx, "FetchHistory", riderID, g.next.FetchHistory)
}

func (g *RetryingFetcher) retry(
	ctx context.Context,
	method, riderID string,
	fn func(context.Context, string) ([]domain.Session, error),
) ([]domain.Session, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		sessions, err := fn(ctx, riderID)
		if err == nil {
			return sessions, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("delivery gateway retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !g.sleep(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable: only transport-level failures are worth another attempt.
// Auth failures need a new login and rejections need a fresh fetch.
func isRetryable(err error) bool {
	return errors.Is(err, apperr.ErrUnavailable)
}

// backoff computes the retry delay.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

// sleepWithContext waits out the backoff delay, giving up early when the
// context ends.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
