package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay after the first failure, doubled each time
	MaxDelay    time.Duration // cap on a single delay
}

// DefaultRetryConfig waits 1s, 2s, 4s between attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Retry runs fn until it succeeds, returns a permanent error, the attempts
// are used up or ctx is done.
func Retry(ctx context.Context, config RetryConfig, logger *slog.Logger, fn func(ctx context.Context) error) error {
	attempts := max(config.MaxAttempts, 1)
	var lastErr error

	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 0 {
				logger.Info("retry succeeded", "attempts", attempt+1)
			}
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		if attempt == attempts-1 {
			break
		}

		delay := backoff(attempt, config)
		logger.Debug("attempt failed", "attempt", attempt+1, "retry_in", delay, "error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}

	return fmt.Errorf("max retries exceeded (%d attempts): %w", attempts, lastErr)
}

// backoff returns BaseDelay * 2^attempt, capped at MaxDelay.
func backoff(attempt int, config RetryConfig) time.Duration {
	delay := config.BaseDelay << attempt
	if config.MaxDelay > 0 && (delay > config.MaxDelay || delay < config.BaseDelay) {
		delay = config.MaxDelay
	}
	return delay
}
