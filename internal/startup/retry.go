package startup

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinetrack/cinetrack/internal/metadata/tmdb"
)

// RetryConfig configures the exponential backoff retry behavior.
type RetryConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
	Multiplier   float64
}

// DefaultRetryConfig returns sensible defaults for network retry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialDelay: 5 * time.Second,
		MaxDelay:     5 * time.Minute,
		MaxAttempts:  5,
		Multiplier:   2.0,
	}
}

// IsRetryable reports whether an error is worth retrying: network unavailability
// or TMDB rate limiting.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, tmdb.ErrTransport) || errors.Is(err, tmdb.ErrRateLimited) {
		return true
	}

	var netErr net.Error
	var dnsErr *net.DNSError
	if errors.As(err, &netErr) || errors.As(err, &dnsErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkIndicators := []string{
		"connection refused",
		"no such host",
		"timeout",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connection reset",
		"temporary failure in name resolution",
	}
	for _, indicator := range networkIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// WithRetry executes fn with exponential backoff, retrying only retryable errors.
// Other errors fail immediately.
func WithRetry(ctx context.Context, name string, cfg RetryConfig, fn func(ctx context.Context) error, logger zerolog.Logger) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info().Str("operation", name).Int("attempt", attempt).Msg("Operation succeeded after retry")
			}
			return nil
		}

		lastErr = err

		if !IsRetryable(err) {
			logger.Error().Err(err).Str("operation", name).Msg("Non-retryable error, giving up")
			return err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		logger.Warn().
			Err(err).
			Str("operation", name).
			Int("attempt", attempt).
			Int("maxAttempts", cfg.MaxAttempts).
			Dur("nextRetryIn", delay).
			Msg("Retryable error, will retry")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}

	logger.Error().Err(lastErr).Str("operation", name).Int("attempts", cfg.MaxAttempts).
		Msg("Operation failed after all retries")
	return lastErr
}

// Tester is anything with a connectivity check.
type Tester interface {
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
}

// VerifyConnectivity checks an upstream API at boot. It only logs; startup never
// fails because TMDB is unreachable.
func VerifyConnectivity(ctx context.Context, t Tester, cfg RetryConfig, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "startup").Str("provider", t.Name()).Logger()

	if !t.IsConfigured() {
		logger.Warn().Msg("API key not configured; metadata pages will fail until one is set")
		return tmdb.ErrAPIKeyMissing
	}

	err := WithRetry(ctx, t.Name()+" connectivity", cfg, t.Test, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Connectivity check failed")
		return err
	}

	logger.Info().Msg("Connectivity check passed")
	return nil
}
