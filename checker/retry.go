package checker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lukemcguire/linksweep/result"
)

// RetryPolicy configures retries for transport failures.
type RetryPolicy struct {
	Attempts int           // Retries after the first attempt (0 = single attempt)
	Delay    time.Duration // Fixed wait before each retry
}

// DefaultRetryPolicy returns no retries with a 1s delay, so enabling
// retries only requires setting Attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 0,
		Delay:    time.Second,
	}
}

// CheckURLWithRetry wraps CheckURL with a fixed-delay retry loop. Only
// transport failures are retried; any HTTP response, whatever its status,
// is final. After the last attempt the final failure is returned.
// Retries are logged at debug level through the logger carried by ctx.
func CheckURLWithRetry(ctx context.Context, client *http.Client, loc result.URLLocation, cfg Config) result.ValidationResult {
	logger := zerolog.Ctx(ctx)

	res, err := CheckURL(ctx, client, loc, cfg)
	for attempt := 1; attempt <= cfg.Retry.Attempts && shouldRetry(ctx, err); attempt++ {
		logger.Debug().
			Str("url", loc.URL).
			Int("attempt", attempt+1).
			Str("reason", res.Description).
			Dur("delay", cfg.Retry.Delay).
			Msg("retrying request")

		select {
		case <-ctx.Done():
			return res
		case <-time.After(cfg.Retry.Delay):
		}

		res, err = CheckURL(ctx, client, loc, cfg)
	}
	return res
}

// shouldRetry reports whether a failed attempt is worth repeating. A
// response was received when err is nil. Redirect loops and malformed
// requests fail the same way every time, and a cancelled run stops
// retrying at once.
func shouldRetry(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, result.ErrRedirectLimit) {
		return false
	}
	var invalidErr *invalidRequestError
	return !errors.As(err, &invalidErr)
}
